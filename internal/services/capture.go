package services

import (
	"context"
	"io/fs"
	"net/http"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
)

// Image is a still camera frame.
type Image struct {
	MIMEType string
	Data     []byte
}

func (i *Image) DataURL() string {
	return EncodeDataURL(i.MIMEType, i.Data)
}

// CaptureSource yields the current camera frame, or nil when no live frame is
// available yet. It never starts or stops the camera.
type CaptureSource interface {
	Capture(ctx context.Context) (*Image, error)
}

// FrameBuffer holds the latest frame pushed by the presentation layer.
type FrameBuffer struct {
	mu     sync.RWMutex
	latest *Image
}

func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// Update replaces the current frame; a nil or empty image clears it.
func (b *FrameBuffer) Update(img *Image) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if img == nil || len(img.Data) == 0 {
		b.latest = nil
		return
	}
	data := make([]byte, len(img.Data))
	copy(data, img.Data)
	b.latest = &Image{MIMEType: img.MIMEType, Data: data}
}

// Capture implements CaptureSource.
func (b *FrameBuffer) Capture(ctx context.Context) (*Image, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest, nil
}

type fileCaptureSource struct {
	path string
}

// NewFileCaptureSource reads the frame an external camera process keeps
// writing to path.
func NewFileCaptureSource(path string) CaptureSource {
	return &fileCaptureSource{path: path}
}

// Capture implements CaptureSource.
func (s *fileCaptureSource) Capture(ctx context.Context) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &ReadError{Name: s.path, Err: err}
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &Image{MIMEType: stripParams(http.DetectContentType(data)), Data: data}, nil
}
