package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

const defaultMIMEType = "application/octet-stream"

// RawFile is a user-selected file that has not been read yet.
type RawFile interface {
	Name() string
	// ContentType is the type declared by the selector, or "".
	ContentType() string
	Open() (io.ReadCloser, error)
}

// EncodedFile is the inline data URL form of a file: data:<mime>;base64,<payload>.
type EncodedFile struct {
	Name     string
	MIMEType string
	Size     int64
	DataURL  string
}

type Encoder interface {
	Encode(ctx context.Context, file RawFile) (*EncodedFile, error)
}

type dataURLEncoder struct{}

func NewEncoder() Encoder {
	return &dataURLEncoder{}
}

// Encode implements Encoder. The file content is not validated.
func (e *dataURLEncoder) Encode(ctx context.Context, file RawFile) (*EncodedFile, error) {
	if file == nil {
		return nil, ErrNoFileSelected
	}
	name := file.Name()

	src, err := file.Open()
	if err != nil {
		return nil, &ReadError{Name: name, Err: err}
	}
	defer src.Close()

	data, err := io.ReadAll(&contextReader{ctx: ctx, r: src})
	if err != nil {
		return nil, &ReadError{Name: name, Err: err}
	}

	mimeType := resolveMIMEType(file.ContentType(), name, data)
	return &EncodedFile{
		Name:     name,
		MIMEType: mimeType,
		Size:     int64(len(data)),
		DataURL:  EncodeDataURL(mimeType, data),
	}, nil
}

func EncodeDataURL(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = defaultMIMEType
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL splits a base64 data URL into its MIME type and bytes.
func DecodeDataURL(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, errors.New("data url: missing data: prefix")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("data url: missing payload separator")
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, errors.New("data url: only base64 payloads are supported")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.Wrap(err, "data url: decode payload")
	}
	if mimeType == "" {
		mimeType = defaultMIMEType
	}
	return mimeType, data, nil
}

func resolveMIMEType(declared, name string, data []byte) string {
	if t := stripParams(declared); t != "" && t != defaultMIMEType {
		return t
	}
	if t := stripParams(mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))); t != "" {
		return t
	}
	if len(data) > 0 {
		return stripParams(http.DetectContentType(data))
	}
	return defaultMIMEType
}

func stripParams(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(contentType)
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// LocalFile is a RawFile backed by a path on disk.
type LocalFile struct {
	Path string
	Type string
}

func (f LocalFile) Name() string        { return filepath.Base(f.Path) }
func (f LocalFile) ContentType() string { return f.Type }

func (f LocalFile) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// MemoryFile is a RawFile whose content was already read, such as an upload
// that must outlive its request.
type MemoryFile struct {
	FileName string
	Type     string
	Data     []byte
}

func (f MemoryFile) Name() string        { return f.FileName }
func (f MemoryFile) ContentType() string { return f.Type }

func (f MemoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.Data)), nil
}
