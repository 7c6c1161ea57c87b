package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestEncodeLargePNG(t *testing.T) {
	data := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0xAB, 0x00, 0x7F}, 2<<20/3)...)
	path := writeTempFile(t, "scan.png", data)

	encoded, err := NewEncoder().Encode(context.Background(), LocalFile{Path: path})
	require.NoError(t, err)

	assert.Equal(t, "scan.png", encoded.Name)
	assert.Equal(t, "image/png", encoded.MIMEType)
	assert.Equal(t, int64(len(data)), encoded.Size)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(data), encoded.DataURL)
}

func TestEncodeMIMEResolution(t *testing.T) {
	enc := NewEncoder()
	ctx := context.Background()

	declared, err := enc.Encode(ctx, MemoryFile{FileName: "cert.bin", Type: "image/jpeg; charset=binary", Data: []byte{1}})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", declared.MIMEType)

	byExt, err := enc.Encode(ctx, MemoryFile{FileName: "cert.pdf", Data: []byte("%PDF-1.4")})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", byExt.MIMEType)

	sniffed, err := enc.Encode(ctx, MemoryFile{FileName: "noext", Data: []byte("\x89PNG\r\n\x1a\n")})
	require.NoError(t, err)
	assert.Equal(t, "image/png", sniffed.MIMEType)

	empty, err := enc.Encode(ctx, MemoryFile{FileName: "noext"})
	require.NoError(t, err)
	assert.Equal(t, "data:application/octet-stream;base64,", empty.DataURL)
}

func TestEncodeReadError(t *testing.T) {
	_, err := NewEncoder().Encode(context.Background(), LocalFile{Path: filepath.Join(t.TempDir(), "gone.png")})
	require.Error(t, err)

	var readErr *ReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, "gone.png", readErr.Name)
	assert.Equal(t, "read_error", ErrorKind(err))
}

func TestEncodeNoFile(t *testing.T) {
	_, err := NewEncoder().Encode(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoFileSelected)
}

func TestDataURLRoundTrip(t *testing.T) {
	data := []byte{0, 1, 2, 250}
	mimeType, decoded, err := DecodeDataURL(EncodeDataURL("image/webp", data))
	require.NoError(t, err)
	assert.Equal(t, "image/webp", mimeType)
	assert.Equal(t, data, decoded)

	for _, bad := range []string{"image/png;base64,AAAA", "data:image/png;base64", "data:text/plain,hello", "data:image/png;base64,@@"} {
		_, _, err := DecodeDataURL(bad)
		assert.Error(t, err, bad)
	}
}
