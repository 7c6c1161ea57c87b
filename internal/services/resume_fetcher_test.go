package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/career-copilot/internal/models"
)

// minimalPDF builds a one-page PDF with a correct cross-reference table.
func minimalPDF() []byte {
	content := "BT /F1 24 Tf 72 720 Td (Jane Doe Resume) Tj ET"
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func newTestFetcher(t *testing.T) (ResumeFetcher, string) {
	t.Helper()
	dir := t.TempDir()
	return NewResumeFetcher(NewStorageService(dir, 0), NewPDFParserService(), 5*time.Second, zerolog.Nop()), dir
}

func TestResumeFetcherDownloadsPDF(t *testing.T) {
	pdf := minimalPDF()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf)
	}))
	defer server.Close()

	fetcher, dir := newTestFetcher(t)
	saved, err := fetcher.Fetch(context.Background(), models.ResumeDocument{DownloadURL: server.URL + "/r.pdf"})
	require.NoError(t, err)

	assert.Equal(t, 1, saved.PageCount)
	assert.FileExists(t, saved.Path)
	assert.Contains(t, saved.Path, dir)

	data, err := os.ReadFile(saved.Path)
	require.NoError(t, err)
	assert.Equal(t, pdf, data)
}

func TestResumeFetcherRemovesUnreadableDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>expired link</html>"))
	}))
	defer server.Close()

	fetcher, dir := newTestFetcher(t)
	_, err := fetcher.Fetch(context.Background(), models.ResumeDocument{DownloadURL: server.URL})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResumeFetcherRejectsBadInput(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	fetcher, _ := newTestFetcher(t)

	_, err := fetcher.Fetch(context.Background(), models.ResumeDocument{})
	assert.Error(t, err)

	_, err = fetcher.Fetch(context.Background(), models.ResumeDocument{DownloadURL: server.URL})
	assert.ErrorContains(t, err, "status code 404")
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Jane Doe\nGo Engineer", CleanText("  Jane Doe  \n\n\n Go Engineer \n"))
	assert.Equal(t, "a b", preview("a\n\n  b", 10))
	assert.Equal(t, "abc…", preview("abcdef", 3))
}
