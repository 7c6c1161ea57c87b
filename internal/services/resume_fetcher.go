package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"alfredoptarigan/career-copilot/internal/models"
)

// DownloadedResume is a generated resume saved locally.
type DownloadedResume struct {
	Filename  string
	Path      string
	PageCount int
	Preview   string
}

// ResumeFetcher follows a resume's download URL and inspects the PDF.
type ResumeFetcher interface {
	Fetch(ctx context.Context, doc models.ResumeDocument) (*DownloadedResume, error)
}

type resumeFetcher struct {
	httpClient *http.Client
	storage    StorageService
	parser     PDFParserService
	logger     zerolog.Logger
}

func NewResumeFetcher(storage StorageService, parser PDFParserService, timeout time.Duration, logger zerolog.Logger) ResumeFetcher {
	return &resumeFetcher{
		httpClient: &http.Client{Timeout: timeout},
		storage:    storage,
		parser:     parser,
		logger:     logger,
	}
}

// Fetch implements ResumeFetcher.
func (f *resumeFetcher) Fetch(ctx context.Context, doc models.ResumeDocument) (*DownloadedResume, error) {
	url := strings.TrimSpace(doc.DownloadURL)
	if url == "" {
		return nil, errors.New("resume has no download url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create download request")
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to download resume")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("failed to download resume: status code %d", resp.StatusCode)
	}

	filename, path, err := f.storage.SaveStream(resp.Body, "resume", ".pdf")
	if err != nil {
		return nil, err
	}

	content, err := f.parser.Inspect(path)
	if err != nil {
		// Cleanup a download that is not a readable PDF
		if delErr := f.storage.DeleteFile(filename); delErr != nil {
			f.logger.Warn().Err(delErr).Str("file", filename).Msg("⚠️  Failed to remove unreadable download")
		}
		return nil, errors.Wrap(err, fmt.Sprintf("downloaded resume %s is not a readable PDF", filename))
	}

	f.logger.Info().Str("file", path).Int("pages", content.PageCount).Msg("⬇️  Resume downloaded")

	return &DownloadedResume{
		Filename:  filename,
		Path:      path,
		PageCount: content.PageCount,
		Preview:   content.Preview,
	}, nil
}
