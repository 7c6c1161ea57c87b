package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type StorageService interface {
	SaveStream(src io.Reader, prefix, ext string) (string, string, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureDownloadDir() error
}

type storageService struct {
	downloadPath string
	maxFileSize  int64
}

// NewStorageService stores downloads under downloadPath. maxFileSize <= 0
// disables the size limit.
func NewStorageService(downloadPath string, maxFileSize int64) StorageService {
	return &storageService{
		downloadPath: downloadPath,
		maxFileSize:  maxFileSize,
	}
}

func (s *storageService) EnsureDownloadDir() error {
	if err := os.MkdirAll(s.downloadPath, 0755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	return nil
}

// SaveStream copies src into a uniquely named file and returns its name and
// full path. A partially written file is removed on error.
func (s *storageService) SaveStream(src io.Reader, prefix, ext string) (string, string, error) {
	if err := s.EnsureDownloadDir(); err != nil {
		return "", "", err
	}

	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	uniqueFilename := fmt.Sprintf("%s_%s%s", prefix, uuid.New().String(), ext)
	filePath := filepath.Join(s.downloadPath, uniqueFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create destination file: %w", err)
	}

	reader := src
	if s.maxFileSize > 0 {
		reader = io.LimitReader(src, s.maxFileSize+1)
	}

	written, err := io.Copy(dst, reader)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err == nil && s.maxFileSize > 0 && written > s.maxFileSize {
		err = fmt.Errorf("file exceeds %d bytes", s.maxFileSize)
	}
	if err != nil {
		os.Remove(filePath)
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return uniqueFilename, filePath, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.downloadPath, filename)
}

func (s *storageService) DeleteFile(filename string) error {
	filePath := s.GetFilePath(filename)
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
