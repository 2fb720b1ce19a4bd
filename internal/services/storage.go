package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/models"
)

// errPartTooLarge signals that a part crossed the per-part ceiling.
var errPartTooLarge = errors.New("part exceeds size limit")

type TransientStorage interface {
	EnsureDir() error
	Spool(kind models.FileKind, originalName, mimeType string, src io.Reader, maxSize int64, reaper *Reaper) (*models.TransientFile, error)
}

type transientStorage struct {
	dir string
}

func NewTransientStorage(dir string) TransientStorage {
	return &transientStorage{dir: dir}
}

func (s *transientStorage) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	return nil
}

// Spool copies src to a uniquely named file, keeping the original extension.
// The file is handed to the reaper as soon as it exists on disk.
func (s *transientStorage) Spool(kind models.FileKind, originalName, mimeType string, src io.Reader, maxSize int64, reaper *Reaper) (*models.TransientFile, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	if len(ext) > 16 {
		ext = ""
	}

	filename := fmt.Sprintf("%s_%s%s", kind, uuid.New().String(), ext)
	path := filepath.Join(s.dir, filename)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create transient file: %w", err)
	}

	file := &models.TransientFile{
		Kind:         kind,
		Path:         path,
		OriginalName: originalName,
		MIMEType:     mimeType,
	}
	reaper.Track(file)

	n, err := io.Copy(dst, io.LimitReader(src, maxSize+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write transient file: %w", err)
	}
	if n > maxSize {
		return nil, errPartTooLarge
	}

	file.Size = n
	return file, nil
}
