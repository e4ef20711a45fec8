// Package upload handles multipart file intake into a temp directory served
// back to the client, plus the scheduled sweep that removes expired files.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/davidbz/howl/internal/config"
	"github.com/davidbz/howl/internal/observability"
)

const sweepInterval = time.Hour

// ErrFileTooLarge indicates the uploaded file exceeds the configured limit.
var ErrFileTooLarge = errors.New("uploaded file is too large")

// Store saves uploads under a single directory with generated names.
type Store struct {
	dir      string
	maxBytes int64
	ttl      time.Duration
}

// NewStore creates the upload directory if needed.
func NewStore(cfg *config.UploadConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	return &Store{
		dir:      cfg.Dir,
		maxBytes: cfg.MaxBytes,
		ttl:      time.Duration(cfg.TTL) * time.Second,
	}, nil
}

// Dir returns the directory uploads are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the uploaded file to disk and returns its generated filename.
func (s *Store) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > s.maxBytes {
		return "", ErrFileTooLarge
	}

	name := uuid.New().String() + filepath.Ext(header.Filename)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, s.maxBytes)); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return name, nil
}

// Sweep removes files older than the TTL.
func (s *Store) Sweep(ctx context.Context) {
	logger := observability.FromContext(ctx)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		logger.Warn("upload sweep failed to read dir", observability.Error(err))
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if time.Since(info.ModTime()) <= s.ttl {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.Warn("upload sweep failed to remove file",
				observability.Error(err),
				observability.String("path", path),
			)
			continue
		}

		logger.Info("removed expired upload", observability.String("path", path))
	}
}

// StartJanitor sweeps once immediately, then hourly until ctx is done.
func (s *Store) StartJanitor(ctx context.Context) {
	go func() {
		s.Sweep(ctx)

		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep(ctx)
			}
		}
	}()
}
