package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/limaJavier/classplanner/internal/report"
	"github.com/limaJavier/classplanner/pkg/model"
	"github.com/limaJavier/classplanner/pkg/search"
)

// FileStore persists candidates and reports on disk under a base directory.
type FileStore struct {
	baseDir string
}

var _ search.CandidateStore = (*FileStore)(nil)

// NewFileStore ensures the base directory exists and returns a handle.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		baseDir = "./candidates"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Save writes the candidate as a JSON timetable document.
func (s *FileStore) Save(ctx context.Context, name string, timetable *model.Timetable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := report.WriteJSON(&buf, report.NewTimetableDocument(timetable)); err != nil {
		return err
	}
	_, err := s.Write(name, buf.Bytes())
	return err
}

// Write stores raw bytes at the relative path and returns the full path.
func (s *FileStore) Write(name string, data []byte) (string, error) {
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare store directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write store file: %w", err)
	}
	return path, nil
}

// Open returns a read-only handle for a stored file.
func (s *FileStore) Open(name string) (*os.File, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store file: %w", err)
	}
	return file, nil
}

func (s *FileStore) resolve(name string) (string, error) {
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("store path %q escapes the base directory", name)
	}
	return filepath.Join(s.baseDir, clean), nil
}
