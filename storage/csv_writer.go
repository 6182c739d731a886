package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileSink writes exports as files under a directory.
type FileSink struct {
	dir string
}

// NewFileSink returns a sink writing into dir. An empty dir means the
// working directory.
func NewFileSink(dir string) *FileSink {
	if dir == "" {
		dir = "."
	}
	return &FileSink{dir: dir}
}

func (s *FileSink) Name() string { return "file" }

// Path returns where filename will be written.
func (s *FileSink) Path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// Save creates (or truncates) the file and writes text to it.
// Intermediate directories are created automatically.
func (s *FileSink) Save(_ context.Context, filename, text string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	path := s.Path(filename)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("csv: write file %q: %w", path, err)
	}
	return nil
}
