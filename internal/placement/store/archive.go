package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileArchive writes uploaded files under a single directory.
type FileArchive struct {
	dir string
}

func NewFileArchive(dir string) (*FileArchive, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &FileArchive{dir: dir}, nil
}

func (a *FileArchive) Create(ctx context.Context, name string) (io.WriteCloser, string, error) {
	if name == "" || name != filepath.Base(name) {
		return nil, "", fmt.Errorf("invalid archive name %q", name)
	}

	path := filepath.Join(a.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return nil, "", fmt.Errorf("create archive file: %w", err)
	}

	return f, path, nil
}

// Remove deletes an archived file. Paths outside the archive dir are refused
// and a file that is already gone is not an error.
func (a *FileArchive) Remove(ctx context.Context, path string) error {
	rel, err := filepath.Rel(a.dir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("path %q is outside the archive", path)
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
