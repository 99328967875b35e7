package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps each bucket as a directory under Root.
type FileStore struct {
	Root string
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Root: dir}
}

// Put writes data atomically: it is written to a temporary file in the bucket
// directory and renamed into place.
func (s *FileStore) Put(ctx context.Context, bucket, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(bucket, name)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("put %s/%s: create bucket dir: %w", bucket, name, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("put %s/%s: create temp: %w", bucket, name, err)
	}
	defer os.Remove(tmp.Name()) // No-op after rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("put %s/%s: write: %w", bucket, name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("put %s/%s: close: %w", bucket, name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("put %s/%s: rename: %w", bucket, name, err)
	}
	return nil
}

// Get reads the whole object. Returns ErrNotFound if it does not exist.
func (s *FileStore) Get(ctx context.Context, bucket, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(bucket, name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("get %s/%s: %w", bucket, name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", bucket, name, err)
	}
	return data, nil
}

// path resolves bucket/name under Root, rejecting names that escape it.
func (s *FileStore) path(bucket, name string) (string, error) {
	for _, part := range []string{bucket, name} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("blob: invalid object path %q/%q", bucket, name)
		}
	}
	return filepath.Join(s.Root, bucket, name), nil
}
