package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// LocalUploader writes objects under a base directory. Development
// stand-in for the GCS uploader; stored paths are object keys relative
// to the base.
type LocalUploader struct {
	base string
}

func NewLocalUploader(base string) *LocalUploader {
	return &LocalUploader{base: base}
}

func (u *LocalUploader) Upload(_ context.Context, objectName string, _ string, r io.Reader) (string, error) {
	dst := filepath.Join(u.base, filepath.FromSlash(objectName))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("local storage: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("local storage: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("local storage: %w", err)
	}
	return objectName, nil
}

// SignedGetURL returns a file URL; local storage has no signing.
func (u *LocalUploader) SignedGetURL(_ context.Context, objectName string, _ time.Duration) (string, error) {
	return "file://" + filepath.Join(u.base, filepath.FromSlash(objectName)), nil
}
