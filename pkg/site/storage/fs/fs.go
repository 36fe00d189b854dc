package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tendant/simple-site/pkg/site"
)

// Backend is a filesystem implementation of the site.BlobStore interface
type Backend struct {
	baseDir   string
	urlPrefix string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir   string // Base directory for storing binaries
	URLPrefix string // Optional URL prefix the base directory is served under
}

// New creates a new filesystem storage backend
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	baseDir, err := filepath.Abs(config.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir:   baseDir,
		urlPrefix: strings.TrimRight(config.URLPrefix, "/"),
	}, nil
}

// filePath maps an object key below the base directory. Keys that would
// escape it are rejected.
func (b *Backend) filePath(objectKey string) (string, error) {
	p := filepath.Join(b.baseDir, filepath.FromSlash(objectKey))
	if p == b.baseDir || !strings.HasPrefix(p, b.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object key %q", objectKey)
	}
	return p, nil
}

// Upload writes the binary to the filesystem. The MIME type lives on the
// content attachment and is not stored here.
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader, mimeType string) error {
	p, err := b.filePath(objectKey)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		_ = file.Close()
		_ = os.Remove(p)
		return fmt.Errorf("failed to write file: %w", err)
	}
	// Buffered write errors may only surface on close.
	if err := file.Close(); err != nil {
		_ = os.Remove(p)
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

// Download opens the stored binary
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	p, err := b.filePath(objectKey)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, site.ErrBlobNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// GetPreviewURL returns the URL of the binary under the configured prefix
func (b *Backend) GetPreviewURL(ctx context.Context, objectKey string) (string, error) {
	if b.urlPrefix == "" {
		return "", errors.New("direct preview required for filesystem backend")
	}
	return fmt.Sprintf("%s/%s", b.urlPrefix, strings.TrimLeft(objectKey, "/")), nil
}

// Exists reports whether the binary is stored
func (b *Backend) Exists(ctx context.Context, objectKey string) (bool, error) {
	p, err := b.filePath(objectKey)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat file: %w", err)
	}
	return true, nil
}
