package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// LocalProvider stores blobs on the local filesystem, one directory per
// owner under baseDir. Owner directories are created lazily on first write.
type LocalProvider struct {
	baseDir string
}

func NewLocalProvider(baseDir string) (*LocalProvider, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}

	return &LocalProvider{baseDir: baseDir}, nil
}

func (l *LocalProvider) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	fullPath := filepath.Join(l.baseDir, filepath.FromSlash(key))

	// Lazily create the owner's root. MkdirAll is idempotent, so repeated
	// uploads by the same owner never error here.
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return 0, fmt.Errorf("creating owner directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return 0, fmt.Errorf("creating file: %w", err)
	}
	defer func() {
		if err := dst.Close(); err != nil {
			log.Error().Err(err).Str("key", key).Msg("error closing file")
		}
	}()

	written, err := io.Copy(dst, r)
	if err != nil {
		return written, fmt.Errorf("writing file: %w", err)
	}

	return written, nil
}

func (l *LocalProvider) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(l.baseDir, filepath.FromSlash(key)))
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return f, nil
}

func (l *LocalProvider) Remove(ctx context.Context, key string) error {
	if err := os.Remove(filepath.Join(l.baseDir, filepath.FromSlash(key))); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}

func (l *LocalProvider) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.Join(l.baseDir, filepath.FromSlash(key)))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("checking file existence: %w", err)
}

func (l *LocalProvider) Close() error {
	return nil
}
