package storage

import (
	"context"
	"fmt"
	"io"

	"mycloud-go/internal/config"
)

// Provider is the blob store backing the file registry. Keys are the
// stored_path values produced by PathResolver; one key prefix per owner.
type Provider interface {
	// Save writes the reader's content under key and returns the number of
	// bytes actually written. The caller records that count, never a
	// client-supplied size.
	Save(ctx context.Context, key string, r io.Reader) (int64, error)

	// Open returns a reader over the blob's content
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Remove deletes the blob
	Remove(ctx context.Context, key string) error

	// Exists checks whether the blob is present
	Exists(ctx context.Context, key string) (bool, error)

	// Close cleans up any resources
	Close() error
}

// NewProvider creates a storage provider based on configuration
func NewProvider(cfg config.StorageConfig) (Provider, error) {
	switch cfg.Provider {
	case "local":
		return NewLocalProvider(cfg.RootDir)
	case "gcs":
		return NewGCSProvider(cfg.ProjectID, cfg.BucketName)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}
