package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// GCSProvider stores blobs in a Google Cloud Storage bucket. The owner root
// becomes an object key prefix instead of a directory.
type GCSProvider struct {
	client     *storage.Client
	bucket     *storage.BucketHandle
	bucketName string
}

func NewGCSProvider(projectID, bucketName string) (*GCSProvider, error) {
	ctx := context.Background()
	var client *storage.Client
	var err error

	if emulatorHost := os.Getenv("STORAGE_EMULATOR_HOST"); emulatorHost != "" {
		log.Debug().
			Str("emulator_host", emulatorHost).
			Msg("using GCS emulator")
		client, err = storage.NewClient(
			ctx,
			option.WithEndpoint(fmt.Sprintf("http://%s", emulatorHost)),
			option.WithoutAuthentication(),
		)
	} else if creds := os.Getenv("GOOGLE_CLOUD_CREDENTIALS"); creds != "" {
		decodedCreds, decodeErr := base64.StdEncoding.DecodeString(creds)
		if decodeErr != nil {
			return nil, fmt.Errorf("invalid base64 credentials: %w", decodeErr)
		}
		client, err = storage.NewClient(ctx, option.WithCredentialsJSON(decodedCreds))
	} else {
		client, err = storage.NewClient(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	bucket := client.Bucket(bucketName)

	_, err = bucket.Attrs(ctx)
	if errors.Is(err, storage.ErrBucketNotExist) {
		log.Info().
			Str("bucket", bucketName).
			Msg("bucket does not exist, creating")
		if err := bucket.Create(ctx, projectID, nil); err != nil {
			return nil, fmt.Errorf("creating bucket: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("checking bucket: %w", err)
	}

	return &GCSProvider{
		client:     client,
		bucket:     bucket,
		bucketName: bucketName,
	}, nil
}

func (g *GCSProvider) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	w := g.bucket.Object(key).NewWriter(ctx)

	written, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return written, fmt.Errorf("writing object: %w", err)
	}

	if err := w.Close(); err != nil {
		return written, fmt.Errorf("finalizing object: %w", err)
	}

	return written, nil
}

func (g *GCSProvider) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := g.bucket.Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening object: %w", err)
	}
	return r, nil
}

func (g *GCSProvider) Remove(ctx context.Context, key string) error {
	if err := g.bucket.Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("deleting object: %w", err)
	}
	return nil
}

func (g *GCSProvider) Exists(ctx context.Context, key string) (bool, error) {
	_, err := g.bucket.Object(key).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking object existence: %w", err)
	}
	return true, nil
}

func (g *GCSProvider) Close() error {
	return g.client.Close()
}
