package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	cfg "github.com/templui/stepboard/internal/config"
)

var ErrNotFound = errors.New("stored file not found")

// Storage defines the interface for proof image storage
type Storage interface {
	// Save stores a file at the given key
	Save(ctx context.Context, key string, file io.Reader) error

	// Delete removes the file at the given key
	Delete(ctx context.Context, key string) error

	// Open returns the stored bytes, ErrNotFound when the key is unknown
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// URL returns a direct download URL, or "" when files must be streamed through Open
	URL(ctx context.Context, key string) string
}

// New picks the storage backend from app config
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case cfg.StorageDriverLocal, "":
		slog.Info("initializing local storage", "dir", c.UploadDir)
		return NewLocalStorage(c.UploadDir)
	case cfg.StorageDriverS3:
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(context.Background(), S3Config{
			Region:        c.S3Region,
			Bucket:        c.S3Bucket,
			AccessKey:     c.S3AccessKey,
			SecretKey:     c.S3SecretKey,
			Endpoint:      c.S3Endpoint,
			PresignExpiry: c.S3PresignExpiry,
		})
	}
	return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
}
