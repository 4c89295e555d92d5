package storage

import (
	"context"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/config"
)

// ObjectStore uploads write-once objects and returns their public URLs.
// Objects are never deleted or overwritten by this application.
type ObjectStore interface {
	Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error)
	Close() error
}

// GCSStore stores objects in a Google Cloud Storage bucket made publicly
// readable per object.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

// NewGCSStore connects to the configured bucket. When a credentials file is
// set it takes precedence over application default credentials.
func NewGCSStore(ctx context.Context, cfg config.StorageConfig) (*GCSStore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSStore{client: client, bucket: cfg.Bucket}, nil
}

// Upload writes the object and grants public read access, returning the
// public retrieval URL.
func (s *GCSStore) Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	obj := s.client.Bucket(s.bucket).Object(name)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, body); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finish upload of %s: %w", name, err)
	}

	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return "", fmt.Errorf("failed to make object %s public: %w", name, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, name), nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
