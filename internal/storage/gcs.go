package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/maisoncms/backend/internal/logger"
)

const (
	putTimeout    = 2 * time.Minute
	deleteTimeout = 30 * time.Second
)

// GCSStore is the production ObjectStore backed by a Google Cloud Storage
// bucket whose objects are publicly readable.
type GCSStore struct {
	client        *gcs.Client
	bucket        string
	publicBaseURL string
	log           *logger.Logger
}

// NewGCSStore opens a storage client for the given bucket. When
// STORAGE_EMULATOR_HOST is set the client connects unauthenticated to the
// emulator. publicBaseURL overrides the storage.googleapis.com URL prefix
// when serving through a CDN or emulator.
func NewGCSStore(ctx context.Context, bucket, publicBaseURL string, log *logger.Logger) (*GCSStore, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("storage bucket name is required")
	}

	var opts []option.ClientOption
	if strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")) != "" {
		opts = append(opts, option.WithoutAuthentication())
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &GCSStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
		log:           log.With("component", "gcs_store"),
	}, nil
}

// Put writes one object and returns its public URL.
func (s *GCSStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, putTimeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=3600"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object %q: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close object writer %q: %w", path, err)
	}

	return s.publicURL(path), nil
}

// Delete removes the given objects, swallowing every failure. A missing
// object counts as already deleted, which keeps compensation idempotent.
func (s *GCSStore) Delete(ctx context.Context, paths []string) {
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		func() {
			delCtx, cancel := context.WithTimeout(ctx, deleteTimeout)
			defer cancel()

			err := s.client.Bucket(s.bucket).Object(path).Delete(delCtx)
			if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
				s.log.Warn("storage delete failed", "path", path, "error", err)
			}
		}()
	}
}

func (s *GCSStore) publicURL(path string) string {
	path = strings.TrimLeft(path, "/")
	if s.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, path)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, path)
}
