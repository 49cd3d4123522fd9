package storage

import (
	"context"
	"io"
)

// BlobStore abstracts where proctoring snapshots and profile images live.
// The filesystem driver backs local development, the GCS driver production.
type BlobStore interface {
	// Put writes the blob and returns its canonical key.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// URL returns a fetchable location for the key.
	URL(key string) string
}
