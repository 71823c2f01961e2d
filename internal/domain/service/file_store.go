package service

import (
	"context"
	"io"
)

// FileStore abstracts the object storage holding uploaded documents.
// Keys follow documents/<user_id>/<uuid>.<ext>.
type FileStore interface {
	// Save writes the content under key, recording contentType on the blob.
	Save(ctx context.Context, key string, contentType string, content io.Reader) error

	// Open returns a reader over the blob at key. The caller closes it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob at key.
	Delete(ctx context.Context, key string) error
}
