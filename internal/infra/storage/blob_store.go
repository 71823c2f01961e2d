// Package storage implements the document file store on top of
// gocloud.dev blob buckets, so local disk and GCS share one code path.
package storage

import (
	"context"
	"io"
	"log/slog"

	"bimeh/config"
	"bimeh/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// Bucket drivers selected by the configured URL scheme.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
)

// ErrBlobNotFound is returned when no blob exists under the given key.
var ErrBlobNotFound = errors.New("blob not found")

type blobStore struct {
	bucket *blob.Bucket
}

// Params holds dependencies for the blob store, injected by Fx
type Params struct {
	fx.In
	fx.Lifecycle

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured bucket and registers its shutdown hook.
func New(params Params) (service.FileStore, error) {
	if params.Config.Storage == nil || params.Config.Storage.BucketURL == "" {
		return nil, errors.New("storage bucket URL is not configured")
	}

	bucket, err := blob.OpenBucket(params.Ctx, params.Config.Storage.BucketURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open blob bucket")
	}

	params.Logger.Info("Blob bucket opened",
		slog.String("bucket_url", params.Config.Storage.BucketURL),
	)

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return &blobStore{bucket: bucket}, nil
}

// Save writes the content under key, recording contentType on the blob.
func (s *blobStore) Save(ctx context.Context, key string, contentType string, content io.Reader) error {
	writer, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType: contentType,
	})
	if err != nil {
		return errors.Wrap(err, "failed to open blob writer")
	}

	if _, err := io.Copy(writer, content); err != nil {
		// Abort the write so no partial blob is committed.
		_ = writer.Close()

		return errors.Wrap(err, "failed to write blob content")
	}

	if err := writer.Close(); err != nil {
		return errors.Wrap(err, "failed to commit blob")
	}

	return nil
}

// Open returns a reader over the blob at key. The caller closes it.
func (s *blobStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	reader, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrBlobNotFound
		}

		return nil, errors.Wrap(err, "failed to open blob reader")
	}

	return reader, nil
}

// Delete removes the blob at key.
func (s *blobStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return ErrBlobNotFound
		}

		return errors.Wrap(err, "failed to delete blob")
	}

	return nil
}
