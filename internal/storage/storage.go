package storage

import (
	"context"
	"io"
	"time"
)

// Service stores uploaded file blobs in remote object storage.
type Service interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}
