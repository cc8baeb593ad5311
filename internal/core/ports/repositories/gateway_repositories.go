package repositories

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/business_management_app/internal/core/domain"
)

// CacheRepository stores JSON encoded values with a TTL.
type CacheRepository interface {
	// Get decodes the cached value into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// BlobStore keeps receipt files.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// EventPublisher emits domain events after their transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
	Close() error
}
