package ports

import (
	"context"
	"time"
)

// Cache is a key-value capability with expiry, used for application
// tokens and other short-lived lookups. Expired entries read as not
// found. A zero TTL stores the value without expiry.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
