package providers

import (
	"context"
)

// CacheProvider defines the interface for caching operations. Get returns an
// error for a missing key.
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Incr atomically increments a counter, setting its expiry on first use
	Incr(ctx context.Context, key string, expirationSeconds int) (int64, error)
}
