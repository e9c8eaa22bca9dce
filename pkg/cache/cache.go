// Package cache defines the shared key-value cache port used for derived
// package values, plus Redis, in-memory, file and null backends.
//
// Derived-value staleness is controlled entirely by write-triggered
// invalidation (Delete), never by TTL; callers pass ttl=0 for entries that
// live until explicitly invalidated.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte-oriented key-value store with explicit deletion.
// Any backend with get/set/delete suffices; all implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the cached bytes for key and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no time-based expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Key builds a deterministic cache key from its parts, so independent
// processes sharing one backend compute identical keys.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
