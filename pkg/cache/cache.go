// Package cache stores layout results and rendered artifacts by key.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for a
// shared server deployment, and [NullCache] when caching is disabled. Keys come
// from a [Keyer] so that every input that changes the output (graph content,
// viewport, seed, engine tuning, previous positions) also changes the key.
//
// A layout is only reproducible when its seed is pinned, so callers must not
// cache a layout computed from a fresh random seed.
package cache

import (
	"context"
	"time"
)

// Default lifetimes for cached entries.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
