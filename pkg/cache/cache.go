// Package cache provides the key-value cache behind frame artifacts and view
// sessions.
//
// Three implementations satisfy [Cache]:
//
//   - [FileCache] stores JSON entry files under a directory (CLI default).
//   - [RedisCache] stores entries in Redis with native expiry (server).
//   - [NullCache] stores nothing (--no-cache).
//
// Keys are produced by a [Keyer] so callers never build key strings by hand.
// [ScopedKeyer] prefixes every key, which lets several servers share one
// Redis instance.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// TTLFrame is how long rendered artifacts stay cached. Frames are pure
	// functions of their options, so this only bounds disk usage.
	TTLFrame = 24 * time.Hour

	// TTLSession is how long an idle view session survives.
	TTLSession = time.Hour
)

// Cache stores byte values with an optional time to live.
type Cache interface {
	// Get returns the value for key. A missing or expired key is a miss
	// (hit == false) and not an error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the cache's resources.
	Close() error
}
