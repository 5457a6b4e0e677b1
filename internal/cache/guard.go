// Package cache holds short-lived keys that stop the same submission from
// being stored twice while the first one is still in flight.
package cache

import (
	"context"
	"time"
)

// Guard claims keys for a limited time.
type Guard interface {
	// Acquire claims key for ttl. It reports false when the key is
	// already held.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
	Close() error
}
