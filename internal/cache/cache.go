// Package cache stores short-lived string values such as postal lookup
// results and pending import batches.
package cache

import (
	"context"
	"time"
)

// Cache is a string key-value store with per-entry expiry. A zero ttl means
// the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
