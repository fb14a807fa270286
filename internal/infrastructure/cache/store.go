package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented key-value store with per-key expiration
type Store interface {
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	// Get returns ok=false for missing or expired keys
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Delete(ctx context.Context, key string) error
}
