package db

import (
	"context"
	"time"
)

// Store is the database facade used by recipedex.
type Store interface {
	Pinger
	HashStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore provides hash-based key-value operations with expiry.
type HashStore interface {
	// HSetWithTTL sets hash fields and refreshes the key TTL in one round-trip.
	HSetWithTTL(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error
	// HGetAll returns all fields of a hash; a missing key yields an empty map.
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
