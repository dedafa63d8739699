package db

import (
	"context"
	"time"
)

// Cache is the Redis facade: the keyword cache and budget counters.
type Cache interface {
	Pinger
	KVStore
	Counters
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks storage connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore holds expiring blobs.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Counters holds integer counters that expire with their period.
type Counters interface {
	GetInt64(ctx context.Context, key string) (int64, error)
	IncrByWithTTL(ctx context.Context, key string, val int64, ttl time.Duration) (int64, error)
}
