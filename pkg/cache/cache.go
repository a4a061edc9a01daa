package cache

import (
	"context"
	"time"
)

// Cache is the small read-through cache used for per-user history
// listings. Values are whatever the caller stores; the redis backend
// JSON-encodes them, so callers should stick to JSON-friendly types.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}

type Config struct {
	Type string // "local" or "redis"

	Redis RedisConfig
	Local LocalConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LocalConfig struct {
	DefaultExpiration time.Duration
	CleanupInterval   time.Duration
}
