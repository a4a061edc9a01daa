package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type localCache struct {
	c *gocache.Cache
}

// NewLocalCache builds an in-process cache backed by go-cache.
func NewLocalCache(cfg LocalConfig) Cache {
	exp := cfg.DefaultExpiration
	if exp == 0 {
		exp = 5 * time.Minute
	}
	cleanup := cfg.CleanupInterval
	if cleanup == 0 {
		cleanup = 10 * time.Minute
	}
	return &localCache{c: gocache.New(exp, cleanup)}
}

func (l *localCache) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := l.c.Get(key)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

func (l *localCache) Set(_ context.Context, key string, value []byte, expiration time.Duration) error {
	l.c.Set(key, value, expiration)
	return nil
}

func (l *localCache) Delete(_ context.Context, key string) error {
	l.c.Delete(key)
	return nil
}

func (l *localCache) Clear(_ context.Context) error {
	l.c.Flush()
	return nil
}

func (l *localCache) Close() error { return nil }
