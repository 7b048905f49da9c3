// Package cache provides the caches behind the employee read-through layer:
// in-process LRU and FIFO caches with TTL support, and a Redis-backed cache.
//
// All implementations store raw bytes so that callers pick the encoding and
// the backends stay interchangeable:
//
//	c, err := cache.NewCache(cfg.CacheConfig, redisClient)
//	if err != nil {
//	    return err
//	}
//	defer c.Stop()
//
//	c.Set(ctx, "employee:42", payload)
//	b, ok := c.Get(ctx, "employee:42")
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/duccv/employee-api/config"
	"github.com/redis/go-redis/v9"
)

// Cache is implemented by every backend. Backend failures are reported as
// misses; a cache never fails the caller.
type Cache interface {
	// Get returns the value stored under key. For LRU caches this also
	// refreshes the key's position.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key with the default TTL.
	Set(ctx context.Context, key string, value []byte)

	// SetWithTTL stores value under key with a custom TTL.
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration)

	// Delete removes key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string)

	// Stop releases background resources. Safe to call more than once.
	Stop()
}

// CacheData is a stored value and its expiry.
type CacheData struct {
	Value   []byte
	Timeout time.Time
}

func (d CacheData) expired(now time.Time) bool {
	return now.After(d.Timeout)
}

// NewCache builds the backend named by cfg.Type ("lru", "fifo" or "redis").
// client is only used by the redis backend.
func NewCache(cfg config.CacheConfig, client redis.UniversalClient, keyPrefix string) (Cache, error) {
	ttl := time.Duration(cfg.DefaultTTL) * time.Second

	switch strings.ToLower(cfg.Type) {
	case "", "lru":
		return NewLRUCache(cfg.Capacity, ttl), nil
	case "fifo":
		return NewFIFOCache(cfg.Capacity, ttl), nil
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("redis cache requires a redis client")
		}
		return NewRedisCache(client, keyPrefix, ttl), nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %q", cfg.Type)
	}
}
