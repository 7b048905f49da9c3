package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/duccv/employee-api/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects to a single node ("normal") or through sentinels
// ("sentinel", space separated addresses in cfg.Addr) and pings it.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	var client *redis.Client

	switch strings.ToLower(cfg.Type) {
	case "", "normal":
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	case "sentinel":
		client = redis.NewFailoverClient(&redis.FailoverOptions{
			SentinelAddrs: strings.Fields(cfg.Addr),
			MasterName:    cfg.MasterName,
			Password:      cfg.Password,
			DB:            cfg.DB,
			ReadTimeout:   100 * time.Millisecond,
		})
	default:
		return nil, fmt.Errorf("invalid redis type %q, must be 'normal' or 'sentinel'", cfg.Type)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	zap.L().Info("Connected to Redis", zap.String("addr", cfg.Addr))
	return client, nil
}

// RedisCache stores entries in Redis under prefix+key. Errors are logged and
// surface as misses.
type RedisCache struct {
	client     redis.UniversalClient
	prefix     string
	defaultTtl time.Duration
}

func NewRedisCache(client redis.UniversalClient, prefix string, defaultTtl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, defaultTtl: defaultTtl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Warn("Redis cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return b, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) {
	c.SetWithTTL(ctx, key, value, c.defaultTtl)
}

func (c *RedisCache) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		zap.L().Warn("Redis cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		zap.L().Warn("Redis cache delete failed", zap.String("key", key), zap.Error(err))
	}
}

// Stop is a no-op; the client is owned and closed by whoever created it.
func (c *RedisCache) Stop() {}
