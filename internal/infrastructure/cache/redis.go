// Package cache provides the Redis-backed implementation of the cache
// port, used when a Redis endpoint is configured.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/infrastructure/config"
	"github.com/platewise/v1/internal/ports/outbound"
	"github.com/platewise/v1/pkg/errors"
)

// RedisCache implements the cache port on top of go-redis
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCache connects to Redis and verifies the connection with a ping
func NewRedisCache(cfg config.RedisConfig, logger *zap.Logger) (outbound.CacheRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.Database,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	logger.Info("Connected to Redis",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
	)
	return &RedisCache{client: client, logger: logger.Named("redis-cache")}, nil
}

// Get returns the cached value for a key, or nil on a miss
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewAppError(errors.CodeCacheError, "Cache read failed", key).WithCause(err)
	}
	return value, nil
}

// Set stores a value under a key with a TTL
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.NewAppError(errors.CodeCacheError, "Cache write failed", key).WithCause(err)
	}
	return nil
}

// Delete removes a key
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return errors.NewAppError(errors.CodeCacheError, "Cache delete failed", key).WithCause(err)
	}
	return nil
}

// DeleteByPrefix removes every key sharing a prefix using SCAN, so large
// keyspaces are walked incrementally instead of with a blocking KEYS call.
func (c *RedisCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return errors.NewAppError(errors.CodeCacheError, "Cache delete failed", iter.Val()).WithCause(err)
		}
	}
	if err := iter.Err(); err != nil {
		return errors.NewAppError(errors.CodeCacheError, "Cache scan failed", prefix).WithCause(err)
	}
	return nil
}

// Exists reports whether a key is stored
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	count, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, errors.NewAppError(errors.CodeCacheError, "Cache exists check failed", key).WithCause(err)
	}
	return count > 0, nil
}

// Close releases the underlying connection pool
func (c *RedisCache) Close() error {
	return c.client.Close()
}
