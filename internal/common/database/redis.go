// internal/common/database/redis.go
package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"qa-workers/internal/common/config"
)

const pageKeyPrefix = "qa:page:"

// NewRedis creates a Redis client for the page cache.
func NewRedis(cfg config.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

// PageCache stores extracted page text keyed by URL.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	return &PageCache{client: client, ttl: ttl}
}

// PageKey returns the Redis key for url.
func PageKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return pageKeyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached text for url. A miss is ("", false, nil).
func (c *PageCache) Get(ctx context.Context, url string) (string, bool, error) {
	text, err := c.client.Get(ctx, PageKey(url)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return text, true, nil
}

// Set stores text for url with the cache TTL.
func (c *PageCache) Set(ctx context.Context, url, text string) error {
	if err := c.client.Set(ctx, PageKey(url), text, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping tests the Redis connection
func (c *PageCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *PageCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
