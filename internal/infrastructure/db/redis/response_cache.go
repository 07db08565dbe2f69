package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 10 * time.Second

// ResponseCache stores rendered HTTP responses under a key namespace.
// Key format: cache:<namespace>:<key>
type ResponseCache struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

func NewResponseCache(client *redis.Client, namespace string, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ResponseCache{client: client, namespace: namespace, ttl: ttl}
}

// Get returns the stored payload. A miss is reported as ok == false with a
// nil error.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	bs, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	return bs, true, nil
}

func (c *ResponseCache) Set(ctx context.Context, key string, payload []byte) error {
	return c.client.SetEx(ctx, c.key(key), payload, c.ttl).Err()
}

// Invalidate drops every entry of the namespace.
func (c *ResponseCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.key("*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *ResponseCache) key(k string) string {
	return fmt.Sprintf("cache:%s:%s", c.namespace, k)
}
