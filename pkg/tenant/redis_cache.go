package tenant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCache backs the directory cache with Redis so multiple instances of
// the platform share one warm cache. Redis failures degrade to cache misses;
// the directory source of truth still answers.
type redisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache returns a Redis-backed directory cache. Keys are namespaced
// under prefix, defaulting to "tenant:directory:".
func NewRedisCache(client *redis.Client, prefix string) Cache {
	if prefix == "" {
		prefix = "tenant:directory:"
	}
	return &redisCache{client: client, prefix: prefix}
}

func (c *redisCache) Get(ctx context.Context, key string) (*Info, bool) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	var info Info
	if err := json.Unmarshal(raw, &info); err != nil {
		// Corrupt entry; drop it so the next lookup repopulates.
		c.client.Del(ctx, c.prefix+key)
		return nil, false
	}
	return &info, true
}

func (c *redisCache) Set(ctx context.Context, key string, info *Info, ttl time.Duration) {
	raw, err := json.Marshal(info)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.prefix+key, raw, ttl)
}

func (c *redisCache) Delete(ctx context.Context, key string) {
	c.client.Del(ctx, c.prefix+key)
}

func (c *redisCache) Close() error {
	// The client is shared and owned by the caller.
	return nil
}
