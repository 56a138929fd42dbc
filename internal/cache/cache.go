// Package cache provides an optional Redis-backed cache for catalog reads.
// When no Redis URL is configured every method is a no-op, mirroring how
// unconfigured external services behave elsewhere in this codebase.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const productTTL = 5 * time.Minute

// ProductCache caches serialized product responses.
type ProductCache struct {
	client *redis.Client
}

// New connects to Redis, or returns a disabled cache when redisURL is empty
// or unparseable.
func New(redisURL string) *ProductCache {
	if redisURL == "" {
		return &ProductCache{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("[Cache] invalid REDIS_URL, cache disabled: %v", err)
		return &ProductCache{}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("[Cache] redis unreachable, cache disabled: %v", err)
		return &ProductCache{}
	}

	return &ProductCache{client: client}
}

// Enabled reports whether a Redis connection is available.
func (pc *ProductCache) Enabled() bool {
	return pc != nil && pc.client != nil
}

// Get loads a cached value into dest. Returns false on miss or error.
func (pc *ProductCache) Get(ctx context.Context, key string, dest any) bool {
	if !pc.Enabled() {
		return false
	}

	raw, err := pc.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[Cache] get %s failed: %v", key, err)
		}
		return false
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		log.Printf("[Cache] decode %s failed: %v", key, err)
		return false
	}

	return true
}

// Set stores a value under key with the catalog TTL. Failures are logged.
func (pc *ProductCache) Set(ctx context.Context, key string, value any) {
	if !pc.Enabled() {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("[Cache] encode %s failed: %v", key, err)
		return
	}

	if err := pc.client.Set(ctx, key, raw, productTTL).Err(); err != nil {
		log.Printf("[Cache] set %s failed: %v", key, err)
	}
}

// Invalidate drops all cached product entries. Called on catalog writes.
func (pc *ProductCache) Invalidate(ctx context.Context) {
	if !pc.Enabled() {
		return
	}

	keys, err := pc.client.Keys(ctx, "products:*").Result()
	if err != nil {
		log.Printf("[Cache] invalidate scan failed: %v", err)
		return
	}
	if len(keys) == 0 {
		return
	}

	if err := pc.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[Cache] invalidate failed: %v", err)
	}
}
