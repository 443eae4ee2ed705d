package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// DedupCache implements ports.DedupCache using Redis.
// It only short-circuits redeliveries; the processed_webhooks row stays authoritative.
type DedupCache struct {
	client goredis.UniversalClient
	prefix string
}

// NewDedupCache creates a new Redis-backed dedup cache.
func NewDedupCache(client goredis.UniversalClient) *DedupCache {
	return &DedupCache{
		client: client,
		prefix: "webhook:seen:",
	}
}

// Seen reports whether the provider reference was marked as applied.
func (c *DedupCache) Seen(ctx context.Context, providerReference string) (bool, error) {
	n, err := c.client.Exists(ctx, c.prefix+providerReference).Result()
	if err != nil {
		return false, fmt.Errorf("redis dedup exists: %w", err)
	}
	return n > 0, nil
}

// Mark records an applied provider reference with TTL.
func (c *DedupCache) Mark(ctx context.Context, providerReference string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+providerReference, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis dedup set: %w", err)
	}
	return nil
}
