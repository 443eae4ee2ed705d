package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// VelocityStore implements ports.VelocityStore with Redis counters.
// Counters are shared by every settlement node, so limits hold cluster-wide.
type VelocityStore struct {
	client goredis.UniversalClient
	prefix string
}

// NewVelocityStore creates a new Redis-backed velocity store.
func NewVelocityStore(client goredis.UniversalClient) *VelocityStore {
	return &VelocityStore{
		client: client,
		prefix: "velocity:",
	}
}

// Increment bumps the counter for key and pins its expiry to expireAt.
// INCR and EXPIREAT run in one MULTI block so a counter never outlives its window.
func (s *VelocityStore) Increment(ctx context.Context, key string, expireAt time.Time) (int64, error) {
	redisKey := s.prefix + key

	var incr *goredis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireAt(ctx, redisKey, expireAt)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis velocity incr: %w", err)
	}
	return incr.Val(), nil
}
