package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by a shared Redis instance, for deployments
// running more than one relay process behind a balancer. Counters are fixed
// windows bucketed by interval and expired by Redis itself.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a shared counter store.
func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// Incr implements Store. INCR and EXPIRE run in one pipeline; the bucket
// suffix pins the key to the current window, and NX keeps later increments
// from pushing the expiry past it.
func (s *RedisStore) Incr(ctx context.Context, key string, interval time.Duration) (int, error) {
	bucket := time.Now().UnixNano() / int64(interval)
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, bucket)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, interval)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("rate limit incr failed: %w", err)
	}

	return int(incr.Val()), nil
}

// Ping verifies connectivity at startup.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
