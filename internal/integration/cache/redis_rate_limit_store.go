package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/expense-tracker/backend/internal/application/adapter"
)

const rateLimitKeyPrefix = "ratelimit:"

// RedisRateLimitStore counts attempts in Redis so every API instance shares the same window.
type RedisRateLimitStore struct {
	client *redis.Client
}

var _ adapter.RateLimitStore = (*RedisRateLimitStore)(nil)

// NewRedisRateLimitStore creates a store backed by the given client.
func NewRedisRateLimitStore(client *redis.Client) *RedisRateLimitStore {
	return &RedisRateLimitStore{
		client: client,
	}
}

// Allow increments the counter for key and reports whether it is within maxAttempts.
// The window starts with the first attempt and is not extended by later ones.
func (s *RedisRateLimitStore) Allow(ctx context.Context, key string, maxAttempts int, window time.Duration) (bool, error) {
	redisKey := rateLimitKeyPrefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to count attempt: %w", err)
	}

	// A key without expiry belongs to a window that was just opened
	if ttl.Val() < 0 {
		if err := s.client.PExpire(ctx, redisKey, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return incr.Val() <= int64(maxAttempts), nil
}
