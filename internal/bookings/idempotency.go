package bookings

import (
	"context"
	"time"

	"tourdesk/internal/shared/constants"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore claims an Idempotency-Key while its request is in flight.
type IdempotencyStore interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type redisIdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisIdempotencyStore uses SETNX with a TTL so a crashed request cannot
// hold a key forever.
func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) IdempotencyStore {
	if ttl <= 0 {
		ttl = constants.TTL_BOOKING_IDEMPOTENCY_LOCK
	}
	return &redisIdempotencyStore{client: client, ttl: ttl}
}

func (s *redisIdempotencyStore) Acquire(ctx context.Context, key string) (bool, error) {
	return s.client.SetNX(ctx, constants.BuildIdempotencyLockKey(key), time.Now().Unix(), s.ttl).Result()
}

func (s *redisIdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, constants.BuildIdempotencyLockKey(key)).Err()
}
