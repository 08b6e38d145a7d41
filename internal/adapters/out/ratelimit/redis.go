package ratelimit

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bnema/stevedore/internal/boundaries/out"
)

// Ensure RedisStore implements out.RateLimiter.
var _ out.RateLimiter = (*RedisStore)(nil)

const redisKeyPrefix = "stevedore:ratelimit:"

// RedisStore is a fixed-window limiter shared by every instance pointing at
// the same redis. A window lasts burst/rps seconds and admits burst attempts.
type RedisStore struct {
	client *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

// NewRedisStore connects to addr and verifies it answers PING.
func NewRedisStore(ctx context.Context, addr string, rps float64, burst int, log zerolog.Logger) (*RedisStore, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	return newRedisStore(client, rps, burst, log), nil
}

func newRedisStore(client *redis.Client, rps float64, burst int, log zerolog.Logger) *RedisStore {
	if burst < 1 {
		burst = 1
	}
	window := time.Second
	if rps > 0 {
		window = time.Duration(math.Ceil(float64(burst)/rps)) * time.Second
	}
	return &RedisStore{
		client: client,
		limit:  int64(burst),
		window: window,
		now:    time.Now,
		log:    log,
	}
}

// Allow counts the attempt in the current window. Redis errors fail open.
func (s *RedisStore) Allow(ctx context.Context, key string) bool {
	slot := s.now().UnixNano() / int64(s.window)
	redisKey := redisKeyPrefix + key + ":" + strconv.FormatInt(slot, 10)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("redis rate limit check failed, allowing request")
		return true
	}

	if incr.Val() > s.limit {
		s.log.Debug().Str("key", key).Int64("count", incr.Val()).Msg("rate limited")
		return false
	}
	return true
}

// Close releases the redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
