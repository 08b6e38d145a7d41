package ratelimit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bnema/stevedore/internal/boundaries/out"
)

// Config selects and tunes a rate limit backend.
type Config struct {
	Backend   string
	RPS       float64
	Burst     int
	RedisAddr string
}

// NewStore creates a RateLimiter based on the configured backend.
func NewStore(ctx context.Context, cfg Config, log zerolog.Logger) (out.RateLimiter, error) {
	if cfg.Burst < 1 {
		return nil, fmt.Errorf("rate limit burst must be at least 1, got %d", cfg.Burst)
	}
	if cfg.RPS <= 0 {
		return nil, fmt.Errorf("rate limit rps must be positive, got %v", cfg.RPS)
	}

	switch cfg.Backend {
	case "memory", "":
		return NewMemoryStore(cfg.RPS, cfg.Burst, log), nil
	case "redis":
		store, err := NewRedisStore(ctx, cfg.RedisAddr, cfg.RPS, cfg.Burst, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown rate limit backend: %s", cfg.Backend)
	}
}
