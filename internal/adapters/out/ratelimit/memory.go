// Package ratelimit provides rate limiter implementations.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/bnema/stevedore/internal/boundaries/out"
)

// Ensure MemoryStore implements out.RateLimiter.
var _ out.RateLimiter = (*MemoryStore)(nil)

const (
	// sweepThreshold is the number of tracked keys above which idle keys are evicted.
	sweepThreshold = 4096
	idleTTL        = 10 * time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryStore is a process-local token bucket per key.
type MemoryStore struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	rps      float64
	burst    int
	now      func() time.Time
	log      zerolog.Logger
}

// NewMemoryStore creates a new in-memory rate limiter store.
func NewMemoryStore(rps float64, burst int, log zerolog.Logger) *MemoryStore {
	return &MemoryStore{
		limiters: make(map[string]*limiterEntry),
		rps:      rps,
		burst:    burst,
		now:      time.Now,
		log:      log,
	}
}

// Allow reports whether one more attempt for key fits in its bucket.
func (s *MemoryStore) Allow(_ context.Context, key string) bool {
	now := s.now()

	s.mu.Lock()
	entry, exists := s.limiters[key]
	if !exists {
		if len(s.limiters) >= sweepThreshold {
			s.sweepLocked(now)
		}
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(s.rps), s.burst)}
		s.limiters[key] = entry
	}
	entry.lastSeen = now
	s.mu.Unlock()

	allowed := entry.limiter.AllowN(now, 1)
	if !allowed {
		s.log.Debug().Str("key", key).Msg("rate limited")
	}
	return allowed
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// sweepLocked drops keys idle for longer than idleTTL. Caller holds mu.
func (s *MemoryStore) sweepLocked(now time.Time) {
	for key, entry := range s.limiters {
		if now.Sub(entry.lastSeen) > idleTTL {
			delete(s.limiters, key)
		}
	}
}
