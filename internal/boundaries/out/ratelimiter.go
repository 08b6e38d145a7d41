package out

import "context"

// RateLimiter defines the contract for rate limiting operations.
// Implementations may use different backends (memory, Redis).
type RateLimiter interface {
	// Allow checks if a request identified by key is allowed.
	// Key is typically "login:<client ip>".
	Allow(ctx context.Context, key string) bool
}
