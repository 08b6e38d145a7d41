package in

import (
	"context"

	"github.com/bnema/stevedore/internal/domain"
)

// AuthService defines the contract for console authentication.
type AuthService interface {
	// Login checks credentials. The error never reveals which part was wrong.
	Login(ctx context.Context, username, password string) (domain.Identity, error)

	// Logout records the end of a session. It never fails.
	Logout(ctx context.Context, username string)

	// GeneratePasswordHash returns a bcrypt hash suitable for configuration.
	GeneratePasswordHash(password string) (string, error)
}
