// Package auth implements the console authentication use case.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/bnema/stevedore/internal/boundaries/in"
	"github.com/bnema/stevedore/internal/boundaries/out"
	"github.com/bnema/stevedore/internal/domain"
	"github.com/bnema/stevedore/internal/logging"
)

// Ensure Service implements in.AuthService.
var _ in.AuthService = (*Service)(nil)

// DefaultBcryptCost is the default cost for bcrypt hashing.
const DefaultBcryptCost = 12

// Config holds the authentication configuration.
type Config struct {
	Username     string
	PasswordHash string // bcrypt
	BcryptCost   int
}

// Service implements the AuthService interface.
type Service struct {
	config   Config
	eventBus out.EventPublisher

	// dummyHash keeps the unknown-user path as slow as a real comparison.
	dummyHash []byte
}

// NewService creates a new auth service. eventBus may be nil.
func NewService(config Config, eventBus out.EventPublisher) (*Service, error) {
	if config.BcryptCost == 0 {
		config.BcryptCost = DefaultBcryptCost
	}
	if _, err := bcrypt.Cost([]byte(config.PasswordHash)); err != nil {
		return nil, fmt.Errorf("invalid password hash: %w", err)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("stevedore"), config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password check: %w", err)
	}
	return &Service{
		config:    config,
		eventBus:  eventBus,
		dummyHash: dummy,
	}, nil
}

// Login checks the credentials against the configured account.
func (s *Service) Login(ctx context.Context, username, password string) (domain.Identity, error) {
	ctx = logging.CtxWithFields(ctx, map[string]any{
		logging.FieldLayer:    "usecase",
		logging.FieldUseCase:  "Login",
		logging.FieldUsername: username,
	})
	log := logging.FromCtx(ctx)

	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(s.config.Username)) == 1

	hash := []byte(s.config.PasswordHash)
	if !usernameMatch {
		hash = s.dummyHash
	}
	passwordErr := bcrypt.CompareHashAndPassword(hash, []byte(password))

	if !usernameMatch || passwordErr != nil {
		if passwordErr != nil && !errors.Is(passwordErr, bcrypt.ErrMismatchedHashAndPassword) {
			log.Error().Err(passwordErr).Msg("password comparison failed")
		}
		log.Warn().Msg("login rejected")
		s.publish(ctx, domain.EventLoginFailed, username)
		return domain.Anonymous, domain.ErrInvalidCredentials
	}

	log.Info().Msg("login succeeded")
	s.publish(ctx, domain.EventLogin, username)
	return domain.Identity{Authenticated: true, Username: s.config.Username}, nil
}

// Logout records the end of a session. It never fails.
func (s *Service) Logout(ctx context.Context, username string) {
	if username == "" {
		return
	}
	s.publish(ctx, domain.EventLogout, username)
}

// GeneratePasswordHash returns a bcrypt hash for password.
func (s *Service) GeneratePasswordHash(password string) (string, error) {
	return HashPassword(password, s.config.BcryptCost)
}

// HashPassword returns a bcrypt hash of password at cost.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", domain.NewValidationError("password", "password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *Service) publish(ctx context.Context, eventType domain.EventType, username string) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(eventType, "", username); err != nil {
		logging.FromCtx(ctx).Warn().Err(err).Msg("failed to publish auth event")
	}
}
