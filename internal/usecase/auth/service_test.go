package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bnema/stevedore/internal/boundaries/out"
	"github.com/bnema/stevedore/internal/boundaries/out/mocks"
	"github.com/bnema/stevedore/internal/domain"
)

func newTestService(t *testing.T, events out.EventPublisher) *Service {
	t.Helper()
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	svc, err := NewService(Config{Username: "admin", PasswordHash: hash, BcryptCost: bcrypt.MinCost}, events)
	require.NoError(t, err)
	return svc
}

func TestService_Login_Success(t *testing.T) {
	events := &mocks.MockEventPublisher{}
	events.On("Publish", domain.EventLogin, "", "admin").Return(nil)
	svc := newTestService(t, events)

	identity, err := svc.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{Authenticated: true, Username: "admin"}, identity)
	events.AssertExpectations(t)
}

func TestService_Login_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "admin", password: "wrong"},
		{name: "unknown user", username: "root", password: "s3cret"},
		{name: "empty", username: "", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := &mocks.MockEventPublisher{}
			events.On("Publish", domain.EventLoginFailed, "", tt.username).Return(nil)
			svc := newTestService(t, events)

			identity, err := svc.Login(context.Background(), tt.username, tt.password)
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
			assert.Equal(t, domain.Anonymous, identity)
			assert.Equal(t, "invalid username or password", err.Error())
		})
	}
}

func TestService_Logout(t *testing.T) {
	events := &mocks.MockEventPublisher{}
	events.On("Publish", domain.EventLogout, "", "admin").Return(nil).Once()
	svc := newTestService(t, events)

	svc.Logout(context.Background(), "admin")
	svc.Logout(context.Background(), "")
	events.AssertExpectations(t)
}

func TestNewService_InvalidHash(t *testing.T) {
	_, err := NewService(Config{Username: "admin", PasswordHash: "plaintext"}, nil)
	assert.Error(t, err)
}

func TestService_GeneratePasswordHash(t *testing.T) {
	svc := newTestService(t, nil)

	hash, err := svc.GeneratePasswordHash("another")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("another")))

	_, err = svc.GeneratePasswordHash("")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_NilEventBus(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Login(context.Background(), "admin", "s3cret")
	assert.NoError(t, err)
}
