package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/stevedore/internal/domain"
)

// MockAuthService is a mock implementation of in.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (domain.Identity, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(domain.Identity), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, username string) {
	m.Called(ctx, username)
}

func (m *MockAuthService) GeneratePasswordHash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}
