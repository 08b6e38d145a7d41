package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/stevedore/internal/domain"
)

// MockRegistryService is a mock implementation of in.RegistryService.
type MockRegistryService struct {
	mock.Mock
}

func (m *MockRegistryService) ListRepositories(ctx context.Context) (*domain.RepositoryList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RepositoryList), args.Error(1)
}

func (m *MockRegistryService) ListTags(ctx context.Context, repository string) (*domain.TagList, error) {
	args := m.Called(ctx, repository)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TagList), args.Error(1)
}

func (m *MockRegistryService) Catalog(ctx context.Context) (*domain.Catalog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Catalog), args.Error(1)
}
