package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/stevedore/internal/domain"
)

// MockContainerService is a mock implementation of in.ContainerService.
type MockContainerService struct {
	mock.Mock
}

func (m *MockContainerService) List(ctx context.Context) ([]domain.ContainerRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContainerRecord), args.Error(1)
}

func (m *MockContainerService) Get(ctx context.Context, id string) (*domain.DetailedContainer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DetailedContainer), args.Error(1)
}

func (m *MockContainerService) Start(ctx context.Context, id string) (*domain.ContainerAction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContainerAction), args.Error(1)
}

func (m *MockContainerService) Stop(ctx context.Context, id string) (*domain.ContainerAction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContainerAction), args.Error(1)
}

func (m *MockContainerService) Remove(ctx context.Context, id string, force bool) (*domain.ContainerAction, error) {
	args := m.Called(ctx, id, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContainerAction), args.Error(1)
}

func (m *MockContainerService) Ready(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
