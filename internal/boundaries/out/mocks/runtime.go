package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/stevedore/internal/domain"
)

// MockContainerRuntime is a mock implementation of out.ContainerRuntime.
type MockContainerRuntime struct {
	mock.Mock
}

func (m *MockContainerRuntime) Ping(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockContainerRuntime) ListContainers(ctx context.Context, filter domain.ContainerFilter) ([]domain.ContainerRecord, error) {
	args := m.Called(ctx, filter)
	if fn, ok := args.Get(0).(func(context.Context, domain.ContainerFilter) []domain.ContainerRecord); ok {
		return fn(ctx, filter), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContainerRecord), args.Error(1)
}

func (m *MockContainerRuntime) InspectContainer(ctx context.Context, id string) (*domain.DetailedContainer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DetailedContainer), args.Error(1)
}

func (m *MockContainerRuntime) StartContainer(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContainerRuntime) StopContainer(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContainerRuntime) RemoveContainer(ctx context.Context, id string, force bool) error {
	args := m.Called(ctx, id, force)
	return args.Error(0)
}
