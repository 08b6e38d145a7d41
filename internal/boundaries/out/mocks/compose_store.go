package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/stevedore/internal/domain"
)

// MockComposeStore is a mock implementation of out.ComposeStore.
type MockComposeStore struct {
	mock.Mock
}

func (m *MockComposeStore) ListProjects(ctx context.Context) ([]domain.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockComposeStore) Load(ctx context.Context, project string) (*domain.Project, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockComposeStore) CreateProject(ctx context.Context, project string) (*domain.Project, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockComposeStore) DeleteProject(ctx context.Context, project string) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

// Service operations
func (m *MockComposeStore) AddService(ctx context.Context, project string, spec domain.ServiceSpec) (domain.ServiceSpec, error) {
	args := m.Called(ctx, project, spec)
	return args.Get(0).(domain.ServiceSpec), args.Error(1)
}

func (m *MockComposeStore) UpdateService(ctx context.Context, project, service string, spec domain.ServiceSpec) (domain.ServiceSpec, error) {
	args := m.Called(ctx, project, service, spec)
	return args.Get(0).(domain.ServiceSpec), args.Error(1)
}

func (m *MockComposeStore) DeleteService(ctx context.Context, project, service string) error {
	args := m.Called(ctx, project, service)
	return args.Error(0)
}

// Network operations
func (m *MockComposeStore) AddNetwork(ctx context.Context, project string, spec domain.NetworkSpec) (domain.NetworkSpec, error) {
	args := m.Called(ctx, project, spec)
	return args.Get(0).(domain.NetworkSpec), args.Error(1)
}

func (m *MockComposeStore) UpdateNetwork(ctx context.Context, project, network string, spec domain.NetworkSpec) (domain.NetworkSpec, error) {
	args := m.Called(ctx, project, network, spec)
	return args.Get(0).(domain.NetworkSpec), args.Error(1)
}

func (m *MockComposeStore) DeleteNetwork(ctx context.Context, project, network string) error {
	args := m.Called(ctx, project, network)
	return args.Error(0)
}
