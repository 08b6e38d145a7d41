package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/stevedore/internal/domain"
)

// MockProjectService is a mock implementation of in.ProjectService.
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) ListProjects(ctx context.Context) ([]domain.ProjectSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProjectSummary), args.Error(1)
}

func (m *MockProjectService) CreateProject(ctx context.Context, name string) (*domain.ProjectSummary, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProjectSummary), args.Error(1)
}

func (m *MockProjectService) DeleteProject(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockProjectService) GetProject(ctx context.Context, name string) (*domain.ProjectDetail, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProjectDetail), args.Error(1)
}

func (m *MockProjectService) GetCompose(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockProjectService) ListServices(ctx context.Context, project string) ([]domain.ServiceView, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceView), args.Error(1)
}

func (m *MockProjectService) GetService(ctx context.Context, project, service string) (*domain.ServiceView, error) {
	args := m.Called(ctx, project, service)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceView), args.Error(1)
}

func (m *MockProjectService) AddService(ctx context.Context, project string, spec domain.ServiceSpec) (*domain.ServiceView, error) {
	args := m.Called(ctx, project, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceView), args.Error(1)
}

func (m *MockProjectService) UpdateService(ctx context.Context, project, service string, spec domain.ServiceSpec) (*domain.ServiceView, error) {
	args := m.Called(ctx, project, service, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceView), args.Error(1)
}

func (m *MockProjectService) DeleteService(ctx context.Context, project, service string) error {
	args := m.Called(ctx, project, service)
	return args.Error(0)
}

func (m *MockProjectService) StartService(ctx context.Context, project, service string) ([]domain.ContainerAction, error) {
	args := m.Called(ctx, project, service)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContainerAction), args.Error(1)
}

func (m *MockProjectService) StopService(ctx context.Context, project, service string) ([]domain.ContainerAction, error) {
	args := m.Called(ctx, project, service)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContainerAction), args.Error(1)
}

func (m *MockProjectService) ListNetworks(ctx context.Context, project string) ([]domain.NetworkSpec, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NetworkSpec), args.Error(1)
}

func (m *MockProjectService) GetNetwork(ctx context.Context, project, network string) (*domain.NetworkSpec, error) {
	args := m.Called(ctx, project, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NetworkSpec), args.Error(1)
}

func (m *MockProjectService) AddNetwork(ctx context.Context, project string, spec domain.NetworkSpec) (*domain.NetworkSpec, error) {
	args := m.Called(ctx, project, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NetworkSpec), args.Error(1)
}

func (m *MockProjectService) UpdateNetwork(ctx context.Context, project, network string, spec domain.NetworkSpec) (*domain.NetworkSpec, error) {
	args := m.Called(ctx, project, network, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NetworkSpec), args.Error(1)
}

func (m *MockProjectService) DeleteNetwork(ctx context.Context, project, network string) error {
	args := m.Called(ctx, project, network)
	return args.Error(0)
}

func (m *MockProjectService) ListContainers(ctx context.Context, project string) ([]domain.ContainerRecord, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContainerRecord), args.Error(1)
}

func (m *MockProjectService) ListVolumes(ctx context.Context, project string) ([]domain.ServiceVolume, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceVolume), args.Error(1)
}

func (m *MockProjectService) ListEnvironment(ctx context.Context, project string) ([]domain.ServiceEnvironment, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceEnvironment), args.Error(1)
}
