// Package in defines input ports (interfaces) for use cases.
// These interfaces define the contract between driving adapters (HTTP, CLI)
// and the business logic (use cases).
package in

import (
	"context"

	"github.com/bnema/stevedore/internal/domain"
)

// ProjectService aggregates compose documents with live containers.
// Every read reflects engine state at call time.
type ProjectService interface {
	ListProjects(ctx context.Context) ([]domain.ProjectSummary, error)
	CreateProject(ctx context.Context, name string) (*domain.ProjectSummary, error)
	DeleteProject(ctx context.Context, name string) error
	GetProject(ctx context.Context, name string) (*domain.ProjectDetail, error)
	GetCompose(ctx context.Context, name string) (string, error)

	ListServices(ctx context.Context, project string) ([]domain.ServiceView, error)
	GetService(ctx context.Context, project, service string) (*domain.ServiceView, error)
	AddService(ctx context.Context, project string, spec domain.ServiceSpec) (*domain.ServiceView, error)
	UpdateService(ctx context.Context, project, service string, spec domain.ServiceSpec) (*domain.ServiceView, error)
	DeleteService(ctx context.Context, project, service string) error
	StartService(ctx context.Context, project, service string) ([]domain.ContainerAction, error)
	StopService(ctx context.Context, project, service string) ([]domain.ContainerAction, error)

	ListNetworks(ctx context.Context, project string) ([]domain.NetworkSpec, error)
	GetNetwork(ctx context.Context, project, network string) (*domain.NetworkSpec, error)
	AddNetwork(ctx context.Context, project string, spec domain.NetworkSpec) (*domain.NetworkSpec, error)
	UpdateNetwork(ctx context.Context, project, network string, spec domain.NetworkSpec) (*domain.NetworkSpec, error)
	DeleteNetwork(ctx context.Context, project, network string) error

	ListContainers(ctx context.Context, project string) ([]domain.ContainerRecord, error)
	ListVolumes(ctx context.Context, project string) ([]domain.ServiceVolume, error)
	ListEnvironment(ctx context.Context, project string) ([]domain.ServiceEnvironment, error)
}
