package out

import (
	"context"

	"github.com/bnema/stevedore/internal/domain"
)

// ContainerRuntime is the bridge to the container engine.
// Nothing is cached: every call reflects live engine state.
type ContainerRuntime interface {
	// Ping checks engine reachability and returns its API version.
	Ping(ctx context.Context) (string, error)

	ListContainers(ctx context.Context, filter domain.ContainerFilter) ([]domain.ContainerRecord, error)
	InspectContainer(ctx context.Context, id string) (*domain.DetailedContainer, error)

	// StartContainer fails with domain.ErrContainerRunning if the container already runs.
	StartContainer(ctx context.Context, id string) error

	// StopContainer fails with domain.ErrContainerNotRunning if the container is stopped.
	StopContainer(ctx context.Context, id string) error

	// RemoveContainer fails with domain.ErrContainerRunning unless force is set.
	RemoveContainer(ctx context.Context, id string, force bool) error
}
