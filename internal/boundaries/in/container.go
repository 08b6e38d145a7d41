package in

import (
	"context"

	"github.com/bnema/stevedore/internal/domain"
)

// ContainerService defines the contract for container operations.
type ContainerService interface {
	List(ctx context.Context) ([]domain.ContainerRecord, error)
	Get(ctx context.Context, id string) (*domain.DetailedContainer, error)
	Start(ctx context.Context, id string) (*domain.ContainerAction, error)
	Stop(ctx context.Context, id string) (*domain.ContainerAction, error)
	Remove(ctx context.Context, id string, force bool) (*domain.ContainerAction, error)

	// Ready reports whether the engine is reachable.
	Ready(ctx context.Context) error
}
