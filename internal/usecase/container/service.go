// Package container implements the container management use case.
package container

import (
	"context"
	"strings"

	"github.com/bnema/stevedore/internal/boundaries/in"
	"github.com/bnema/stevedore/internal/boundaries/out"
	"github.com/bnema/stevedore/internal/domain"
	"github.com/bnema/stevedore/internal/logging"
)

// Ensure Service implements in.ContainerService.
var _ in.ContainerService = (*Service)(nil)

// Service implements the ContainerService interface. It keeps no state:
// every call goes to the engine.
type Service struct {
	runtime  out.ContainerRuntime
	eventBus out.EventPublisher
}

// NewService creates a new container service. eventBus may be nil.
func NewService(runtime out.ContainerRuntime, eventBus out.EventPublisher) *Service {
	return &Service{
		runtime:  runtime,
		eventBus: eventBus,
	}
}

func withFields(ctx context.Context, action, containerID string) context.Context {
	fields := map[string]any{
		logging.FieldLayer:   "usecase",
		logging.FieldUseCase: "container",
		logging.FieldAction:  action,
	}
	if containerID != "" {
		fields[logging.FieldEntityID] = containerID
	}
	return logging.CtxWithFields(ctx, fields)
}

// List returns every container known to the engine.
func (s *Service) List(ctx context.Context) ([]domain.ContainerRecord, error) {
	ctx = withFields(ctx, "List", "")

	containers, err := s.runtime.ListContainers(ctx, domain.ContainerFilter{})
	if err != nil {
		logging.FromCtx(ctx).Error().Err(err).Msg("failed to list containers")
		return nil, err
	}
	if containers == nil {
		containers = []domain.ContainerRecord{}
	}
	return containers, nil
}

// Get inspects a container by id or name.
func (s *Service) Get(ctx context.Context, id string) (*domain.DetailedContainer, error) {
	ctx = withFields(ctx, "Get", id)

	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.runtime.InspectContainer(ctx, id)
}

// Start starts a stopped container.
func (s *Service) Start(ctx context.Context, id string) (*domain.ContainerAction, error) {
	ctx = withFields(ctx, "Start", id)
	log := logging.FromCtx(ctx)

	if err := validateID(id); err != nil {
		return nil, err
	}
	if err := s.runtime.StartContainer(ctx, id); err != nil {
		log.Warn().Err(err).Msg("failed to start container")
		return nil, err
	}

	log.Info().Msg("container started")
	s.publish(ctx, domain.EventContainerStarted, id)
	return &domain.ContainerAction{ID: id, Message: "Container started successfully"}, nil
}

// Stop stops a running container.
func (s *Service) Stop(ctx context.Context, id string) (*domain.ContainerAction, error) {
	ctx = withFields(ctx, "Stop", id)
	log := logging.FromCtx(ctx)

	if err := validateID(id); err != nil {
		return nil, err
	}
	if err := s.runtime.StopContainer(ctx, id); err != nil {
		log.Warn().Err(err).Msg("failed to stop container")
		return nil, err
	}

	log.Info().Msg("container stopped")
	s.publish(ctx, domain.EventContainerStopped, id)
	return &domain.ContainerAction{ID: id, Message: "Container stopped successfully"}, nil
}

// Remove deletes a container. A running container needs force.
func (s *Service) Remove(ctx context.Context, id string, force bool) (*domain.ContainerAction, error) {
	ctx = withFields(ctx, "Remove", id)
	log := logging.FromCtx(ctx)

	if err := validateID(id); err != nil {
		return nil, err
	}
	if err := s.runtime.RemoveContainer(ctx, id, force); err != nil {
		log.Warn().Err(err).Bool("force", force).Msg("failed to remove container")
		return nil, err
	}

	log.Info().Bool("force", force).Msg("container removed")
	s.publish(ctx, domain.EventContainerRemoved, id)
	return &domain.ContainerAction{ID: id, Message: "Container removed successfully"}, nil
}

// Ready pings the engine.
func (s *Service) Ready(ctx context.Context) error {
	_, err := s.runtime.Ping(ctx)
	return err
}

func (s *Service) publish(ctx context.Context, eventType domain.EventType, id string) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(eventType, "", id); err != nil {
		logging.FromCtx(ctx).Warn().Err(err).Msg("failed to publish container event")
	}
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError("id", "container id is required")
	}
	if strings.ContainsAny(id, "/?# ") {
		return domain.NewValidationError("id", "invalid container id %q", id)
	}
	return nil
}
