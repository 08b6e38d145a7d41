// Package docker implements the container runtime adapter using Docker API.
package docker

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"

	"github.com/bnema/stevedore/internal/boundaries/out"
	"github.com/bnema/stevedore/internal/domain"
	"github.com/bnema/stevedore/internal/logging"
)

// Ensure Runtime implements out.ContainerRuntime.
var _ out.ContainerRuntime = (*Runtime)(nil)

const defaultStopTimeout = 30 // seconds

// Runtime implements the ContainerRuntime interface using Docker API.
type Runtime struct {
	client      client.APIClient
	stopTimeout int
}

// NewRuntime creates a Docker runtime from the environment.
// A non-empty host overrides DOCKER_HOST.
func NewRuntime(host string) (*Runtime, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}
	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return NewRuntimeWithClient(cli), nil
}

// NewRuntimeWithClient creates a new Docker runtime instance with a custom client (for testing).
func NewRuntimeWithClient(cli client.APIClient) *Runtime {
	return &Runtime{
		client:      cli,
		stopTimeout: defaultStopTimeout,
	}
}

// Close releases the underlying client.
func (r *Runtime) Close() error {
	return r.client.Close()
}

func actionCtx(ctx context.Context, action, containerID string) context.Context {
	fields := map[string]any{
		logging.FieldLayer:   "adapter",
		logging.FieldAdapter: "docker",
		logging.FieldAction:  action,
	}
	if containerID != "" {
		fields[logging.FieldEntityID] = containerID
	}
	return logging.CtxWithFields(ctx, fields)
}

// Ping checks the engine and returns its API version.
func (r *Runtime) Ping(ctx context.Context) (string, error) {
	ping, err := r.client.Ping(ctx)
	if err != nil {
		return "", domain.EngineFailure("ping engine", err)
	}
	return ping.APIVersion, nil
}

// CheckAPIVersion fails when the engine API is older than minVersion.
func (r *Runtime) CheckAPIVersion(ctx context.Context, minVersion string) error {
	ctx = actionCtx(ctx, "CheckAPIVersion", "")
	log := logging.FromCtx(ctx)

	apiVersion, err := r.Ping(ctx)
	if err != nil {
		return err
	}
	constraint, err := semver.NewConstraint(">= " + minVersion)
	if err != nil {
		return fmt.Errorf("invalid minimum API version %q: %w", minVersion, err)
	}
	current, err := semver.NewVersion(apiVersion)
	if err != nil {
		return fmt.Errorf("engine reported invalid API version %q: %w", apiVersion, err)
	}
	if !constraint.Check(current) {
		return fmt.Errorf("engine API version %s is older than required %s", apiVersion, minVersion)
	}

	log.Info().Str("api_version", apiVersion).Msg("container engine reachable")
	return nil
}

// ListContainers lists containers matching filter, stopped ones included unless filter.Running.
func (r *Runtime) ListContainers(ctx context.Context, filter domain.ContainerFilter) ([]domain.ContainerRecord, error) {
	ctx = actionCtx(ctx, "ListContainers", "")
	log := logging.FromCtx(ctx)

	args := filters.NewArgs()
	if filter.Project != "" {
		args.Add("label", domain.LabelComposeProject+"="+filter.Project)
	}
	if filter.Service != "" {
		args.Add("label", domain.LabelComposeService+"="+filter.Service)
	}
	if filter.Running {
		args.Add("status", "running")
	}

	containers, err := r.client.ContainerList(ctx, container.ListOptions{All: !filter.Running, Filters: args})
	if err != nil {
		return nil, domain.EngineFailure("list containers", err)
	}

	result := make([]domain.ContainerRecord, 0, len(containers))
	for _, c := range containers {
		result = append(result, recordFromSummary(c))
	}

	log.Debug().Int("count", len(result)).Str(logging.FieldProject, filter.Project).Msg("containers listed")
	return result, nil
}

// InspectContainer returns the detailed view of a container.
func (r *Runtime) InspectContainer(ctx context.Context, containerID string) (*domain.DetailedContainer, error) {
	resp, err := r.client.ContainerInspect(ctx, containerID)
	if err != nil {
		return nil, classify("inspect container", containerID, err)
	}
	detail := detailFromInspect(resp)
	return &detail, nil
}

// StartContainer starts a stopped container.
// The engine treats starting a running container as a no-op, so state is checked first.
func (r *Runtime) StartContainer(ctx context.Context, containerID string) error {
	ctx = actionCtx(ctx, "StartContainer", containerID)
	log := logging.FromCtx(ctx)

	resp, err := r.client.ContainerInspect(ctx, containerID)
	if err != nil {
		return classify("inspect container", containerID, err)
	}
	if resp.State != nil && resp.State.Running {
		return fmt.Errorf("%w: %s", domain.ErrContainerRunning, containerID)
	}

	if err := r.client.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		log.Error().Err(err).Msg("failed to start container")
		return classify("start container", containerID, err)
	}

	log.Info().Msg("container started")
	return nil
}

// StopContainer stops a running container.
func (r *Runtime) StopContainer(ctx context.Context, containerID string) error {
	ctx = actionCtx(ctx, "StopContainer", containerID)
	log := logging.FromCtx(ctx)

	resp, err := r.client.ContainerInspect(ctx, containerID)
	if err != nil {
		return classify("inspect container", containerID, err)
	}
	if resp.State == nil || !resp.State.Running {
		return fmt.Errorf("%w: %s", domain.ErrContainerNotRunning, containerID)
	}

	timeout := r.stopTimeout
	if err := r.client.ContainerStop(ctx, containerID, container.StopOptions{Timeout: &timeout}); err != nil {
		log.Error().Err(err).Msg("failed to stop container")
		return classify("stop container", containerID, err)
	}

	log.Info().Msg("container stopped")
	return nil
}

// RemoveContainer removes a container. Running containers need force.
func (r *Runtime) RemoveContainer(ctx context.Context, containerID string, force bool) error {
	ctx = logging.CtxWithFields(actionCtx(ctx, "RemoveContainer", containerID), map[string]any{"force": force})
	log := logging.FromCtx(ctx)

	if !force {
		resp, err := r.client.ContainerInspect(ctx, containerID)
		if err != nil {
			return classify("inspect container", containerID, err)
		}
		if resp.State != nil && resp.State.Running {
			return fmt.Errorf("%w: %s", domain.ErrContainerRunning, containerID)
		}
	}

	if err := r.client.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: force}); err != nil {
		return classify("remove container", containerID, err)
	}

	log.Info().Msg("container removed")
	return nil
}

// classify maps engine errors onto the domain error kinds.
func classify(op, containerID string, err error) error {
	switch {
	case cerrdefs.IsNotFound(err):
		return fmt.Errorf("%w: %s", domain.ErrContainerNotFound, containerID)
	case cerrdefs.IsConflict(err):
		return fmt.Errorf("%w: %s: %v", domain.ErrConflict, op, err)
	default:
		return domain.EngineFailure(op, err)
	}
}
