// Package projects implements the project orchestration use case: it joins
// compose documents with live containers.
package projects

import (
	"context"

	"github.com/bnema/stevedore/internal/boundaries/in"
	"github.com/bnema/stevedore/internal/boundaries/out"
	"github.com/bnema/stevedore/internal/domain"
	"github.com/bnema/stevedore/internal/logging"
)

// Ensure Service implements in.ProjectService.
var _ in.ProjectService = (*Service)(nil)

// Service implements the ProjectService interface.
type Service struct {
	store    out.ComposeStore
	runtime  out.ContainerRuntime
	eventBus out.EventPublisher
}

// NewService creates a new project service. eventBus may be nil.
func NewService(store out.ComposeStore, runtime out.ContainerRuntime, eventBus out.EventPublisher) *Service {
	return &Service{
		store:    store,
		runtime:  runtime,
		eventBus: eventBus,
	}
}

func withFields(ctx context.Context, action, project string) context.Context {
	return logging.CtxWithFields(ctx, map[string]any{
		logging.FieldLayer:   "usecase",
		logging.FieldUseCase: "projects",
		logging.FieldAction:  action,
		logging.FieldProject: project,
	})
}

func (s *Service) publish(ctx context.Context, eventType domain.EventType, project, subject string) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(eventType, project, subject); err != nil {
		logging.FromCtx(ctx).Warn().Err(err).Str(logging.FieldEvent, string(eventType)).Msg("failed to publish event")
	}
}

// ListProjects returns every project with live container counts.
func (s *Service) ListProjects(ctx context.Context) ([]domain.ProjectSummary, error) {
	ctx = withFields(ctx, "ListProjects", "")
	log := logging.FromCtx(ctx)

	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list projects")
		return nil, err
	}

	containers, err := s.runtime.ListContainers(ctx, domain.ContainerFilter{})
	if err != nil {
		log.Error().Err(err).Msg("failed to list containers")
		return nil, err
	}

	byProject := make(map[string][]domain.ContainerRecord)
	for _, c := range containers {
		if name := c.Project(); name != "" {
			byProject[name] = append(byProject[name], c)
		}
	}

	summaries := make([]domain.ProjectSummary, 0, len(projects))
	for i := range projects {
		summaries = append(summaries, summarize(&projects[i], byProject[projects[i].Name]))
	}
	return summaries, nil
}

func summarize(p *domain.Project, containers []domain.ContainerRecord) domain.ProjectSummary {
	running, stopped := domain.CountContainers(containers)
	return domain.ProjectSummary{
		Name:              p.Name,
		Path:              p.Path,
		ServiceCount:      len(p.Services),
		ContainersRunning: running,
		ContainersStopped: stopped,
	}
}

// CreateProject initializes an empty compose document.
func (s *Service) CreateProject(ctx context.Context, name string) (*domain.ProjectSummary, error) {
	ctx = withFields(ctx, "CreateProject", name)
	log := logging.FromCtx(ctx)

	if err := domain.ValidateProjectName(name); err != nil {
		return nil, err
	}

	project, err := s.store.CreateProject(ctx, name)
	if err != nil {
		log.Warn().Err(err).Msg("failed to create project")
		return nil, err
	}

	// Containers left behind by an earlier project of the same name still count.
	containers, err := s.projectContainers(ctx, name)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventProjectCreated, name, name)
	log.Info().Str("path", project.Path).Msg("project created")

	summary := summarize(project, containers)
	return &summary, nil
}

// DeleteProject removes a project that has no containers left.
func (s *Service) DeleteProject(ctx context.Context, name string) error {
	ctx = withFields(ctx, "DeleteProject", name)
	log := logging.FromCtx(ctx)

	if _, err := s.store.Load(ctx, name); err != nil {
		return err
	}

	containers, err := s.projectContainers(ctx, name)
	if err != nil {
		return err
	}
	if len(containers) > 0 {
		return domain.ErrProjectInUse
	}

	if err := s.store.DeleteProject(ctx, name); err != nil {
		log.Error().Err(err).Msg("failed to delete project")
		return err
	}

	s.publish(ctx, domain.EventProjectDeleted, name, name)
	log.Info().Msg("project deleted")
	return nil
}

// GetProject merges the compose document with the project's live containers.
func (s *Service) GetProject(ctx context.Context, name string) (*domain.ProjectDetail, error) {
	ctx = withFields(ctx, "GetProject", name)

	project, containers, err := s.loadWithContainers(ctx, name)
	if err != nil {
		return nil, err
	}
	return &domain.ProjectDetail{Project: *project, Containers: containers}, nil
}

// GetCompose returns the raw compose document.
func (s *Service) GetCompose(ctx context.Context, name string) (string, error) {
	ctx = withFields(ctx, "GetCompose", name)

	project, err := s.store.Load(ctx, name)
	if err != nil {
		return "", err
	}
	return project.ComposeContent, nil
}

// ListServices returns every service with its live status, in document order.
func (s *Service) ListServices(ctx context.Context, projectName string) ([]domain.ServiceView, error) {
	ctx = withFields(ctx, "ListServices", projectName)

	project, containers, err := s.loadWithContainers(ctx, projectName)
	if err != nil {
		return nil, err
	}

	views := make([]domain.ServiceView, 0, len(project.Services))
	for _, spec := range project.Services {
		views = append(views, view(spec, containers))
	}
	return views, nil
}

// GetService returns one service with its live status.
func (s *Service) GetService(ctx context.Context, projectName, serviceName string) (*domain.ServiceView, error) {
	ctx = withFields(ctx, "GetService", projectName)

	project, containers, err := s.loadWithContainers(ctx, projectName)
	if err != nil {
		return nil, err
	}
	spec, ok := project.Service(serviceName)
	if !ok {
		return nil, serviceNotFound(serviceName)
	}
	v := view(spec, containers)
	return &v, nil
}

// AddService validates and appends a service, then returns its fresh view.
func (s *Service) AddService(ctx context.Context, projectName string, spec domain.ServiceSpec) (*domain.ServiceView, error) {
	ctx = withFields(ctx, "AddService", projectName)
	log := logging.FromCtx(ctx).With().Str(logging.FieldService, spec.Name).Logger()

	if err := validateServiceSpec(spec); err != nil {
		return nil, err
	}

	stored, err := s.store.AddService(ctx, projectName, spec)
	if err != nil {
		log.Warn().Err(err).Msg("failed to add service")
		return nil, err
	}

	v := s.freshView(ctx, projectName, stored)

	s.publish(ctx, domain.EventServiceAdded, projectName, stored.Name)
	log.Info().Msg("service added")
	return v, nil
}

// UpdateService replaces a service definition. An empty name keeps the current one.
func (s *Service) UpdateService(ctx context.Context, projectName, serviceName string, spec domain.ServiceSpec) (*domain.ServiceView, error) {
	ctx = withFields(ctx, "UpdateService", projectName)
	log := logging.FromCtx(ctx).With().Str(logging.FieldService, serviceName).Logger()

	if spec.Name == "" {
		spec.Name = serviceName
	}
	if err := validateServiceSpec(spec); err != nil {
		return nil, err
	}

	stored, err := s.store.UpdateService(ctx, projectName, serviceName, spec)
	if err != nil {
		log.Warn().Err(err).Msg("failed to update service")
		return nil, err
	}

	v := s.freshView(ctx, projectName, stored)

	s.publish(ctx, domain.EventServiceUpdated, projectName, stored.Name)
	log.Info().Msg("service updated")
	return v, nil
}

// DeleteService removes a service from the document. Its containers are left alone.
func (s *Service) DeleteService(ctx context.Context, projectName, serviceName string) error {
	ctx = withFields(ctx, "DeleteService", projectName)
	log := logging.FromCtx(ctx).With().Str(logging.FieldService, serviceName).Logger()

	if err := s.store.DeleteService(ctx, projectName, serviceName); err != nil {
		log.Warn().Err(err).Msg("failed to delete service")
		return err
	}

	s.publish(ctx, domain.EventServiceDeleted, projectName, serviceName)
	log.Info().Msg("service deleted")
	return nil
}

// StartService starts every stopped container of a service.
func (s *Service) StartService(ctx context.Context, projectName, serviceName string) ([]domain.ContainerAction, error) {
	ctx = withFields(ctx, "StartService", projectName)

	containers, err := s.serviceContainers(ctx, projectName, serviceName)
	if err != nil {
		return nil, err
	}

	var targets []domain.ContainerRecord
	for _, c := range containers {
		if !c.State.IsRunning() {
			targets = append(targets, c)
		}
	}
	if len(targets) == 0 {
		return nil, domain.ErrServiceRunning
	}

	actions, err := s.applyToContainers(ctx, targets, s.runtime.StartContainer, "started")
	if err != nil {
		return actions, err
	}

	s.publish(ctx, domain.EventServiceStarted, projectName, serviceName)
	return actions, nil
}

// StopService stops every running container of a service.
func (s *Service) StopService(ctx context.Context, projectName, serviceName string) ([]domain.ContainerAction, error) {
	ctx = withFields(ctx, "StopService", projectName)

	containers, err := s.serviceContainers(ctx, projectName, serviceName)
	if err != nil {
		return nil, err
	}

	var targets []domain.ContainerRecord
	for _, c := range containers {
		if c.State.IsRunning() {
			targets = append(targets, c)
		}
	}
	if len(targets) == 0 {
		return nil, domain.ErrServiceNotRunning
	}

	actions, err := s.applyToContainers(ctx, targets, s.runtime.StopContainer, "stopped")
	if err != nil {
		return actions, err
	}

	s.publish(ctx, domain.EventServiceStopped, projectName, serviceName)
	return actions, nil
}

// serviceContainers resolves a service and lists its containers.
// A service without containers is a conflict for start and stop alike.
func (s *Service) serviceContainers(ctx context.Context, projectName, serviceName string) ([]domain.ContainerRecord, error) {
	project, err := s.store.Load(ctx, projectName)
	if err != nil {
		return nil, err
	}
	if _, ok := project.Service(serviceName); !ok {
		return nil, serviceNotFound(serviceName)
	}

	containers, err := s.runtime.ListContainers(ctx, domain.ContainerFilter{Project: projectName, Service: serviceName})
	if err != nil {
		logging.FromCtx(ctx).Error().Err(err).Msg("failed to list service containers")
		return nil, err
	}
	if len(containers) == 0 {
		return nil, domain.ErrServiceNotCreated
	}
	return containers, nil
}

// applyToContainers runs op on each container once, stopping at the first failure.
func (s *Service) applyToContainers(
	ctx context.Context,
	targets []domain.ContainerRecord,
	op func(context.Context, string) error,
	verb string,
) ([]domain.ContainerAction, error) {
	log := logging.FromCtx(ctx)

	actions := make([]domain.ContainerAction, 0, len(targets))
	for _, c := range targets {
		if err := op(ctx, c.ID); err != nil {
			log.Error().Err(err).Str(logging.FieldContainerID, c.ID).Msg("container action failed")
			return actions, err
		}
		log.Info().Str(logging.FieldContainerID, c.ID).Msgf("container %s", verb)
		actions = append(actions, domain.ContainerAction{
			ID:      c.ID,
			Message: "Container " + verb + " successfully",
		})
	}
	return actions, nil
}

// ListNetworks returns the project's networks in document order.
func (s *Service) ListNetworks(ctx context.Context, projectName string) ([]domain.NetworkSpec, error) {
	ctx = withFields(ctx, "ListNetworks", projectName)

	project, err := s.store.Load(ctx, projectName)
	if err != nil {
		return nil, err
	}
	return project.Networks, nil
}

// GetNetwork returns one network.
func (s *Service) GetNetwork(ctx context.Context, projectName, networkName string) (*domain.NetworkSpec, error) {
	ctx = withFields(ctx, "GetNetwork", projectName)

	project, err := s.store.Load(ctx, projectName)
	if err != nil {
		return nil, err
	}
	network, ok := project.Network(networkName)
	if !ok {
		return nil, networkNotFound(networkName)
	}
	return &network, nil
}

// AddNetwork declares a new network.
func (s *Service) AddNetwork(ctx context.Context, projectName string, spec domain.NetworkSpec) (*domain.NetworkSpec, error) {
	ctx = withFields(ctx, "AddNetwork", projectName)
	log := logging.FromCtx(ctx).With().Str(logging.FieldNetwork, spec.Name).Logger()

	if err := validateNetworkSpec(spec); err != nil {
		return nil, err
	}

	stored, err := s.store.AddNetwork(ctx, projectName, spec)
	if err != nil {
		log.Warn().Err(err).Msg("failed to add network")
		return nil, err
	}

	s.publish(ctx, domain.EventNetworkAdded, projectName, stored.Name)
	log.Info().Msg("network added")
	return &stored, nil
}

// UpdateNetwork replaces a network. An empty name keeps the current one.
func (s *Service) UpdateNetwork(ctx context.Context, projectName, networkName string, spec domain.NetworkSpec) (*domain.NetworkSpec, error) {
	ctx = withFields(ctx, "UpdateNetwork", projectName)
	log := logging.FromCtx(ctx).With().Str(logging.FieldNetwork, networkName).Logger()

	if spec.Name == "" {
		spec.Name = networkName
	}
	if err := validateNetworkSpec(spec); err != nil {
		return nil, err
	}

	stored, err := s.store.UpdateNetwork(ctx, projectName, networkName, spec)
	if err != nil {
		log.Warn().Err(err).Msg("failed to update network")
		return nil, err
	}

	s.publish(ctx, domain.EventNetworkUpdated, projectName, stored.Name)
	log.Info().Msg("network updated")
	return &stored, nil
}

// DeleteNetwork removes a network no service references.
func (s *Service) DeleteNetwork(ctx context.Context, projectName, networkName string) error {
	ctx = withFields(ctx, "DeleteNetwork", projectName)
	log := logging.FromCtx(ctx).With().Str(logging.FieldNetwork, networkName).Logger()

	if err := s.store.DeleteNetwork(ctx, projectName, networkName); err != nil {
		log.Warn().Err(err).Msg("failed to delete network")
		return err
	}

	s.publish(ctx, domain.EventNetworkDeleted, projectName, networkName)
	log.Info().Msg("network deleted")
	return nil
}

// ListContainers returns the live containers of a project.
func (s *Service) ListContainers(ctx context.Context, projectName string) ([]domain.ContainerRecord, error) {
	ctx = withFields(ctx, "ListContainers", projectName)

	_, containers, err := s.loadWithContainers(ctx, projectName)
	return containers, err
}

// ListVolumes flattens every service's volume mappings in document order.
func (s *Service) ListVolumes(ctx context.Context, projectName string) ([]domain.ServiceVolume, error) {
	ctx = withFields(ctx, "ListVolumes", projectName)

	project, err := s.store.Load(ctx, projectName)
	if err != nil {
		return nil, err
	}

	volumes := []domain.ServiceVolume{}
	for _, svc := range project.Services {
		for _, v := range svc.Volumes {
			volumes = append(volumes, domain.ServiceVolume{Service: svc.Name, Volume: v})
		}
	}
	return volumes, nil
}

// ListEnvironment returns the environment of every service that declares one.
func (s *Service) ListEnvironment(ctx context.Context, projectName string) ([]domain.ServiceEnvironment, error) {
	ctx = withFields(ctx, "ListEnvironment", projectName)

	project, err := s.store.Load(ctx, projectName)
	if err != nil {
		return nil, err
	}

	envs := []domain.ServiceEnvironment{}
	for _, svc := range project.Services {
		if len(svc.Environment) == 0 {
			continue
		}
		envs = append(envs, domain.ServiceEnvironment{Service: svc.Name, Env: svc.Environment})
	}
	return envs, nil
}

func (s *Service) loadWithContainers(ctx context.Context, name string) (*domain.Project, []domain.ContainerRecord, error) {
	project, err := s.store.Load(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	containers, err := s.projectContainers(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	return project, containers, nil
}

func (s *Service) projectContainers(ctx context.Context, name string) ([]domain.ContainerRecord, error) {
	containers, err := s.runtime.ListContainers(ctx, domain.ContainerFilter{Project: name})
	if err != nil {
		logging.FromCtx(ctx).Error().Err(err).Msg("failed to list project containers")
		return nil, err
	}
	if containers == nil {
		containers = []domain.ContainerRecord{}
	}
	return containers, nil
}

// freshView re-reads live containers after a mutation. The document is
// already written at this point, so an engine failure only degrades the
// status to not_created instead of failing the request.
func (s *Service) freshView(ctx context.Context, projectName string, spec domain.ServiceSpec) *domain.ServiceView {
	containers, err := s.runtime.ListContainers(ctx, domain.ContainerFilter{Project: projectName, Service: spec.Name})
	if err != nil {
		logging.FromCtx(ctx).Warn().Err(err).Str(logging.FieldService, spec.Name).Msg("failed to list service containers, status unknown")
		containers = nil
	}
	v := view(spec, containers)
	return &v
}

func view(spec domain.ServiceSpec, containers []domain.ContainerRecord) domain.ServiceView {
	return domain.ServiceView{
		Spec:   spec.Normalize(),
		Status: domain.ComputeServiceStatus(spec, containers),
	}
}
