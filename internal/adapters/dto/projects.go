package dto

import (
	"github.com/bnema/stevedore/internal/domain"
)

// ProjectInfo is the list view of a project.
type ProjectInfo struct {
	Name              string `json:"name"`
	Path              string `json:"path"`
	ServiceCount      int    `json:"service_count"`
	ContainersRunning int    `json:"containers_running"`
	ContainersStopped int    `json:"containers_stopped"`
}

// ProjectsResponse lists projects.
type ProjectsResponse struct {
	Projects []ProjectInfo `json:"projects"`
	Count    int           `json:"count"`
}

// CreateProjectRequest creates an empty project.
type CreateProjectRequest struct {
	Name string `json:"name"`
}

// CreateProjectResponse reports a created project.
type CreateProjectResponse struct {
	Message string      `json:"message"`
	Project ProjectInfo `json:"project"`
}

// ProjectMutationResponse confirms a project-level change.
type ProjectMutationResponse struct {
	Message string `json:"message"`
	Project string `json:"project"`
}

// ProjectServiceDetail is the compact service view embedded in a project detail.
type ProjectServiceDetail struct {
	Name        string            `json:"name"`
	Image       string            `json:"image"`
	Ports       []string          `json:"ports"`
	Environment map[string]string `json:"environment"`
	Volumes     []string          `json:"volumes"`
	Status      string            `json:"status"`
}

// ProjectContainerInfo is a container as listed under its project.
type ProjectContainerInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Service string `json:"service"`
	State   string `json:"state"`
	Status  string `json:"status"`
}

// ProjectDetailResponse merges compose content with live containers.
type ProjectDetailResponse struct {
	ProjectInfo
	ComposeContent string                          `json:"compose_content"`
	Services       map[string]ProjectServiceDetail `json:"services"`
	Containers     []ProjectContainerInfo          `json:"containers"`
}

// ProjectContainersResponse lists the containers of a project.
type ProjectContainersResponse struct {
	Containers []ProjectContainerInfo `json:"containers"`
	Count      int                    `json:"count"`
}

// ComposeResponse carries the raw compose document.
type ComposeResponse struct {
	Content string `json:"content"`
}

// VolumeInfo pairs a volume mapping with its service.
type VolumeInfo struct {
	Service string `json:"service"`
	Volume  string `json:"volume"`
}

// VolumesResponse lists the volume mappings of a project.
type VolumesResponse struct {
	Volumes []VolumeInfo `json:"volumes"`
	Count   int          `json:"count"`
}

// EnvironmentInfo is the environment of one service.
type EnvironmentInfo struct {
	Service string            `json:"service"`
	Env     map[string]string `json:"env"`
}

// EnvironmentResponse lists service environments.
type EnvironmentResponse struct {
	Environment []EnvironmentInfo `json:"environment"`
	Count       int               `json:"count"`
}

// NewProjectInfo converts a project summary.
func NewProjectInfo(s domain.ProjectSummary) ProjectInfo {
	return ProjectInfo{
		Name:              s.Name,
		Path:              s.Path,
		ServiceCount:      s.ServiceCount,
		ContainersRunning: s.ContainersRunning,
		ContainersStopped: s.ContainersStopped,
	}
}

// NewProjectsResponse converts a project listing.
func NewProjectsResponse(summaries []domain.ProjectSummary) ProjectsResponse {
	projects := make([]ProjectInfo, 0, len(summaries))
	for _, s := range summaries {
		projects = append(projects, NewProjectInfo(s))
	}
	return ProjectsResponse{Projects: projects, Count: len(projects)}
}

// NewProjectContainerInfo converts a container for a project listing.
func NewProjectContainerInfo(c domain.ContainerRecord) ProjectContainerInfo {
	return ProjectContainerInfo{
		ID:      c.ID,
		Name:    c.Name,
		Service: c.Service(),
		State:   string(c.State),
		Status:  c.Status,
	}
}

// NewProjectContainersResponse converts the containers of a project.
func NewProjectContainersResponse(containers []domain.ContainerRecord) ProjectContainersResponse {
	out := make([]ProjectContainerInfo, 0, len(containers))
	for _, c := range containers {
		out = append(out, NewProjectContainerInfo(c))
	}
	return ProjectContainersResponse{Containers: out, Count: len(out)}
}

// NewProjectDetailResponse converts a project detail.
func NewProjectDetailResponse(d *domain.ProjectDetail) ProjectDetailResponse {
	running, stopped := domain.CountContainers(d.Containers)

	services := make(map[string]ProjectServiceDetail, len(d.Project.Services))
	for _, s := range d.Project.Services {
		s = s.Normalize()
		services[s.Name] = ProjectServiceDetail{
			Name:        s.Name,
			Image:       s.Image,
			Ports:       s.Ports,
			Environment: s.Environment,
			Volumes:     s.Volumes,
			Status:      string(domain.ComputeServiceStatus(s, d.Containers)),
		}
	}

	return ProjectDetailResponse{
		ProjectInfo: ProjectInfo{
			Name:              d.Project.Name,
			Path:              d.Project.Path,
			ServiceCount:      len(d.Project.Services),
			ContainersRunning: running,
			ContainersStopped: stopped,
		},
		ComposeContent: d.Project.ComposeContent,
		Services:       services,
		Containers:     NewProjectContainersResponse(d.Containers).Containers,
	}
}

// NewVolumesResponse converts service volume mappings.
func NewVolumesResponse(volumes []domain.ServiceVolume) VolumesResponse {
	out := make([]VolumeInfo, 0, len(volumes))
	for _, v := range volumes {
		out = append(out, VolumeInfo{Service: v.Service, Volume: v.Volume})
	}
	return VolumesResponse{Volumes: out, Count: len(out)}
}

// NewEnvironmentResponse converts service environments.
func NewEnvironmentResponse(envs []domain.ServiceEnvironment) EnvironmentResponse {
	out := make([]EnvironmentInfo, 0, len(envs))
	for _, e := range envs {
		env := e.Env
		if env == nil {
			env = map[string]string{}
		}
		out = append(out, EnvironmentInfo{Service: e.Service, Env: env})
	}
	return EnvironmentResponse{Environment: out, Count: len(out)}
}
