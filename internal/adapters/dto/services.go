package dto

import (
	"github.com/bnema/stevedore/internal/domain"
)

// ServiceInfo is a compose service with its live status.
type ServiceInfo struct {
	Name        string            `json:"name"`
	Image       string            `json:"image"`
	Build       string            `json:"build"`
	Ports       []string          `json:"ports"`
	Environment map[string]string `json:"environment"`
	Volumes     []string          `json:"volumes"`
	Labels      []string          `json:"labels"`
	DependsOn   []string          `json:"depends_on"`
	Networks    []string          `json:"networks"`
	Restart     string            `json:"restart"`
	Command     string            `json:"command"`
	Status      string            `json:"status"`
}

// ServicesResponse lists the services of a project.
type ServicesResponse struct {
	Services []ServiceInfo `json:"services"`
	Count    int           `json:"count"`
}

// ServiceRequest adds or replaces a service. A status field sent by the
// console is ignored.
type ServiceRequest struct {
	Name        string            `json:"name"`
	Image       string            `json:"image"`
	Build       string            `json:"build"`
	Ports       []string          `json:"ports"`
	Environment map[string]string `json:"environment"`
	Volumes     []string          `json:"volumes"`
	Labels      []string          `json:"labels"`
	DependsOn   []string          `json:"depends_on"`
	Networks    []string          `json:"networks"`
	Restart     string            `json:"restart"`
	Command     string            `json:"command"`
}

// ServiceMutationResponse confirms a service change.
type ServiceMutationResponse struct {
	Message    string   `json:"message"`
	Project    string   `json:"project"`
	Service    string   `json:"service"`
	Containers []string `json:"containers,omitempty"`
}

// ToDomain converts the request into a service spec.
func (r ServiceRequest) ToDomain() domain.ServiceSpec {
	return domain.ServiceSpec{
		Name:        r.Name,
		Image:       r.Image,
		Build:       r.Build,
		Ports:       r.Ports,
		Environment: r.Environment,
		Volumes:     r.Volumes,
		Labels:      r.Labels,
		DependsOn:   r.DependsOn,
		Networks:    r.Networks,
		Restart:     domain.RestartPolicy(r.Restart),
		Command:     r.Command,
	}
}

// NewServiceInfo converts a service view.
func NewServiceInfo(v domain.ServiceView) ServiceInfo {
	s := v.Spec.Normalize()
	return ServiceInfo{
		Name:        s.Name,
		Image:       s.Image,
		Build:       s.Build,
		Ports:       s.Ports,
		Environment: s.Environment,
		Volumes:     s.Volumes,
		Labels:      s.Labels,
		DependsOn:   s.DependsOn,
		Networks:    s.Networks,
		Restart:     string(s.Restart),
		Command:     s.Command,
		Status:      string(v.Status),
	}
}

// NewServicesResponse converts a service listing.
func NewServicesResponse(views []domain.ServiceView) ServicesResponse {
	out := make([]ServiceInfo, 0, len(views))
	for _, v := range views {
		out = append(out, NewServiceInfo(v))
	}
	return ServicesResponse{Services: out, Count: len(out)}
}
