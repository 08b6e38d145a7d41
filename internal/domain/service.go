package domain

import (
	"strings"
)

// RestartPolicy is the compose restart policy of a service.
type RestartPolicy string

const (
	RestartUnset         RestartPolicy = ""
	RestartNo            RestartPolicy = "no"
	RestartAlways        RestartPolicy = "always"
	RestartUnlessStopped RestartPolicy = "unless-stopped"
	RestartOnFailure     RestartPolicy = "on-failure"
)

// Valid reports whether the policy is one compose accepts.
// "on-failure:N" is accepted as a variant of on-failure.
func (p RestartPolicy) Valid() bool {
	switch p {
	case RestartUnset, RestartNo, RestartAlways, RestartUnlessStopped, RestartOnFailure:
		return true
	}
	rest, ok := strings.CutPrefix(string(p), string(RestartOnFailure)+":")
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ServiceSpec is a compose service as edited through the API.
type ServiceSpec struct {
	Name        string
	Image       string
	Build       string
	Ports       []string
	Environment map[string]string
	Volumes     []string
	Labels      []string
	DependsOn   []string
	Networks    []string
	Restart     RestartPolicy
	Command     string
}

// ServiceStatus is derived from live containers and never persisted.
type ServiceStatus string

const (
	ServiceRunning    ServiceStatus = "running"
	ServiceStopped    ServiceStatus = "stopped"
	ServiceNotCreated ServiceStatus = "not_created"
)

// ServiceView is a service spec with its computed status.
type ServiceView struct {
	Spec   ServiceSpec
	Status ServiceStatus
}

// ComputeServiceStatus derives a service's status from the containers of its
// project: running if any matching container runs, stopped if some exist but
// none run, not_created otherwise.
func ComputeServiceStatus(spec ServiceSpec, containers []ContainerRecord) ServiceStatus {
	found := false
	for _, c := range containers {
		if ServiceOf(c.Labels) != spec.Name {
			continue
		}
		if c.State.IsRunning() {
			return ServiceRunning
		}
		found = true
	}
	if found {
		return ServiceStopped
	}
	return ServiceNotCreated
}

// ContainersOfService returns the containers labelled with the given service.
func ContainersOfService(service string, containers []ContainerRecord) []ContainerRecord {
	var out []ContainerRecord
	for _, c := range containers {
		if ServiceOf(c.Labels) == service {
			out = append(out, c)
		}
	}
	return out
}

// Normalize fills nil collections so specs compare and serialize consistently.
func (s ServiceSpec) Normalize() ServiceSpec {
	if s.Ports == nil {
		s.Ports = []string{}
	}
	if s.Environment == nil {
		s.Environment = map[string]string{}
	}
	if s.Volumes == nil {
		s.Volumes = []string{}
	}
	if s.Labels == nil {
		s.Labels = []string{}
	}
	if s.DependsOn == nil {
		s.DependsOn = []string{}
	}
	if s.Networks == nil {
		s.Networks = []string{}
	}
	return s
}
