package domain

import (
	"regexp"
)

var (
	projectNamePattern  = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)
	resourceNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,62}$`)
)

// Project is a compose project on disk together with its parsed specs.
type Project struct {
	Name           string
	Dir            string
	Path           string // compose file path
	ComposeContent string
	Services       []ServiceSpec
	Networks       []NetworkSpec
	Volumes        []string // top-level named volumes
}

// Service returns the named service spec.
func (p *Project) Service(name string) (ServiceSpec, bool) {
	for _, s := range p.Services {
		if s.Name == name {
			return s, true
		}
	}
	return ServiceSpec{}, false
}

// Network returns the named network spec.
func (p *Project) Network(name string) (NetworkSpec, bool) {
	for _, n := range p.Networks {
		if n.Name == name {
			return n, true
		}
	}
	return NetworkSpec{}, false
}

// ProjectSummary is the list view of a project with live container counts.
type ProjectSummary struct {
	Name              string
	Path              string
	ServiceCount      int
	ContainersRunning int
	ContainersStopped int
}

// ProjectDetail merges a project's compose content with its live containers.
type ProjectDetail struct {
	Project    Project
	Containers []ContainerRecord
}

// ServiceVolume pairs a volume mapping with the service declaring it.
type ServiceVolume struct {
	Service string
	Volume  string
}

// ServiceEnvironment is the environment map of one service.
type ServiceEnvironment struct {
	Service string
	Env     map[string]string
}

// ValidateProjectName checks a project name against the compose naming rules.
func ValidateProjectName(name string) error {
	if name == "" {
		return NewValidationError("name", "project name is required")
	}
	if !projectNamePattern.MatchString(name) {
		return NewValidationError("name", "invalid project name %q: use lowercase letters, digits, '-' or '_'", name)
	}
	return nil
}

// ValidateResourceName checks a service or network name.
func ValidateResourceName(field, name string) error {
	if name == "" {
		return NewValidationError(field, "%s is required", field)
	}
	if !resourceNamePattern.MatchString(name) {
		return NewValidationError(field, "invalid %s %q", field, name)
	}
	return nil
}
