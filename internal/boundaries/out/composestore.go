// Package out defines output ports (interfaces) implemented by driven adapters.
package out

import (
	"context"

	"github.com/bnema/stevedore/internal/domain"
)

// ComposeStore owns the compose document of every project.
// Writes to one project are serialized; a failed write leaves the document untouched.
type ComposeStore interface {
	// ListProjects returns every discovered project, ordered by name.
	// Projects whose document cannot be parsed are returned without services.
	ListProjects(ctx context.Context) ([]domain.Project, error)

	// Load parses a project's compose document.
	Load(ctx context.Context, project string) (*domain.Project, error)

	// CreateProject initializes an empty compose document for a new project.
	CreateProject(ctx context.Context, project string) (*domain.Project, error)

	// DeleteProject removes the project directory.
	DeleteProject(ctx context.Context, project string) error

	AddService(ctx context.Context, project string, spec domain.ServiceSpec) (domain.ServiceSpec, error)
	UpdateService(ctx context.Context, project, service string, spec domain.ServiceSpec) (domain.ServiceSpec, error)
	DeleteService(ctx context.Context, project, service string) error

	AddNetwork(ctx context.Context, project string, spec domain.NetworkSpec) (domain.NetworkSpec, error)
	UpdateNetwork(ctx context.Context, project, network string, spec domain.NetworkSpec) (domain.NetworkSpec, error)
	DeleteNetwork(ctx context.Context, project, network string) error
}
