package out

import "context"

// RegistryClient reads an image registry over the distribution API.
type RegistryClient interface {
	// Host is the registry host used to qualify image references.
	Host() string

	ListRepositories(ctx context.Context) ([]string, error)

	// ListTags fails with domain.ErrRepositoryNotFound for unknown repositories.
	ListTags(ctx context.Context, repository string) ([]string, error)
}
