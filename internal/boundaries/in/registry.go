package in

import (
	"context"

	"github.com/bnema/stevedore/internal/domain"
)

// RegistryService defines the contract for read-only registry browsing.
type RegistryService interface {
	ListRepositories(ctx context.Context) (*domain.RepositoryList, error)
	ListTags(ctx context.Context, repository string) (*domain.TagList, error)

	// Catalog returns every repository with its tags in one call.
	Catalog(ctx context.Context) (*domain.Catalog, error)
}
