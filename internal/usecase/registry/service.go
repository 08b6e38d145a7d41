// Package registry implements the read-only registry catalog use case.
package registry

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/stevedore/internal/boundaries/in"
	"github.com/bnema/stevedore/internal/boundaries/out"
	"github.com/bnema/stevedore/internal/domain"
	"github.com/bnema/stevedore/internal/logging"
	"github.com/bnema/stevedore/pkg/validation"
)

// Ensure Service implements in.RegistryService.
var _ in.RegistryService = (*Service)(nil)

// DefaultConcurrency bounds the tag lookups of one catalog call.
const DefaultConcurrency = 8

// Service implements the RegistryService interface.
type Service struct {
	client      out.RegistryClient
	concurrency int
}

// NewService creates a new registry service.
func NewService(client out.RegistryClient, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Service{
		client:      client,
		concurrency: concurrency,
	}
}

// ListRepositories lists repositories in registry order.
func (s *Service) ListRepositories(ctx context.Context) (*domain.RepositoryList, error) {
	ctx = logging.CtxWithFields(ctx, map[string]any{
		logging.FieldLayer:   "usecase",
		logging.FieldUseCase: "ListRepositories",
	})

	repos, err := s.client.ListRepositories(ctx)
	if err != nil {
		logging.FromCtx(ctx).Error().Err(err).Msg("failed to list repositories")
		return nil, err
	}
	if repos == nil {
		repos = []string{}
	}
	return &domain.RepositoryList{Registry: s.client.Host(), Repositories: repos}, nil
}

// ListTags lists the tags of one repository in registry order.
func (s *Service) ListTags(ctx context.Context, repository string) (*domain.TagList, error) {
	ctx = logging.CtxWithFields(ctx, map[string]any{
		logging.FieldLayer:      "usecase",
		logging.FieldUseCase:    "ListTags",
		logging.FieldRepository: repository,
	})

	if err := validation.ValidateRepositoryName(repository); err != nil {
		return nil, domain.NewValidationError("repository", "%v", err)
	}

	tags, err := s.client.ListTags(ctx, repository)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logging.FromCtx(ctx).Error().Err(err).Msg("failed to list tags")
		}
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return &domain.TagList{Registry: s.client.Host(), Repository: repository, Tags: tags}, nil
}

// Catalog fetches every repository and its tags. Tag lookups run with bounded
// concurrency, stop at the first failure or when ctx is canceled, and keep
// the registry's repository order.
func (s *Service) Catalog(ctx context.Context) (*domain.Catalog, error) {
	ctx = logging.CtxWithFields(ctx, map[string]any{
		logging.FieldLayer:   "usecase",
		logging.FieldUseCase: "Catalog",
	})
	log := logging.FromCtx(ctx)

	names, err := s.client.ListRepositories(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list repositories")
		return nil, err
	}

	repos := make([]domain.Repository, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tags, err := s.client.ListTags(gctx, name)
			switch {
			case errors.Is(err, domain.ErrRepositoryNotFound):
				// Deleted between the catalog and the tag call.
				tags = []string{}
			case err != nil:
				return err
			case tags == nil:
				tags = []string{}
			}
			repos[i] = domain.Repository{Name: name, Tags: tags}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Int("repositories", len(names)).Msg("catalog aggregation aborted")
		return nil, err
	}

	log.Debug().Int("repositories", len(repos)).Msg("catalog built")
	return &domain.Catalog{Registry: s.client.Host(), Repositories: repos}, nil
}
