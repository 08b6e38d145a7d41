package dto

import (
	"github.com/bnema/stevedore/internal/domain"
)

// RepositoriesResponse lists the repositories of a registry.
type RepositoriesResponse struct {
	Registry     string   `json:"registry"`
	Repositories []string `json:"repositories"`
	Count        int      `json:"count"`
}

// TagsResponse lists the tags of a repository.
type TagsResponse struct {
	Registry   string   `json:"registry"`
	Repository string   `json:"repository"`
	Tags       []string `json:"tags"`
	Count      int      `json:"count"`
}

// RepositoryInfo is a repository with its tags.
type RepositoryInfo struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// CatalogResponse lists every repository with its tags.
type CatalogResponse struct {
	Registry     string           `json:"registry"`
	Repositories []RepositoryInfo `json:"repositories"`
	Count        int              `json:"count"`
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// NewRepositoriesResponse converts a repository listing.
func NewRepositoriesResponse(l *domain.RepositoryList) RepositoriesResponse {
	repos := stringsOrEmpty(l.Repositories)
	return RepositoriesResponse{Registry: l.Registry, Repositories: repos, Count: len(repos)}
}

// NewTagsResponse converts a tag listing.
func NewTagsResponse(l *domain.TagList) TagsResponse {
	tags := stringsOrEmpty(l.Tags)
	return TagsResponse{Registry: l.Registry, Repository: l.Repository, Tags: tags, Count: len(tags)}
}

// NewCatalogResponse converts a full catalog.
func NewCatalogResponse(c *domain.Catalog) CatalogResponse {
	repos := make([]RepositoryInfo, 0, len(c.Repositories))
	for _, r := range c.Repositories {
		repos = append(repos, RepositoryInfo{Name: r.Name, Tags: stringsOrEmpty(r.Tags)})
	}
	return CatalogResponse{Registry: c.Registry, Repositories: repos, Count: len(repos)}
}
