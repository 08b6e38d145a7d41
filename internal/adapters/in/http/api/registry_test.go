package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bnema/stevedore/internal/domain"
)

func TestListRepositories(t *testing.T) {
	env := newTestEnv(t)
	env.registry.On("ListRepositories", mock.Anything).Return(&domain.RepositoryList{
		Registry:     "registry.local:5000",
		Repositories: []string{"library/nginx", "shop/api"},
	}, nil)

	rec := env.do(http.MethodGet, "/api/registry/repositories", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"registry":"registry.local:5000","repositories":["library/nginx","shop/api"],"count":2}`, rec.Body.String())
}

func TestListTags(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		repo       string
		wantStatus int
	}{
		{"simple name", "/api/registry/repositories/nginx/tags", "nginx", http.StatusOK},
		{"nested name", "/api/registry/repositories/library/nginx/tags", "library/nginx", http.StatusOK},
		{"escaped slash", "/api/registry/repositories/library%2Fnginx/tags", "library/nginx", http.StatusOK},
		{"missing suffix", "/api/registry/repositories/nginx", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.repo != "" {
				env.registry.On("ListTags", mock.Anything, tt.repo).Return(&domain.TagList{
					Registry:   "registry.local:5000",
					Repository: tt.repo,
					Tags:       []string{"1.27", "latest"},
				}, nil)
			}

			rec := env.do(http.MethodGet, tt.target, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, fmt.Sprintf(
					`{"registry":"registry.local:5000","repository":%q,"tags":["1.27","latest"],"count":2}`, tt.repo,
				), rec.Body.String())
			}
		})
	}
}

func TestListTags_UnknownRepository(t *testing.T) {
	env := newTestEnv(t)
	env.registry.On("ListTags", mock.Anything, "ghost").
		Return(nil, fmt.Errorf("%w: ghost", domain.ErrRepositoryNotFound))

	rec := env.do(http.MethodGet, "/api/registry/repositories/ghost/tags", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalog(t *testing.T) {
	env := newTestEnv(t)
	env.registry.On("Catalog", mock.Anything).Return(&domain.Catalog{
		Registry: "registry.local:5000",
		Repositories: []domain.Repository{
			{Name: "library/nginx", Tags: []string{"latest"}},
			{Name: "shop/api"},
		},
	}, nil)

	rec := env.do(http.MethodGet, "/api/registry/catalog", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"registry":"registry.local:5000",
		"count":2,
		"repositories":[{"name":"library/nginx","tags":["latest"]},{"name":"shop/api","tags":[]}]
	}`, rec.Body.String())
}

func TestCatalog_RegistryUnreachable(t *testing.T) {
	env := newTestEnv(t)
	env.registry.On("Catalog", mock.Anything).Return(nil, domain.ErrRegistryUnreachable)

	rec := env.do(http.MethodGet, "/api/registry/catalog", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
