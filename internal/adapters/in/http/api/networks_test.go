package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bnema/stevedore/internal/domain"
)

func TestListNetworks(t *testing.T) {
	env := newTestEnv(t)
	env.projects.On("ListNetworks", mock.Anything, "shop").Return([]domain.NetworkSpec{
		{Name: "backend", Driver: "bridge"},
		{Name: "proxy", External: true, Config: map[string]any{"name": "traefik"}},
	}, nil)

	rec := env.do(http.MethodGet, "/api/projects/shop/networks", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"count": 2,
		"networks": [
			{"name":"backend","driver":"bridge","external":false,"config":{}},
			{"name":"proxy","driver":"","external":true,"config":{"name":"traefik"}}
		]
	}`, rec.Body.String())
}

func TestAddNetwork(t *testing.T) {
	env := newTestEnv(t)
	env.projects.On("AddNetwork", mock.Anything, "shop", domain.NetworkSpec{Name: "backend", Driver: "bridge"}).
		Return(&domain.NetworkSpec{Name: "backend", Driver: "bridge"}, nil)

	rec := env.do(http.MethodPost, "/api/projects/shop/networks", `{"name":"backend","external":false,"driver":"bridge"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"Network added successfully","project":"shop","network":"backend"}`, rec.Body.String())
}

func TestUpdateNetwork_ExternalDriverChange(t *testing.T) {
	env := newTestEnv(t)
	env.projects.On("UpdateNetwork", mock.Anything, "shop", "proxy", mock.Anything).
		Return(nil, domain.ErrExternalDriverChange)

	rec := env.do(http.MethodPut, "/api/projects/shop/networks/proxy", `{"name":"proxy","external":true,"driver":"overlay"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAndDeleteNetwork(t *testing.T) {
	env := newTestEnv(t)
	env.projects.On("GetNetwork", mock.Anything, "shop", "backend").
		Return(&domain.NetworkSpec{Name: "backend", Driver: "bridge"}, nil)
	env.projects.On("DeleteNetwork", mock.Anything, "shop", "backend").
		Return(fmt.Errorf("%w: used by web", domain.ErrNetworkInUse))

	rec := env.do(http.MethodGet, "/api/projects/shop/networks/backend", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"backend","driver":"bridge","external":false,"config":{}}`, rec.Body.String())

	rec = env.do(http.MethodDelete, "/api/projects/shop/networks/backend", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}
