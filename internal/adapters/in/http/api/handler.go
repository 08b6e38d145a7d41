// Package api implements the console REST API on chi.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bnema/stevedore/internal/adapters/in/http/httputil"
	"github.com/bnema/stevedore/internal/boundaries/in"
	"github.com/bnema/stevedore/internal/logging"
)

// Handler serves the session-protected part of /api.
type Handler struct {
	projects   in.ProjectService
	containers in.ContainerService
	registry   in.RegistryService
}

// NewHandler creates the API handler.
func NewHandler(projects in.ProjectService, containers in.ContainerService, registry in.RegistryService) *Handler {
	return &Handler{
		projects:   projects,
		containers: containers,
		registry:   registry,
	}
}

// Routes mounts every protected endpoint on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.listProjects)
		r.Post("/", h.createProject)

		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", h.getProject)
			r.Delete("/", h.deleteProject)
			r.Get("/compose", h.getCompose)
			r.Get("/containers", h.listProjectContainers)
			r.Get("/volumes", h.listVolumes)
			r.Get("/environment", h.listEnvironment)

			r.Route("/services", func(r chi.Router) {
				r.Get("/", h.listServices)
				r.Post("/", h.addService)
				r.Get("/{service}", h.getService)
				r.Put("/{service}", h.updateService)
				r.Delete("/{service}", h.deleteService)
				r.Post("/{service}/start", h.startService)
				r.Post("/{service}/stop", h.stopService)
			})

			r.Route("/networks", func(r chi.Router) {
				r.Get("/", h.listNetworks)
				r.Post("/", h.addNetwork)
				r.Get("/{network}", h.getNetwork)
				r.Put("/{network}", h.updateNetwork)
				r.Delete("/{network}", h.deleteNetwork)
			})
		})
	})

	r.Route("/containers", func(r chi.Router) {
		r.Get("/", h.listContainers)
		r.Get("/{id}", h.getContainer)
		r.Delete("/{id}", h.removeContainer)
		r.Post("/{id}/start", h.startContainer)
		r.Post("/{id}/stop", h.stopContainer)
	})

	r.Route("/registry", func(r chi.Router) {
		r.Get("/repositories", h.listRepositories)
		r.Get("/repositories/*", h.listTags)
		r.Get("/catalog", h.catalog)
	})
}

// handlerCtx enriches the request logger with the handler and action.
func handlerCtx(r *http.Request, action string, fields map[string]any) context.Context {
	all := map[string]any{
		logging.FieldLayer:   "adapter",
		logging.FieldAdapter: "http",
		logging.FieldHandler: "api",
		logging.FieldAction:  action,
	}
	for k, v := range fields {
		all[k] = v
	}
	return logging.CtxWithFields(r.Context(), all)
}

// fail writes err. Server-side failures are logged with the full chain,
// which the response body never carries.
func fail(ctx context.Context, w http.ResponseWriter, err error) {
	status, message := httputil.ErrorStatus(err)
	if status >= http.StatusInternalServerError {
		logging.FromCtx(ctx).Error().Err(err).Int(logging.FieldStatus, status).Msg("request failed")
	}
	httputil.WriteError(w, status, message)
}
