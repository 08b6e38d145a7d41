package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bnema/stevedore/internal/adapters/dto"
	"github.com/bnema/stevedore/internal/adapters/in/http/httputil"
	"github.com/bnema/stevedore/internal/logging"
)

func (h *Handler) listRepositories(w http.ResponseWriter, r *http.Request) {
	ctx := handlerCtx(r, "list_repositories", nil)

	list, err := h.registry.ListRepositories(ctx)
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.NewRepositoriesResponse(list))
}

// listTags serves /registry/repositories/{name}/tags where name may
// contain slashes (library/nginx).
func (h *Handler) listTags(w http.ResponseWriter, r *http.Request) {
	rest := chi.URLParam(r, "*")
	raw, ok := strings.CutSuffix(rest, "/tags")
	if !ok || raw == "" {
		httputil.WriteError(w, http.StatusNotFound, "not found")
		return
	}
	name, err := url.PathUnescape(raw)
	if err != nil {
		name = raw
	}

	ctx := handlerCtx(r, "list_tags", map[string]any{logging.FieldRepository: name})

	tags, err := h.registry.ListTags(ctx, name)
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.NewTagsResponse(tags))
}

func (h *Handler) catalog(w http.ResponseWriter, r *http.Request) {
	ctx := handlerCtx(r, "catalog", nil)

	catalog, err := h.registry.Catalog(ctx)
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.NewCatalogResponse(catalog))
}
