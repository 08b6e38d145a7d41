package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bnema/stevedore/internal/adapters/dto"
	"github.com/bnema/stevedore/internal/adapters/in/http/httputil"
	"github.com/bnema/stevedore/internal/domain"
	"github.com/bnema/stevedore/internal/logging"
)

func (h *Handler) listContainers(w http.ResponseWriter, r *http.Request) {
	ctx := handlerCtx(r, "list_containers", nil)

	containers, err := h.containers.List(ctx)
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.NewContainersResponse(containers))
}

func (h *Handler) getContainer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := handlerCtx(r, "get_container", map[string]any{logging.FieldContainerID: id})

	container, err := h.containers.Get(ctx, id)
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.NewDetailedContainerResponse(container))
}

func (h *Handler) startContainer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := handlerCtx(r, "start_container", map[string]any{logging.FieldContainerID: id})

	action, err := h.containers.Start(ctx, id)
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.NewContainerActionResponse(action))
}

func (h *Handler) stopContainer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := handlerCtx(r, "stop_container", map[string]any{logging.FieldContainerID: id})

	action, err := h.containers.Stop(ctx, id)
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.NewContainerActionResponse(action))
}

func (h *Handler) removeContainer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := handlerCtx(r, "remove_container", map[string]any{logging.FieldContainerID: id})

	force := false
	if raw := r.URL.Query().Get("force"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			fail(ctx, w, domain.NewValidationError("force", "invalid boolean %q", raw))
			return
		}
		force = parsed
	}

	action, err := h.containers.Remove(ctx, id, force)
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.NewContainerActionResponse(action))
}
