package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bnema/stevedore/internal/adapters/dto"
	"github.com/bnema/stevedore/internal/adapters/in/http/httputil"
	"github.com/bnema/stevedore/internal/logging"
)

func networkFields(project, network string) map[string]any {
	return map[string]any{logging.FieldProject: project, logging.FieldNetwork: network}
}

func (h *Handler) listNetworks(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "name")
	ctx := handlerCtx(r, "list_networks", map[string]any{logging.FieldProject: project})

	networks, err := h.projects.ListNetworks(ctx, project)
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.NewNetworksResponse(networks))
}

func (h *Handler) getNetwork(w http.ResponseWriter, r *http.Request) {
	project, network := chi.URLParam(r, "name"), chi.URLParam(r, "network")
	ctx := handlerCtx(r, "get_network", networkFields(project, network))

	spec, err := h.projects.GetNetwork(ctx, project, network)
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.NewNetworkInfo(*spec))
}

func (h *Handler) addNetwork(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "name")
	ctx := handlerCtx(r, "add_network", map[string]any{logging.FieldProject: project})

	var req dto.NetworkRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		fail(ctx, w, err)
		return
	}

	spec, err := h.projects.AddNetwork(ctx, project, req.ToDomain())
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, dto.NetworkMutationResponse{
		Message: "Network added successfully",
		Project: project,
		Network: spec.Name,
	})
}

func (h *Handler) updateNetwork(w http.ResponseWriter, r *http.Request) {
	project, network := chi.URLParam(r, "name"), chi.URLParam(r, "network")
	ctx := handlerCtx(r, "update_network", networkFields(project, network))

	var req dto.NetworkRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		fail(ctx, w, err)
		return
	}

	spec, err := h.projects.UpdateNetwork(ctx, project, network, req.ToDomain())
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.NetworkMutationResponse{
		Message: "Network updated successfully",
		Project: project,
		Network: spec.Name,
	})
}

func (h *Handler) deleteNetwork(w http.ResponseWriter, r *http.Request) {
	project, network := chi.URLParam(r, "name"), chi.URLParam(r, "network")
	ctx := handlerCtx(r, "delete_network", networkFields(project, network))

	if err := h.projects.DeleteNetwork(ctx, project, network); err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.NetworkMutationResponse{
		Message: "Network deleted successfully",
		Project: project,
		Network: network,
	})
}
