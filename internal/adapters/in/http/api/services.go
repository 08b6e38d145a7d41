package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bnema/stevedore/internal/adapters/dto"
	"github.com/bnema/stevedore/internal/adapters/in/http/httputil"
	"github.com/bnema/stevedore/internal/domain"
	"github.com/bnema/stevedore/internal/logging"
)

func serviceFields(project, service string) map[string]any {
	return map[string]any{logging.FieldProject: project, logging.FieldService: service}
}

func (h *Handler) listServices(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "name")
	ctx := handlerCtx(r, "list_services", map[string]any{logging.FieldProject: project})

	views, err := h.projects.ListServices(ctx, project)
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.NewServicesResponse(views))
}

func (h *Handler) getService(w http.ResponseWriter, r *http.Request) {
	project, service := chi.URLParam(r, "name"), chi.URLParam(r, "service")
	ctx := handlerCtx(r, "get_service", serviceFields(project, service))

	view, err := h.projects.GetService(ctx, project, service)
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.NewServiceInfo(*view))
}

func (h *Handler) addService(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "name")
	ctx := handlerCtx(r, "add_service", map[string]any{logging.FieldProject: project})

	var req dto.ServiceRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		fail(ctx, w, err)
		return
	}

	view, err := h.projects.AddService(ctx, project, req.ToDomain())
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, dto.ServiceMutationResponse{
		Message: "Service added successfully",
		Project: project,
		Service: view.Spec.Name,
	})
}

func (h *Handler) updateService(w http.ResponseWriter, r *http.Request) {
	project, service := chi.URLParam(r, "name"), chi.URLParam(r, "service")
	ctx := handlerCtx(r, "update_service", serviceFields(project, service))

	var req dto.ServiceRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		fail(ctx, w, err)
		return
	}

	view, err := h.projects.UpdateService(ctx, project, service, req.ToDomain())
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.ServiceMutationResponse{
		Message: "Service updated successfully",
		Project: project,
		Service: view.Spec.Name,
	})
}

func (h *Handler) deleteService(w http.ResponseWriter, r *http.Request) {
	project, service := chi.URLParam(r, "name"), chi.URLParam(r, "service")
	ctx := handlerCtx(r, "delete_service", serviceFields(project, service))

	if err := h.projects.DeleteService(ctx, project, service); err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.ServiceMutationResponse{
		Message: "Service deleted successfully",
		Project: project,
		Service: service,
	})
}

func (h *Handler) startService(w http.ResponseWriter, r *http.Request) {
	project, service := chi.URLParam(r, "name"), chi.URLParam(r, "service")
	ctx := handlerCtx(r, "start_service", serviceFields(project, service))

	actions, err := h.projects.StartService(ctx, project, service)
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.ServiceMutationResponse{
		Message:    "Service started successfully",
		Project:    project,
		Service:    service,
		Containers: actionIDs(actions),
	})
}

func (h *Handler) stopService(w http.ResponseWriter, r *http.Request) {
	project, service := chi.URLParam(r, "name"), chi.URLParam(r, "service")
	ctx := handlerCtx(r, "stop_service", serviceFields(project, service))

	actions, err := h.projects.StopService(ctx, project, service)
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.ServiceMutationResponse{
		Message:    "Service stopped successfully",
		Project:    project,
		Service:    service,
		Containers: actionIDs(actions),
	})
}

func actionIDs(actions []domain.ContainerAction) []string {
	ids := make([]string, 0, len(actions))
	for _, a := range actions {
		ids = append(ids, a.ID)
	}
	return ids
}
