package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bnema/stevedore/internal/adapters/dto"
	"github.com/bnema/stevedore/internal/adapters/in/http/httputil"
	"github.com/bnema/stevedore/internal/logging"
)

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	ctx := handlerCtx(r, "list_projects", nil)

	summaries, err := h.projects.ListProjects(ctx)
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.NewProjectsResponse(summaries))
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	ctx := handlerCtx(r, "create_project", nil)

	var req dto.CreateProjectRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		fail(ctx, w, err)
		return
	}

	summary, err := h.projects.CreateProject(ctx, req.Name)
	if err != nil {
		fail(ctx, w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, dto.CreateProjectResponse{
		Message: "Project created successfully",
		Project: dto.NewProjectInfo(*summary),
	})
}

func (h *Handler) getProject(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ctx := handlerCtx(r, "get_project", map[string]any{logging.FieldProject: name})

	detail, err := h.projects.GetProject(ctx, name)
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.NewProjectDetailResponse(detail))
}

func (h *Handler) deleteProject(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ctx := handlerCtx(r, "delete_project", map[string]any{logging.FieldProject: name})

	if err := h.projects.DeleteProject(ctx, name); err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.ProjectMutationResponse{
		Message: "Project deleted successfully",
		Project: name,
	})
}

func (h *Handler) getCompose(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ctx := handlerCtx(r, "get_compose", map[string]any{logging.FieldProject: name})

	content, err := h.projects.GetCompose(ctx, name)
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.ComposeResponse{Content: content})
}

func (h *Handler) listProjectContainers(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ctx := handlerCtx(r, "list_project_containers", map[string]any{logging.FieldProject: name})

	containers, err := h.projects.ListContainers(ctx, name)
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.NewProjectContainersResponse(containers))
}

func (h *Handler) listVolumes(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ctx := handlerCtx(r, "list_volumes", map[string]any{logging.FieldProject: name})

	volumes, err := h.projects.ListVolumes(ctx, name)
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.NewVolumesResponse(volumes))
}

func (h *Handler) listEnvironment(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ctx := handlerCtx(r, "list_environment", map[string]any{logging.FieldProject: name})

	envs, err := h.projects.ListEnvironment(ctx, name)
	if err != nil {
		fail(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto.NewEnvironmentResponse(envs))
}
