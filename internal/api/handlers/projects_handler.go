package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/langchain-flow/engine/internal/api/types"
	"github.com/langchain-flow/engine/internal/api/validators"
	"github.com/langchain-flow/engine/internal/services"
	appErr "github.com/langchain-flow/engine/pkg/errors"
)

type ProjectsHandler struct {
	projects services.ProjectService
	validate *validator.Validate
}

func NewProjectsHandler(projects services.ProjectService, validate *validator.Validate) *ProjectsHandler {
	return &ProjectsHandler{projects: projects, validate: validate}
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out, err := h.projects.ListProjects(r.Context(), id.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, out)
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req types.ProjectCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, appErr.Invalid("validation failed", validators.Violations(err)...))
		return
	}

	p, err := h.projects.CreateProject(r.Context(), id.UserID, &services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		GithubRepo:  req.GithubRepo,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondCreated(w, p)
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	projectID, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	p, err := h.projects.GetProject(r.Context(), projectID, id.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, p)
}

func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	projectID, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req types.ProjectUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, appErr.Invalid("validation failed", validators.Violations(err)...))
		return
	}

	p, err := h.projects.UpdateProject(r.Context(), projectID, id.UserID, &services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		GithubRepo:  req.GithubRepo,
		Status:      req.Status,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, p)
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	projectID, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.projects.DeleteProject(r.Context(), projectID, id.UserID); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Message: "project deleted"})
}
