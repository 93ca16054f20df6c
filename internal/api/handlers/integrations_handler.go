package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/langchain-flow/engine/internal/api/types"
	"github.com/langchain-flow/engine/internal/api/validators"
	"github.com/langchain-flow/engine/internal/models"
	"github.com/langchain-flow/engine/internal/repository"
	"github.com/langchain-flow/engine/internal/services"
	appErr "github.com/langchain-flow/engine/pkg/errors"
)

// IntegrationsHandler manages external-service connections per project.
// Credentials are write-only: accepted on create/update, never echoed.
type IntegrationsHandler struct {
	projects services.ProjectService
	intRepo  repository.IntegrationRepository
	validate *validator.Validate
}

func NewIntegrationsHandler(projects services.ProjectService, intRepo repository.IntegrationRepository, validate *validator.Validate) *IntegrationsHandler {
	return &IntegrationsHandler{projects: projects, intRepo: intRepo, validate: validate}
}

func (h *IntegrationsHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	projectID, err := uuidQuery(r, "projectId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if _, err := h.projects.RequireOwned(r.Context(), projectID, id.UserID); err != nil {
		respondError(w, r, err)
		return
	}
	out, err := h.intRepo.ListByProject(r.Context(), projectID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, out)
}

func (h *IntegrationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req types.IntegrationCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, appErr.Invalid("validation failed", validators.Violations(err)...))
		return
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		respondError(w, r, appErr.New(appErr.CodeInvalid, "invalid projectId"))
		return
	}
	if _, err := h.projects.RequireOwned(r.Context(), projectID, id.UserID); err != nil {
		respondError(w, r, err)
		return
	}

	integration := &models.Integration{
		ProjectID:   projectID,
		Type:        req.Type,
		Name:        req.Name,
		Config:      datatypes.JSONMap(req.Config),
		Credentials: datatypes.JSONMap(req.Credentials),
		Status:      models.IntegrationStatusActive,
	}
	if err := h.intRepo.Create(r.Context(), integration); err != nil {
		respondError(w, r, err)
		return
	}
	respondCreated(w, integration)
}

func (h *IntegrationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	integration, err := h.owned(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, integration)
}

func (h *IntegrationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	integration, err := h.owned(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req types.IntegrationUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, appErr.Invalid("validation failed", validators.Violations(err)...))
		return
	}

	if req.Name != nil {
		integration.Name = *req.Name
	}
	if req.Config != nil {
		integration.Config = datatypes.JSONMap(req.Config)
	}
	if req.Credentials != nil {
		integration.Credentials = datatypes.JSONMap(req.Credentials)
	}
	if req.Status != nil {
		integration.Status = *req.Status
	}
	if err := h.intRepo.Update(r.Context(), integration); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, integration)
}

func (h *IntegrationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	integration, err := h.owned(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.intRepo.Delete(r.Context(), integration.ID); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Message: "integration deleted"})
}

// owned resolves {id} and checks the caller owns the parent project.
func (h *IntegrationsHandler) owned(r *http.Request) (*models.Integration, error) {
	id, err := identity(r)
	if err != nil {
		return nil, err
	}
	intID, err := uuidParam(r, "id")
	if err != nil {
		return nil, err
	}
	var integration models.Integration
	if err := h.intRepo.GetByID(r.Context(), intID, &integration); err != nil {
		return nil, err
	}
	if _, err := h.projects.RequireOwned(r.Context(), integration.ProjectID, id.UserID); err != nil {
		return nil, appErr.New(appErr.CodeNotFound, "integration not found")
	}
	return &integration, nil
}
