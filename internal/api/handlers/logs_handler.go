package handlers

import (
	"net/http"
	"time"

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

// LogsHandler serves project-level log ingestion and listing. Run-scoped
// listings live under the runs handler.
type LogsHandler struct {
	projects services.ProjectService
	logRepo  repository.LogRepository
	validate *validator.Validate
}

func NewLogsHandler(projects services.ProjectService, logRepo repository.LogRepository, validate *validator.Validate) *LogsHandler {
	return &LogsHandler{projects: projects, logRepo: logRepo, validate: validate}
}

// List returns a page of a project's logs, newest event first.
func (h *LogsHandler) List(w http.ResponseWriter, r *http.Request) {
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
	page, limit := pagination(r)
	logs, err := h.logRepo.ListByProject(r.Context(), projectID, limit, (page-1)*limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, logs)
}

// Create appends one log entry to a project the caller owns.
func (h *LogsHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req types.LogCreateRequest
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

	var runID *uuid.UUID
	if req.RunID != "" {
		parsed, err := uuid.Parse(req.RunID)
		if err != nil {
			respondError(w, r, appErr.New(appErr.CodeInvalid, "invalid runId"))
			return
		}
		runID = &parsed
	}
	ts := time.Now().UTC()
	if req.Timestamp != nil {
		ts = req.Timestamp.UTC()
	}
	level := req.Level
	if level == "" {
		level = models.LogLevelInfo
	}

	log := &models.Log{
		ProjectID: projectID,
		RunID:     runID,
		Level:     level,
		Message:   req.Message,
		Metadata:  datatypes.JSONMap(req.Metadata),
		Source:    req.Source,
		Timestamp: ts,
	}
	if err := h.logRepo.Create(r.Context(), log); err != nil {
		respondError(w, r, err)
		return
	}
	respondCreated(w, log)
}
