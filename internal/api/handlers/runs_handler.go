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

// RunsHandler serves runs and their nested observability resources:
// logs, graph, costs and artifacts all hang off a run.
type RunsHandler struct {
	runs      services.RunService
	costs     services.CostService
	logRepo   repository.LogRepository
	graphRepo repository.GraphRepository
	artRepo   repository.ArtifactRepository
	validate  *validator.Validate
}

func NewRunsHandler(
	runs services.RunService,
	costs services.CostService,
	logRepo repository.LogRepository,
	graphRepo repository.GraphRepository,
	artRepo repository.ArtifactRepository,
	validate *validator.Validate,
) *RunsHandler {
	return &RunsHandler{
		runs:      runs,
		costs:     costs,
		logRepo:   logRepo,
		graphRepo: graphRepo,
		artRepo:   artRepo,
		validate:  validate,
	}
}

// List returns a page of a project's runs, newest first.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
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
	page, limit := pagination(r)

	runs, total, err := h.runs.ListRuns(r.Context(), projectID, id.UserID, page, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    runs,
		Meta: &types.Meta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages(total, limit),
		},
	})
}

// Create accepts a run request and queues it. The stored run is always
// queued no matter what status the caller suggests.
func (h *RunsHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req types.RunCreateRequest
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

	run, err := h.runs.CreateRun(r.Context(), id.UserID, &services.CreateRunInput{
		ProjectID:   projectID,
		Name:        req.Name,
		TriggerType: req.TriggerType,
		Config:      datatypes.JSONMap(req.Config),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondCreated(w, run)
}

func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	run, err := h.ownedRun(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, run)
}

// Cancel stops a queued or running run. Terminal runs conflict.
func (h *RunsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	runID, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	run, err := h.runs.CancelRun(r.Context(), runID, id.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, run)
}

// Logs returns the run's log entries in ascending event-timestamp order.
func (h *RunsHandler) Logs(w http.ResponseWriter, r *http.Request) {
	run, err := h.ownedRun(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	logs, err := h.logRepo.ListByRun(r.Context(), run.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, logs)
}

// Graph returns the run's current node/edge snapshot.
func (h *RunsHandler) Graph(w http.ResponseWriter, r *http.Request) {
	run, err := h.ownedRun(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	g, err := h.graphRepo.Snapshot(r.Context(), run.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, g)
}

// UpdateGraph upserts nodes and appends edges reported by the executor.
// Edge endpoints are not validated against existing nodes; producers may
// report edges before the nodes they reference.
func (h *RunsHandler) UpdateGraph(w http.ResponseWriter, r *http.Request) {
	run, err := h.ownedRun(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req types.GraphUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, appErr.Invalid("validation failed", validators.Violations(err)...))
		return
	}

	for i := range req.Nodes {
		n := &req.Nodes[i]
		node := &models.GraphNode{
			RunID:     run.ID,
			NodeID:    n.NodeID,
			Label:     n.Label,
			Type:      n.Type,
			Status:    n.Status,
			PositionX: n.PositionX,
			PositionY: n.PositionY,
			Metadata:  datatypes.JSONMap(n.Metadata),
		}
		if node.Status == "" {
			node.Status = models.NodeStatusPending
		}
		if err := h.graphRepo.UpsertNode(r.Context(), node); err != nil {
			respondError(w, r, err)
			return
		}
	}
	for i := range req.Edges {
		e := &req.Edges[i]
		edge := &models.GraphEdge{
			RunID:        run.ID,
			SourceNodeID: e.SourceNodeID,
			TargetNodeID: e.TargetNodeID,
			Label:        e.Label,
			Type:         e.Type,
			Metadata:     datatypes.JSONMap(e.Metadata),
		}
		if err := h.graphRepo.CreateEdge(r.Context(), edge); err != nil {
			respondError(w, r, err)
			return
		}
	}

	g, err := h.graphRepo.Snapshot(r.Context(), run.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, g)
}

// Costs lists the run's cost events in event order.
func (h *RunsHandler) Costs(w http.ResponseWriter, r *http.Request) {
	run, err := h.ownedRun(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	costs, err := h.costs.ListByRun(r.Context(), run.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, costs)
}

// CostSummary aggregates total spend, total tokens and the per
// service+model breakdown for one run.
func (h *RunsHandler) CostSummary(w http.ResponseWriter, r *http.Request) {
	run, err := h.ownedRun(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	summary, err := h.costs.Summarize(r.Context(), run.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, summary)
}

// Artifacts lists outputs attached to a run, newest first.
func (h *RunsHandler) Artifacts(w http.ResponseWriter, r *http.Request) {
	run, err := h.ownedRun(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	artifacts, err := h.artRepo.ListByRun(r.Context(), run.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, artifacts)
}

// CreateArtifact registers an output reference produced by the run.
func (h *RunsHandler) CreateArtifact(w http.ResponseWriter, r *http.Request) {
	run, err := h.ownedRun(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req types.ArtifactCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, appErr.Invalid("validation failed", validators.Violations(err)...))
		return
	}

	artifact := &models.Artifact{
		RunID:       run.ID,
		ProjectID:   run.ProjectID,
		Name:        req.Name,
		Type:        req.Type,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		StoragePath: req.StoragePath,
		Metadata:    datatypes.JSONMap(req.Metadata),
	}
	if err := h.artRepo.Create(r.Context(), artifact); err != nil {
		respondError(w, r, err)
		return
	}
	respondCreated(w, artifact)
}

// CreateCost records one cost event against the run.
func (h *RunsHandler) CreateCost(w http.ResponseWriter, r *http.Request) {
	run, err := h.ownedRun(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req types.CostCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	// projectId and runId come from the URL context here, not the body.
	req.ProjectID = run.ProjectID.String()
	req.RunID = run.ID.String()
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, appErr.Invalid("validation failed", validators.Violations(err)...))
		return
	}

	ts := time.Now().UTC()
	if req.Timestamp != nil {
		ts = req.Timestamp.UTC()
	}
	cost := &models.Cost{
		ProjectID:    run.ProjectID,
		RunID:        &run.ID,
		Service:      req.Service,
		Operation:    req.Operation,
		Model:        req.Model,
		TokensInput:  req.TokensInput,
		TokensOutput: req.TokensOutput,
		CostUSD:      req.CostUSD,
		Metadata:     datatypes.JSONMap(req.Metadata),
		Timestamp:    ts,
	}
	if err := h.costs.RecordCost(r.Context(), cost); err != nil {
		respondError(w, r, err)
		return
	}
	respondCreated(w, cost)
}

// CreateLog appends one log entry to the run.
func (h *RunsHandler) CreateLog(w http.ResponseWriter, r *http.Request) {
	run, err := h.ownedRun(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req types.LogCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	req.ProjectID = run.ProjectID.String()
	req.RunID = run.ID.String()
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, appErr.Invalid("validation failed", validators.Violations(err)...))
		return
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
		ProjectID: run.ProjectID,
		RunID:     &run.ID,
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

// ownedRun resolves {id} and enforces that the caller owns the run's
// project. Foreign runs read as not found.
func (h *RunsHandler) ownedRun(r *http.Request) (*models.Run, error) {
	id, err := identity(r)
	if err != nil {
		return nil, err
	}
	runID, err := uuidParam(r, "id")
	if err != nil {
		return nil, err
	}
	return h.runs.GetRun(r.Context(), runID, id.UserID)
}
