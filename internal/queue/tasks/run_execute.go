package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/langchain-flow/engine/internal/models"
	"github.com/langchain-flow/engine/internal/repository"
	appErr "github.com/langchain-flow/engine/pkg/errors"
	"github.com/langchain-flow/engine/pkg/logger"
)

const TypeRunExecute = "run:execute"

type RunExecutePayload struct {
	RunID uuid.UUID `json:"run_id"`
}

// NewRunExecuteTask builds the queue task that moves a run from queued to
// running on the worker side.
func NewRunExecuteTask(runID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(RunExecutePayload{RunID: runID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRunExecute, payload, asynq.MaxRetry(3), asynq.Timeout(30*time.Minute)), nil
}

// ExecutionSink is where an Executor reports progress. Everything it writes
// lands in the run's log, graph, cost and artifact streams.
type ExecutionSink interface {
	AppendLog(ctx context.Context, log *models.Log) error
	UpsertNode(ctx context.Context, node *models.GraphNode) error
	AddEdge(ctx context.Context, edge *models.GraphEdge) error
	RecordCost(ctx context.Context, cost *models.Cost) error
	SaveArtifact(ctx context.Context, artifact *models.Artifact) error
}

// Executor runs the workflow behind a run. The real executors live outside
// this service; NoopExecutor is the in-repo stand-in.
type Executor interface {
	Execute(ctx context.Context, run *models.Run, sink ExecutionSink) error
}

// NoopExecutor completes every run immediately with a single log line.
type NoopExecutor struct{}

func (NoopExecutor) Execute(ctx context.Context, run *models.Run, sink ExecutionSink) error {
	return sink.AppendLog(ctx, &models.Log{
		ProjectID: run.ProjectID,
		RunID:     &run.ID,
		Level:     models.LogLevelInfo,
		Message:   "run accepted, no executor configured",
		Source:    "worker",
		Timestamp: time.Now().UTC(),
	})
}

type repoSink struct {
	logRepo      repository.LogRepository
	graphRepo    repository.GraphRepository
	costRepo     repository.CostRepository
	artifactRepo repository.ArtifactRepository
}

func (s *repoSink) AppendLog(ctx context.Context, log *models.Log) error {
	return s.logRepo.Create(ctx, log)
}

func (s *repoSink) UpsertNode(ctx context.Context, node *models.GraphNode) error {
	return s.graphRepo.UpsertNode(ctx, node)
}

func (s *repoSink) AddEdge(ctx context.Context, edge *models.GraphEdge) error {
	return s.graphRepo.CreateEdge(ctx, edge)
}

func (s *repoSink) RecordCost(ctx context.Context, cost *models.Cost) error {
	return s.costRepo.Create(ctx, cost)
}

func (s *repoSink) SaveArtifact(ctx context.Context, artifact *models.Artifact) error {
	return s.artifactRepo.Create(ctx, artifact)
}

// RunTaskHandler consumes run:execute tasks: marks the run running, hands it
// to the executor, then records the terminal status.
type RunTaskHandler struct {
	runRepo  repository.RunRepository
	executor Executor
	sink     ExecutionSink
}

func NewRunTaskHandler(
	runRepo repository.RunRepository,
	logRepo repository.LogRepository,
	graphRepo repository.GraphRepository,
	costRepo repository.CostRepository,
	artifactRepo repository.ArtifactRepository,
	executor Executor,
) *RunTaskHandler {
	return &RunTaskHandler{
		runRepo:  runRepo,
		executor: executor,
		sink: &repoSink{
			logRepo:      logRepo,
			graphRepo:    graphRepo,
			costRepo:     costRepo,
			artifactRepo: artifactRepo,
		},
	}
}

func (h *RunTaskHandler) HandleRunExecute(ctx context.Context, t *asynq.Task) error {
	var payload RunExecutePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal run:execute payload: %v: %w", err, asynq.SkipRetry)
	}
	log := logger.L().With(zap.String("run_id", payload.RunID.String()))

	var run models.Run
	if err := h.runRepo.GetByID(ctx, payload.RunID, &run); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			log.Warn("run vanished before execution")
			return fmt.Errorf("run not found: %w", asynq.SkipRetry)
		}
		return err
	}
	// The run may have been cancelled while sitting in the queue.
	if run.Status != models.RunStatusQueued {
		log.Info("skipping run in non-queued state", zap.String("status", run.Status))
		return nil
	}

	if err := h.runRepo.MarkStarted(ctx, run.ID); err != nil {
		return err
	}
	run.Status = models.RunStatusRunning
	log.Info("run started")

	if err := h.executor.Execute(ctx, &run, h.sink); err != nil {
		log.Error("run failed", zap.Error(err))
		_ = h.sink.AppendLog(ctx, &models.Log{
			ProjectID: run.ProjectID,
			RunID:     &run.ID,
			Level:     models.LogLevelError,
			Message:   err.Error(),
			Source:    "worker",
			Timestamp: time.Now().UTC(),
		})
		if markErr := h.runRepo.MarkFinished(ctx, run.ID, models.RunStatusFailed); markErr != nil {
			return markErr
		}
		// Execution errors are final; the run already carries the failure.
		return nil
	}

	if err := h.runRepo.MarkFinished(ctx, run.ID, models.RunStatusCompleted); err != nil {
		return err
	}
	log.Info("run completed")
	return nil
}
