package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/langchain-flow/engine/internal/models"
	"github.com/langchain-flow/engine/internal/queue/tasks"
	"github.com/langchain-flow/engine/internal/repository"
	appErr "github.com/langchain-flow/engine/pkg/errors"
	"github.com/langchain-flow/engine/pkg/logger"
)

// TaskEnqueuer is the slice of *asynq.Client the run service needs.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RunService creates runs, hands them to the queue and handles cancellation.
// Every run is born queued regardless of what the caller sends.
type RunService interface {
	CreateRun(ctx context.Context, ownerID uuid.UUID, input *CreateRunInput) (*models.Run, error)
	GetRun(ctx context.Context, runID, ownerID uuid.UUID) (*models.Run, error)
	ListRuns(ctx context.Context, projectID, ownerID uuid.UUID, page, limit int) ([]models.Run, int64, error)
	CancelRun(ctx context.Context, runID, ownerID uuid.UUID) (*models.Run, error)
}

type CreateRunInput struct {
	ProjectID   uuid.UUID
	Name        string
	TriggerType string
	Config      datatypes.JSONMap
}

type runService struct {
	runRepo  repository.RunRepository
	projects ProjectService
	queue    TaskEnqueuer
}

func NewRunService(runRepo repository.RunRepository, projects ProjectService, queue TaskEnqueuer) RunService {
	return &runService{runRepo: runRepo, projects: projects, queue: queue}
}

var _ RunService = (*runService)(nil)

func (s *runService) CreateRun(ctx context.Context, ownerID uuid.UUID, input *CreateRunInput) (*models.Run, error) {
	if _, err := s.projects.RequireOwned(ctx, input.ProjectID, ownerID); err != nil {
		return nil, err
	}

	run := &models.Run{
		ProjectID:   input.ProjectID,
		Name:        input.Name,
		Status:      models.RunStatusQueued,
		TriggerType: input.TriggerType,
		Config:      input.Config,
	}
	if run.TriggerType == "" {
		run.TriggerType = models.TriggerManual
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		return nil, err
	}

	task, err := tasks.NewRunExecuteTask(run.ID)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "failed to build run task")
	}
	if s.queue != nil {
		if _, err := s.queue.EnqueueContext(ctx, task); err != nil {
			logger.L().Error("run enqueue failed", zap.String("run_id", run.ID.String()), zap.Error(err))
			if markErr := s.runRepo.MarkFinished(ctx, run.ID, models.RunStatusFailed); markErr != nil {
				logger.L().Error("failed to mark run failed after enqueue error", zap.Error(markErr))
			}
			return nil, appErr.Wrap(err, appErr.CodeUnavailable, "run could not be scheduled")
		}
	}

	logger.L().Info("run queued",
		zap.String("run_id", run.ID.String()),
		zap.String("project_id", run.ProjectID.String()),
		zap.String("trigger", run.TriggerType),
	)
	return run, nil
}

func (s *runService) GetRun(ctx context.Context, runID, ownerID uuid.UUID) (*models.Run, error) {
	var run models.Run
	if err := s.runRepo.GetByID(ctx, runID, &run); err != nil {
		return nil, err
	}
	if _, err := s.projects.RequireOwned(ctx, run.ProjectID, ownerID); err != nil {
		return nil, appErr.New(appErr.CodeNotFound, "run not found")
	}
	return &run, nil
}

func (s *runService) ListRuns(ctx context.Context, projectID, ownerID uuid.UUID, page, limit int) ([]models.Run, int64, error) {
	if _, err := s.projects.RequireOwned(ctx, projectID, ownerID); err != nil {
		return nil, 0, err
	}
	total, err := s.runRepo.CountByProject(ctx, projectID)
	if err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	runs, err := s.runRepo.ListByProject(ctx, projectID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}

func (s *runService) CancelRun(ctx context.Context, runID, ownerID uuid.UUID) (*models.Run, error) {
	run, err := s.GetRun(ctx, runID, ownerID)
	if err != nil {
		return nil, err
	}
	if run.Terminal() {
		return nil, appErr.New(appErr.CodeConflict, fmt.Sprintf("run is already %s", run.Status))
	}
	if err := s.runRepo.MarkFinished(ctx, run.ID, models.RunStatusCancelled); err != nil {
		return nil, err
	}
	run.Status = models.RunStatusCancelled
	logger.L().Info("run cancelled", zap.String("run_id", run.ID.String()))
	return run, nil
}
