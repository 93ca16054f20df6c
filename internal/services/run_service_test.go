package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/langchain-flow/engine/internal/models"
	appErr "github.com/langchain-flow/engine/pkg/errors"
)

func ownedProject(projectRepo *mockProjectRepo, projectID, ownerID uuid.UUID) {
	projectRepo.On("GetByID", mock.Anything, projectID, mock.Anything).
		Return(nil, &models.Project{ID: projectID, OwnerID: ownerID, Status: models.ProjectStatusActive})
}

func TestCreateRunIsAlwaysQueued(t *testing.T) {
	ownerID := uuid.New()
	projectID := uuid.New()

	projectRepo := new(mockProjectRepo)
	ownedProject(projectRepo, projectID, ownerID)

	runRepo := new(mockRunRepo)
	runRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Run) bool {
		return r.Status == models.RunStatusQueued && r.ProjectID == projectID
	})).Return(nil)

	queue := new(mockEnqueuer)
	queue.On("EnqueueContext", mock.Anything, mock.Anything).Return(nil, nil)

	svc := NewRunService(runRepo, NewProjectService(projectRepo), queue)
	run, err := svc.CreateRun(context.Background(), ownerID, &CreateRunInput{
		ProjectID:   projectID,
		Name:        "nightly build",
		TriggerType: models.TriggerManual,
	})
	require.NoError(t, err)
	require.Equal(t, models.RunStatusQueued, run.Status)
	require.Nil(t, run.StartedAt)

	runRepo.AssertExpectations(t)
	queue.AssertExpectations(t)
}

func TestCreateRunEnqueueFailureMarksRunFailed(t *testing.T) {
	ownerID := uuid.New()
	projectID := uuid.New()

	projectRepo := new(mockProjectRepo)
	ownedProject(projectRepo, projectID, ownerID)

	runRepo := new(mockRunRepo)
	runRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	runRepo.On("MarkFinished", mock.Anything, mock.Anything, models.RunStatusFailed).Return(nil)

	queue := new(mockEnqueuer)
	queue.On("EnqueueContext", mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))

	svc := NewRunService(runRepo, NewProjectService(projectRepo), queue)
	_, err := svc.CreateRun(context.Background(), ownerID, &CreateRunInput{
		ProjectID:   projectID,
		Name:        "nightly build",
		TriggerType: models.TriggerManual,
	})
	require.Error(t, err)
	require.True(t, appErr.IsCode(err, appErr.CodeUnavailable))
	runRepo.AssertExpectations(t)
}

func TestCreateRunForeignProjectReadsAsNotFound(t *testing.T) {
	ownerID := uuid.New()
	projectID := uuid.New()

	projectRepo := new(mockProjectRepo)
	// Owned by someone else.
	projectRepo.On("GetByID", mock.Anything, projectID, mock.Anything).
		Return(nil, &models.Project{ID: projectID, OwnerID: uuid.New()})

	svc := NewRunService(new(mockRunRepo), NewProjectService(projectRepo), new(mockEnqueuer))
	_, err := svc.CreateRun(context.Background(), ownerID, &CreateRunInput{
		ProjectID: projectID,
		Name:      "probe",
	})
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestCancelRun(t *testing.T) {
	ownerID := uuid.New()
	projectID := uuid.New()
	runID := uuid.New()

	projectRepo := new(mockProjectRepo)
	ownedProject(projectRepo, projectID, ownerID)

	runRepo := new(mockRunRepo)
	runRepo.On("GetByID", mock.Anything, runID, mock.Anything).
		Return(nil, &models.Run{ID: runID, ProjectID: projectID, Status: models.RunStatusRunning})
	runRepo.On("MarkFinished", mock.Anything, runID, models.RunStatusCancelled).Return(nil)

	svc := NewRunService(runRepo, NewProjectService(projectRepo), new(mockEnqueuer))
	run, err := svc.CancelRun(context.Background(), runID, ownerID)
	require.NoError(t, err)
	require.Equal(t, models.RunStatusCancelled, run.Status)
	runRepo.AssertExpectations(t)
}

func TestCancelTerminalRunConflicts(t *testing.T) {
	ownerID := uuid.New()
	projectID := uuid.New()
	runID := uuid.New()
	done := time.Now()

	projectRepo := new(mockProjectRepo)
	ownedProject(projectRepo, projectID, ownerID)

	runRepo := new(mockRunRepo)
	runRepo.On("GetByID", mock.Anything, runID, mock.Anything).
		Return(nil, &models.Run{ID: runID, ProjectID: projectID, Status: models.RunStatusCompleted, CompletedAt: &done})

	svc := NewRunService(runRepo, NewProjectService(projectRepo), new(mockEnqueuer))
	_, err := svc.CancelRun(context.Background(), runID, ownerID)
	require.True(t, appErr.IsCode(err, appErr.CodeConflict))
	runRepo.AssertNotCalled(t, "MarkFinished", mock.Anything, mock.Anything, mock.Anything)
}

func TestListRunsPaginates(t *testing.T) {
	ownerID := uuid.New()
	projectID := uuid.New()

	projectRepo := new(mockProjectRepo)
	ownedProject(projectRepo, projectID, ownerID)

	runRepo := new(mockRunRepo)
	runRepo.On("CountByProject", mock.Anything, projectID).Return(int64(45), nil)
	runRepo.On("ListByProject", mock.Anything, projectID, 20, 20).
		Return([]models.Run{{ProjectID: projectID}}, nil)

	svc := NewRunService(runRepo, NewProjectService(projectRepo), new(mockEnqueuer))
	runs, total, err := svc.ListRuns(context.Background(), projectID, ownerID, 2, 20)
	require.NoError(t, err)
	require.Equal(t, int64(45), total)
	require.Len(t, runs, 1)
	runRepo.AssertExpectations(t)
}
