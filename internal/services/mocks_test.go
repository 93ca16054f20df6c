package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"

	"github.com/langchain-flow/engine/internal/models"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, obj *models.User) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id any, dest *models.User) error {
	args := m.Called(ctx, id, dest)
	if len(args) > 1 {
		if u, ok := args.Get(1).(*models.User); ok && args.Error(0) == nil {
			*dest = *u
		}
	}
	return args.Error(0)
}

func (m *mockUserRepo) Update(ctx context.Context, obj *models.User) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id any) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string, dest *models.User) error {
	args := m.Called(ctx, username, dest)
	if len(args) > 1 {
		if u, ok := args.Get(1).(*models.User); ok && args.Error(0) == nil {
			*dest = *u
		}
	}
	return args.Error(0)
}

type mockProjectRepo struct {
	mock.Mock
}

func (m *mockProjectRepo) Create(ctx context.Context, obj *models.Project) error {
	args := m.Called(ctx, obj)
	if args.Error(0) == nil && obj.ID == uuid.Nil {
		obj.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id any, dest *models.Project) error {
	args := m.Called(ctx, id, dest)
	if len(args) > 1 {
		if p, ok := args.Get(1).(*models.Project); ok && args.Error(0) == nil {
			*dest = *p
		}
	}
	return args.Error(0)
}

func (m *mockProjectRepo) Update(ctx context.Context, obj *models.Project) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *mockProjectRepo) Delete(ctx context.Context, id any) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProjectRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	args := m.Called(ctx, ownerID)
	out, _ := args.Get(0).([]models.Project)
	return out, args.Error(1)
}

func (m *mockProjectRepo) SetStatus(ctx context.Context, projectID uuid.UUID, status string) error {
	return m.Called(ctx, projectID, status).Error(0)
}

type mockRunRepo struct {
	mock.Mock
}

func (m *mockRunRepo) Create(ctx context.Context, obj *models.Run) error {
	args := m.Called(ctx, obj)
	if args.Error(0) == nil && obj.ID == uuid.Nil {
		obj.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockRunRepo) GetByID(ctx context.Context, id any, dest *models.Run) error {
	args := m.Called(ctx, id, dest)
	if len(args) > 1 {
		if r, ok := args.Get(1).(*models.Run); ok && args.Error(0) == nil {
			*dest = *r
		}
	}
	return args.Error(0)
}

func (m *mockRunRepo) Update(ctx context.Context, obj *models.Run) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *mockRunRepo) Delete(ctx context.Context, id any) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRunRepo) ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]models.Run, error) {
	args := m.Called(ctx, projectID, limit, offset)
	out, _ := args.Get(0).([]models.Run)
	return out, args.Error(1)
}

func (m *mockRunRepo) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRunRepo) UpdateStatus(ctx context.Context, runID uuid.UUID, status string) error {
	return m.Called(ctx, runID, status).Error(0)
}

func (m *mockRunRepo) MarkStarted(ctx context.Context, runID uuid.UUID) error {
	return m.Called(ctx, runID).Error(0)
}

func (m *mockRunRepo) MarkFinished(ctx context.Context, runID uuid.UUID, status string) error {
	return m.Called(ctx, runID, status).Error(0)
}

type mockCostRepo struct {
	mock.Mock
}

func (m *mockCostRepo) Create(ctx context.Context, obj *models.Cost) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *mockCostRepo) GetByID(ctx context.Context, id any, dest *models.Cost) error {
	return m.Called(ctx, id, dest).Error(0)
}

func (m *mockCostRepo) Update(ctx context.Context, obj *models.Cost) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *mockCostRepo) Delete(ctx context.Context, id any) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCostRepo) ListByRun(ctx context.Context, runID uuid.UUID) ([]models.Cost, error) {
	args := m.Called(ctx, runID)
	out, _ := args.Get(0).([]models.Cost)
	return out, args.Error(1)
}

func (m *mockCostRepo) ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]models.Cost, error) {
	args := m.Called(ctx, projectID, limit, offset)
	out, _ := args.Get(0).([]models.Cost)
	return out, args.Error(1)
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task)
	info, _ := args.Get(0).(*asynq.TaskInfo)
	return info, args.Error(1)
}
