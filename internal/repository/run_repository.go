package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/langchain-flow/engine/internal/models"
	appErr "github.com/langchain-flow/engine/pkg/errors"
)

type RunRepository interface {
	BaseRepository[models.Run]
	ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]models.Run, error)
	CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, runID uuid.UUID, status string) error
	MarkStarted(ctx context.Context, runID uuid.UUID) error
	MarkFinished(ctx context.Context, runID uuid.UUID, status string) error
}

type runRepository struct {
	BaseRepository[models.Run]
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) RunRepository {
	return &runRepository{BaseRepository: NewBaseRepository[models.Run](db), db: db}
}

func (r *runRepository) ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]models.Run, error) {
	var out []models.Run
	q := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list runs failed")
	}
	return out, nil
}

func (r *runRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Run{}).Where("project_id = ?", projectID).Count(&total).Error; err != nil {
		return 0, appErr.Wrap(err, appErr.CodeInternal, "count runs failed")
	}
	return total, nil
}

func (r *runRepository) UpdateStatus(ctx context.Context, runID uuid.UUID, status string) error {
	return r.updateColumns(ctx, runID, map[string]any{"status": status})
}

// MarkStarted moves a run to running and stamps started_at.
func (r *runRepository) MarkStarted(ctx context.Context, runID uuid.UUID) error {
	now := time.Now().UTC()
	return r.updateColumns(ctx, runID, map[string]any{
		"status":     models.RunStatusRunning,
		"started_at": &now,
	})
}

// MarkFinished moves a run to a terminal status and stamps completed_at.
func (r *runRepository) MarkFinished(ctx context.Context, runID uuid.UUID, status string) error {
	now := time.Now().UTC()
	return r.updateColumns(ctx, runID, map[string]any{
		"status":       status,
		"completed_at": &now,
	})
}

func (r *runRepository) updateColumns(ctx context.Context, runID uuid.UUID, cols map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Run{}).Where("id = ?", runID).Updates(cols)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "update run failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "run not found")
	}
	return nil
}
