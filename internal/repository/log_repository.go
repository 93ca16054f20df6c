package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/langchain-flow/engine/internal/models"
	appErr "github.com/langchain-flow/engine/pkg/errors"
)

type LogRepository interface {
	BaseRepository[models.Log]
	// ListByRun returns entries in ascending event-timestamp order,
	// independent of insertion order.
	ListByRun(ctx context.Context, runID uuid.UUID) ([]models.Log, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]models.Log, error)
	// ListBySource returns the newest entries first, for the InterTools
	// debugging endpoint.
	ListBySource(ctx context.Context, projectID uuid.UUID, source string, limit int) ([]models.Log, error)
}

type logRepository struct {
	BaseRepository[models.Log]
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) LogRepository {
	return &logRepository{BaseRepository: NewBaseRepository[models.Log](db), db: db}
}

func (r *logRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]models.Log, error) {
	var out []models.Log
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("timestamp ASC").
		Find(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list run logs failed")
	}
	return out, nil
}

func (r *logRepository) ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]models.Log, error) {
	var out []models.Log
	q := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list project logs failed")
	}
	return out, nil
}

func (r *logRepository) ListBySource(ctx context.Context, projectID uuid.UUID, source string, limit int) ([]models.Log, error) {
	var out []models.Log
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND source = ?", projectID, source).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list source logs failed")
	}
	return out, nil
}
