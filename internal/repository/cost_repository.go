package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/langchain-flow/engine/internal/models"
	appErr "github.com/langchain-flow/engine/pkg/errors"
)

type CostRepository interface {
	BaseRepository[models.Cost]
	ListByRun(ctx context.Context, runID uuid.UUID) ([]models.Cost, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]models.Cost, error)
}

type costRepository struct {
	BaseRepository[models.Cost]
	db *gorm.DB
}

func NewCostRepository(db *gorm.DB) CostRepository {
	return &costRepository{BaseRepository: NewBaseRepository[models.Cost](db), db: db}
}

func (r *costRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]models.Cost, error) {
	var out []models.Cost
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("timestamp ASC").
		Find(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list run costs failed")
	}
	return out, nil
}

func (r *costRepository) ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]models.Cost, error) {
	var out []models.Cost
	q := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list project costs failed")
	}
	return out, nil
}
