package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/langchain-flow/engine/internal/models"
	appErr "github.com/langchain-flow/engine/pkg/errors"
)

type IntegrationRepository interface {
	BaseRepository[models.Integration]
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Integration, error)
}

type integrationRepository struct {
	BaseRepository[models.Integration]
	db *gorm.DB
}

func NewIntegrationRepository(db *gorm.DB) IntegrationRepository {
	return &integrationRepository{BaseRepository: NewBaseRepository[models.Integration](db), db: db}
}

func (r *integrationRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Integration, error) {
	var out []models.Integration
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list integrations failed")
	}
	return out, nil
}
