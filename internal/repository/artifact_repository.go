package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/langchain-flow/engine/internal/models"
	appErr "github.com/langchain-flow/engine/pkg/errors"
)

type ArtifactRepository interface {
	BaseRepository[models.Artifact]
	ListByRun(ctx context.Context, runID uuid.UUID) ([]models.Artifact, error)
}

type artifactRepository struct {
	BaseRepository[models.Artifact]
	db *gorm.DB
}

func NewArtifactRepository(db *gorm.DB) ArtifactRepository {
	return &artifactRepository{BaseRepository: NewBaseRepository[models.Artifact](db), db: db}
}

func (r *artifactRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]models.Artifact, error) {
	var out []models.Artifact
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list run artifacts failed")
	}
	return out, nil
}
