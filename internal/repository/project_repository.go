package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/langchain-flow/engine/internal/models"
	appErr "github.com/langchain-flow/engine/pkg/errors"
)

type ProjectRepository interface {
	BaseRepository[models.Project]
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error)
	SetStatus(ctx context.Context, projectID uuid.UUID, status string) error
}

type projectRepository struct {
	BaseRepository[models.Project]
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{BaseRepository: NewBaseRepository[models.Project](db), db: db}
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	var out []models.Project
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status <> ?", ownerID, models.ProjectStatusDeleted).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list projects by owner failed")
	}
	return out, nil
}

// SetStatus flips the lifecycle flag; rows are never physically removed here.
func (r *projectRepository) SetStatus(ctx context.Context, projectID uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", projectID).Update("status", status)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "set project status failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "project not found")
	}
	return nil
}
