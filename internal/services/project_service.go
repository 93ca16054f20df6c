package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/langchain-flow/engine/internal/models"
	"github.com/langchain-flow/engine/internal/repository"
	appErr "github.com/langchain-flow/engine/pkg/errors"
	"github.com/langchain-flow/engine/pkg/logger"
)

// ProjectService owns project CRUD and the ownership checks every
// project-scoped resource goes through.
type ProjectService interface {
	CreateProject(ctx context.Context, ownerID uuid.UUID, input *CreateProjectInput) (*models.Project, error)
	GetProject(ctx context.Context, projectID, ownerID uuid.UUID) (*models.Project, error)
	ListProjects(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error)
	UpdateProject(ctx context.Context, projectID, ownerID uuid.UUID, updates *UpdateProjectInput) (*models.Project, error)
	// DeleteProject flips the status flag; rows are never physically removed.
	DeleteProject(ctx context.Context, projectID, ownerID uuid.UUID) error
	// RequireOwned loads the project and rejects callers who do not own it.
	RequireOwned(ctx context.Context, projectID, ownerID uuid.UUID) (*models.Project, error)
}

type CreateProjectInput struct {
	Name        string
	Description string
	GithubRepo  string
}

type UpdateProjectInput struct {
	Name        *string
	Description *string
	GithubRepo  *string
	Status      *string
}

type projectService struct {
	projectRepo repository.ProjectRepository
}

func NewProjectService(projectRepo repository.ProjectRepository) ProjectService {
	return &projectService{projectRepo: projectRepo}
}

var _ ProjectService = (*projectService)(nil)

func (s *projectService) CreateProject(ctx context.Context, ownerID uuid.UUID, input *CreateProjectInput) (*models.Project, error) {
	p := &models.Project{
		OwnerID:     ownerID,
		Name:        input.Name,
		Description: input.Description,
		GithubRepo:  input.GithubRepo,
		Status:      models.ProjectStatusActive,
	}
	if err := s.projectRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	logger.L().Info("project created", zap.String("project_id", p.ID.String()), zap.String("owner_id", ownerID.String()))
	return p, nil
}

func (s *projectService) GetProject(ctx context.Context, projectID, ownerID uuid.UUID) (*models.Project, error) {
	return s.RequireOwned(ctx, projectID, ownerID)
}

func (s *projectService) ListProjects(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	return s.projectRepo.ListByOwner(ctx, ownerID)
}

func (s *projectService) UpdateProject(ctx context.Context, projectID, ownerID uuid.UUID, updates *UpdateProjectInput) (*models.Project, error) {
	p, err := s.RequireOwned(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}
	if updates.Name != nil {
		p.Name = *updates.Name
	}
	if updates.Description != nil {
		p.Description = *updates.Description
	}
	if updates.GithubRepo != nil {
		p.GithubRepo = *updates.GithubRepo
	}
	if updates.Status != nil {
		p.Status = *updates.Status
	}
	if err := s.projectRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	logger.L().Info("project updated", zap.String("project_id", projectID.String()))
	return p, nil
}

func (s *projectService) DeleteProject(ctx context.Context, projectID, ownerID uuid.UUID) error {
	if _, err := s.RequireOwned(ctx, projectID, ownerID); err != nil {
		return err
	}
	if err := s.projectRepo.SetStatus(ctx, projectID, models.ProjectStatusDeleted); err != nil {
		return err
	}
	logger.L().Info("project deleted", zap.String("project_id", projectID.String()))
	return nil
}

func (s *projectService) RequireOwned(ctx context.Context, projectID, ownerID uuid.UUID) (*models.Project, error) {
	var p models.Project
	if err := s.projectRepo.GetByID(ctx, projectID, &p); err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		// Indistinguishable from a missing project on purpose.
		return nil, appErr.New(appErr.CodeNotFound, "project not found")
	}
	return &p, nil
}
