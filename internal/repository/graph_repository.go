package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/langchain-flow/engine/internal/models"
	appErr "github.com/langchain-flow/engine/pkg/errors"
)

type GraphRepository interface {
	// UpsertNode inserts the node or, if the (run, nodeId) pair exists,
	// refreshes its mutable fields. Workers report the same node repeatedly
	// as its status advances.
	UpsertNode(ctx context.Context, node *models.GraphNode) error
	CreateEdge(ctx context.Context, edge *models.GraphEdge) error
	Snapshot(ctx context.Context, runID uuid.UUID) (*models.Graph, error)
}

type graphRepository struct {
	db *gorm.DB
}

func NewGraphRepository(db *gorm.DB) GraphRepository {
	return &graphRepository{db: db}
}

func (r *graphRepository) UpsertNode(ctx context.Context, node *models.GraphNode) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "run_id"}, {Name: "node_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"label", "type", "status", "position_x", "position_y", "metadata", "updated_at",
		}),
	}).Create(node).Error
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "upsert graph node failed")
	}
	return nil
}

func (r *graphRepository) CreateEdge(ctx context.Context, edge *models.GraphEdge) error {
	if edge.Type == "" {
		edge.Type = "default"
	}
	if err := r.db.WithContext(ctx).Create(edge).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "create graph edge failed")
	}
	return nil
}

func (r *graphRepository) Snapshot(ctx context.Context, runID uuid.UUID) (*models.Graph, error) {
	g := &models.Graph{Nodes: []models.GraphNode{}, Edges: []models.GraphEdge{}}
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("created_at ASC").
		Find(&g.Nodes).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list graph nodes failed")
	}
	err = r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("created_at ASC").
		Find(&g.Edges).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list graph edges failed")
	}
	return g, nil
}
