package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Graph node types and statuses.
const (
	NodeTypeTool     = "tool"
	NodeTypeLLM      = "llm"
	NodeTypeDecision = "decision"
	NodeTypeData     = "data"

	NodeStatusPending   = "pending"
	NodeStatusRunning   = "running"
	NodeStatusCompleted = "completed"
	NodeStatusFailed    = "failed"
)

// GraphNode is one step of a run's execution graph. NodeID is assigned by
// the producer (worker/executor) and is what edges reference, not the row id.
type GraphNode struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RunID     uuid.UUID         `gorm:"type:uuid;index:idx_graph_nodes_run_node,unique;not null" json:"runId" validate:"required"`
	NodeID    string            `gorm:"index:idx_graph_nodes_run_node,unique;not null" json:"nodeId" validate:"required,min=1"`
	Label     string            `gorm:"not null" json:"label" validate:"required,min=1"`
	Type      string            `gorm:"type:varchar(32);not null" json:"type" validate:"required,oneof=tool llm decision data"`
	Status    string            `gorm:"type:varchar(32);not null;default:pending" json:"status" validate:"required,oneof=pending running completed failed"`
	PositionX *float64          `json:"positionX,omitempty"`
	PositionY *float64          `json:"positionY,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// GraphEdge is a transition between two nodes of the same run, keyed by the
// node-level ids. Endpoint existence is not enforced at this layer.
type GraphEdge struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RunID        uuid.UUID         `gorm:"type:uuid;index;not null" json:"runId" validate:"required"`
	SourceNodeID string            `gorm:"not null" json:"sourceNodeId" validate:"required,min=1"`
	TargetNodeID string            `gorm:"not null" json:"targetNodeId" validate:"required,min=1"`
	Label        string            `json:"label,omitempty"`
	Type         string            `gorm:"type:varchar(64);not null;default:default" json:"type"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// Graph is a snapshot of a run's nodes and edges.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// DanglingEdges returns the edges whose source or target node id is not
// present among the snapshot's nodes. Callers may treat a non-empty result
// as a warning; handlers do not reject on it.
func (g *Graph) DanglingEdges() []GraphEdge {
	known := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		known[n.NodeID] = struct{}{}
	}
	var out []GraphEdge
	for _, e := range g.Edges {
		if _, ok := known[e.SourceNodeID]; !ok {
			out = append(out, e)
			continue
		}
		if _, ok := known[e.TargetNodeID]; !ok {
			out = append(out, e)
		}
	}
	return out
}
