package types

import "time"

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ProjectCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=1000"`
	GithubRepo  string `json:"githubRepo" validate:"max=255"`
}

type ProjectUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	GithubRepo  *string `json:"githubRepo" validate:"omitempty,max=255"`
	Status      *string `json:"status" validate:"omitempty,oneof=active archived deleted"`
}

type RunCreateRequest struct {
	ProjectID   string         `json:"projectId" validate:"required,uuid4"`
	Name        string         `json:"name" validate:"required,min=1,max=255"`
	TriggerType string         `json:"triggerType" validate:"required,oneof=manual webhook scheduled"`
	Config      map[string]any `json:"config"`
}

type LogCreateRequest struct {
	ProjectID string         `json:"projectId" validate:"required,uuid4"`
	RunID     string         `json:"runId" validate:"omitempty,uuid4"`
	Level     string         `json:"level" validate:"omitempty,oneof=debug info warn error"`
	Message   string         `json:"message" validate:"required,min=1,max=10000"`
	Metadata  map[string]any `json:"metadata"`
	Source    string         `json:"source" validate:"required,min=1"`
	Timestamp *time.Time     `json:"timestamp"`
}

type GraphNodeRequest struct {
	NodeID    string         `json:"nodeId" validate:"required,min=1"`
	Label     string         `json:"label" validate:"required,min=1"`
	Type      string         `json:"type" validate:"required,oneof=tool llm decision data"`
	Status    string         `json:"status" validate:"omitempty,oneof=pending running completed failed"`
	PositionX *float64       `json:"positionX"`
	PositionY *float64       `json:"positionY"`
	Metadata  map[string]any `json:"metadata"`
}

type GraphEdgeRequest struct {
	SourceNodeID string         `json:"sourceNodeId" validate:"required,min=1"`
	TargetNodeID string         `json:"targetNodeId" validate:"required,min=1"`
	Label        string         `json:"label"`
	Type         string         `json:"type"`
	Metadata     map[string]any `json:"metadata"`
}

// GraphUpdateRequest is the worker-facing snapshot append: nodes are
// upserted by (run, nodeId), edges are appended.
type GraphUpdateRequest struct {
	Nodes []GraphNodeRequest `json:"nodes" validate:"dive"`
	Edges []GraphEdgeRequest `json:"edges" validate:"dive"`
}

type CostCreateRequest struct {
	ProjectID    string         `json:"projectId" validate:"required,uuid4"`
	RunID        string         `json:"runId" validate:"omitempty,uuid4"`
	Service      string         `json:"service" validate:"required,min=1"`
	Operation    string         `json:"operation" validate:"required,min=1"`
	Model        string         `json:"model"`
	TokensInput  int64          `json:"tokensInput" validate:"gte=0"`
	TokensOutput int64          `json:"tokensOutput" validate:"gte=0"`
	CostUSD      float64        `json:"costUsd" validate:"gte=0"`
	Metadata     map[string]any `json:"metadata"`
	Timestamp    *time.Time     `json:"timestamp"`
}

type ArtifactCreateRequest struct {
	Name        string         `json:"name" validate:"required,min=1"`
	Type        string         `json:"type" validate:"required,oneof=html json image code text"`
	ContentType string         `json:"contentType" validate:"required,min=1"`
	SizeBytes   int64          `json:"sizeBytes" validate:"gte=0"`
	StoragePath string         `json:"storagePath" validate:"required,min=1"`
	Metadata    map[string]any `json:"metadata"`
}

type IntegrationCreateRequest struct {
	ProjectID   string         `json:"projectId" validate:"required,uuid4"`
	Type        string         `json:"type" validate:"required,oneof=github vercel openai anthropic custom"`
	Name        string         `json:"name" validate:"required,min=1,max=255"`
	Config      map[string]any `json:"config"`
	Credentials map[string]any `json:"credentials"`
}

type IntegrationUpdateRequest struct {
	Name        *string        `json:"name" validate:"omitempty,min=1,max=255"`
	Config      map[string]any `json:"config"`
	Credentials map[string]any `json:"credentials"`
	Status      *string        `json:"status" validate:"omitempty,oneof=active inactive error"`
}
