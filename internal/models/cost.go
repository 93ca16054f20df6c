package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Cost records token usage and USD cost of one LLM or service call.
// Timestamp is the event time, independent of row creation.
type Cost struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID    uuid.UUID         `gorm:"type:uuid;index;not null" json:"projectId" validate:"required"`
	RunID        *uuid.UUID        `gorm:"type:uuid;index" json:"runId,omitempty"`
	Service      string            `gorm:"type:varchar(128);not null" json:"service" validate:"required,min=1"`
	Operation    string            `gorm:"type:varchar(128);not null" json:"operation" validate:"required,min=1"`
	Model        string            `gorm:"type:varchar(128)" json:"model,omitempty"`
	TokensInput  int64             `gorm:"not null;default:0" json:"tokensInput" validate:"gte=0"`
	TokensOutput int64             `gorm:"not null;default:0" json:"tokensOutput" validate:"gte=0"`
	CostUSD      float64           `gorm:"not null" json:"costUsd" validate:"gte=0"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
	Timestamp    time.Time         `gorm:"index;not null" json:"timestamp"`
	CreatedAt    time.Time         `json:"createdAt"`
}
