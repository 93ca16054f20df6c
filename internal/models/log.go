package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// SourceInterTools tags log entries ingested through the widget service.
const SourceInterTools = "intertools"

// Log is an append-only log entry. Timestamp is the event time and is
// independent of CreatedAt; listings order by it.
type Log struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID uuid.UUID         `gorm:"type:uuid;index;not null" json:"projectId" validate:"required"`
	RunID     *uuid.UUID        `gorm:"type:uuid;index" json:"runId,omitempty"`
	Level     string            `gorm:"type:varchar(16);not null;default:info" json:"level" validate:"required,oneof=debug info warn error"`
	Message   string            `gorm:"type:text;not null" json:"message" validate:"required,min=1,max=10000"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
	Source    string            `gorm:"type:varchar(128);index;not null" json:"source" validate:"required,min=1"`
	Timestamp time.Time         `gorm:"index;not null" json:"timestamp"`
	CreatedAt time.Time         `json:"createdAt"`
}
