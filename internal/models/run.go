package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Run statuses. Runs are created queued; the worker drives them to a
// terminal status.
const (
	RunStatusQueued    = "queued"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
	RunStatusCancelled = "cancelled"
)

// Run trigger types.
const (
	TriggerManual    = "manual"
	TriggerWebhook   = "webhook"
	TriggerScheduled = "scheduled"
)

// Run is one execution instance of a project's workflow.
type Run struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID   uuid.UUID         `gorm:"type:uuid;index;not null" json:"projectId" validate:"required"`
	Name        string            `gorm:"not null" json:"name" validate:"required,min=1,max=255"`
	Status      string            `gorm:"type:varchar(32);index;not null;default:queued" json:"status" validate:"required,oneof=queued running completed failed cancelled"`
	TriggerType string            `gorm:"type:varchar(32);not null" json:"triggerType" validate:"required,oneof=manual webhook scheduled"`
	Config      datatypes.JSONMap `gorm:"type:jsonb" json:"config"`
	StartedAt   *time.Time        `json:"startedAt,omitempty"`
	CompletedAt *time.Time        `json:"completedAt,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`
}

// Terminal reports whether the run has reached a final status.
func (r *Run) Terminal() bool {
	switch r.Status {
	case RunStatusCompleted, RunStatusFailed, RunStatusCancelled:
		return true
	}
	return false
}
