package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Integration types and statuses.
const (
	IntegrationGitHub    = "github"
	IntegrationVercel    = "vercel"
	IntegrationOpenAI    = "openai"
	IntegrationAnthropic = "anthropic"
	IntegrationCustom    = "custom"

	IntegrationStatusActive   = "active"
	IntegrationStatusInactive = "inactive"
	IntegrationStatusError    = "error"
)

// Integration connects a project to an external service. Credentials are
// stored but never serialized in responses.
type Integration struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID   uuid.UUID         `gorm:"type:uuid;index;not null" json:"projectId" validate:"required"`
	Type        string            `gorm:"type:varchar(32);not null" json:"type" validate:"required,oneof=github vercel openai anthropic custom"`
	Name        string            `gorm:"not null" json:"name" validate:"required,min=1,max=255"`
	Config      datatypes.JSONMap `gorm:"type:jsonb" json:"config"`
	Credentials datatypes.JSONMap `gorm:"type:jsonb" json:"-"`
	Status      string            `gorm:"type:varchar(32);not null;default:active" json:"status" validate:"required,oneof=active inactive error"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`
}
