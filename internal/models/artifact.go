package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Artifact types.
const (
	ArtifactTypeHTML  = "html"
	ArtifactTypeJSON  = "json"
	ArtifactTypeImage = "image"
	ArtifactTypeCode  = "code"
	ArtifactTypeText  = "text"
)

// Artifact references an output produced by a run. The bytes themselves
// live in external storage at StoragePath.
type Artifact struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RunID       uuid.UUID         `gorm:"type:uuid;index;not null" json:"runId" validate:"required"`
	ProjectID   uuid.UUID         `gorm:"type:uuid;index;not null" json:"projectId" validate:"required"`
	Name        string            `gorm:"not null" json:"name" validate:"required,min=1"`
	Type        string            `gorm:"type:varchar(32);not null" json:"type" validate:"required,oneof=html json image code text"`
	ContentType string            `gorm:"type:varchar(128);not null" json:"contentType" validate:"required,min=1"`
	SizeBytes   int64             `gorm:"not null" json:"sizeBytes" validate:"gte=0"`
	StoragePath string            `gorm:"not null" json:"storagePath" validate:"required,min=1"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
	CreatedAt   time.Time         `json:"createdAt"`
}
