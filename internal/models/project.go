package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project statuses. Projects are never physically deleted through the API;
// deletion is a status flag.
const (
	ProjectStatusActive   = "active"
	ProjectStatusArchived = "archived"
	ProjectStatusDeleted  = "deleted"
)

// Project is a workspace owned by exactly one user. Every run, log, cost,
// graph row and artifact belongs to a project, directly or via its run.
type Project struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OwnerID     uuid.UUID      `gorm:"type:uuid;index;not null" json:"ownerId" validate:"required"`
	Name        string         `gorm:"not null" json:"name" validate:"required,min=1,max=255"`
	Description string         `gorm:"type:text" json:"description,omitempty" validate:"max=1000"`
	GithubRepo  string         `gorm:"type:varchar(255)" json:"githubRepo,omitempty" validate:"max=255"`
	Status      string         `gorm:"type:varchar(32);index;not null;default:active" json:"status" validate:"required,oneof=active archived deleted"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
