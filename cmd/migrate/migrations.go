package main

import (
	"gorm.io/gorm"

	"github.com/langchain-flow/engine/internal/models"
)

// Run applies the schema. gen_random_uuid needs pgcrypto on Postgres
// versions before 13 shipped it in core.
func Run(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return err
	}
	return db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Run{},
		&models.Log{},
		&models.GraphNode{},
		&models.GraphEdge{},
		&models.Cost{},
		&models.Artifact{},
		&models.Integration{},
	)
}
