package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/langchain-flow/engine/internal/models"
	"github.com/langchain-flow/engine/pkg/database"
	appErr "github.com/langchain-flow/engine/pkg/errors"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("flow_test"),
		tcpostgres.WithUsername("flow"),
		tcpostgres.WithPassword("flow"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(ctx, dsn, false)
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Run{},
		&models.Log{},
		&models.GraphNode{},
		&models.GraphEdge{},
		&models.Cost{},
		&models.Artifact{},
		&models.Integration{},
	))
	return db
}

func TestUniqueUsernameSurfacesAsConflict(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)

	first := &models.User{Username: "ada", Email: "ada@example.com", PasswordHash: "x"}
	require.NoError(t, users.Create(ctx, first))

	dup := &models.User{Username: "ada", Email: "other@example.com", PasswordHash: "x"}
	err := users.Create(ctx, dup)
	require.Error(t, err)
	require.True(t, appErr.IsCode(err, appErr.CodeConflict))
}

func TestRunLogsOrderByEventTimestampNotInsertion(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	users := NewUserRepository(db)
	projects := NewProjectRepository(db)
	runs := NewRunRepository(db)
	logs := NewLogRepository(db)

	owner := &models.User{Username: "ada", Email: "ada@example.com", PasswordHash: "x"}
	require.NoError(t, users.Create(ctx, owner))

	project := &models.Project{OwnerID: owner.ID, Name: "flow", Status: models.ProjectStatusActive}
	require.NoError(t, projects.Create(ctx, project))

	run := &models.Run{ProjectID: project.ID, Name: "nightly", Status: models.RunStatusQueued, TriggerType: models.TriggerManual}
	require.NoError(t, runs.Create(ctx, run))

	base := time.Now().UTC().Truncate(time.Second)
	// Insert out of event order.
	for _, offset := range []time.Duration{2 * time.Second, 0, time.Second} {
		require.NoError(t, logs.Create(ctx, &models.Log{
			ProjectID: project.ID,
			RunID:     &run.ID,
			Level:     models.LogLevelInfo,
			Message:   offset.String(),
			Source:    "test",
			Timestamp: base.Add(offset),
		}))
	}

	got, err := logs.ListByRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.True(t, got[0].Timestamp.Before(got[1].Timestamp))
	require.True(t, got[1].Timestamp.Before(got[2].Timestamp))
}

func TestGraphNodeUpsertRefreshesStatus(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	users := NewUserRepository(db)
	projects := NewProjectRepository(db)
	runs := NewRunRepository(db)
	graph := NewGraphRepository(db)

	owner := &models.User{Username: "ada", Email: "ada@example.com", PasswordHash: "x"}
	require.NoError(t, users.Create(ctx, owner))
	project := &models.Project{OwnerID: owner.ID, Name: "flow", Status: models.ProjectStatusActive}
	require.NoError(t, projects.Create(ctx, project))
	run := &models.Run{ProjectID: project.ID, Name: "nightly", Status: models.RunStatusRunning, TriggerType: models.TriggerManual}
	require.NoError(t, runs.Create(ctx, run))

	require.NoError(t, graph.UpsertNode(ctx, &models.GraphNode{
		RunID: run.ID, NodeID: "step-1", Label: "fetch", Type: models.NodeTypeTool, Status: models.NodeStatusRunning,
	}))
	require.NoError(t, graph.UpsertNode(ctx, &models.GraphNode{
		RunID: run.ID, NodeID: "step-1", Label: "fetch", Type: models.NodeTypeTool, Status: models.NodeStatusCompleted,
	}))

	snapshot, err := graph.Snapshot(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, snapshot.Nodes, 1)
	require.Equal(t, models.NodeStatusCompleted, snapshot.Nodes[0].Status)
}

func TestProjectDeleteHidesFromListing(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	users := NewUserRepository(db)
	projects := NewProjectRepository(db)

	owner := &models.User{Username: "ada", Email: "ada@example.com", PasswordHash: "x"}
	require.NoError(t, users.Create(ctx, owner))

	keep := &models.Project{OwnerID: owner.ID, Name: "keep", Status: models.ProjectStatusActive}
	drop := &models.Project{OwnerID: owner.ID, Name: "drop", Status: models.ProjectStatusActive}
	require.NoError(t, projects.Create(ctx, keep))
	require.NoError(t, projects.Create(ctx, drop))

	require.NoError(t, projects.SetStatus(ctx, drop.ID, models.ProjectStatusDeleted))

	listed, err := projects.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "keep", listed[0].Name)

	// The row still exists; only the listing hides it.
	var raw models.Project
	require.NoError(t, projects.GetByID(ctx, drop.ID, &raw))
	require.Equal(t, models.ProjectStatusDeleted, raw.Status)
}
