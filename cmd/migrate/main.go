// Command migrate brings the database schema up to date. Safe to run
// repeatedly; AutoMigrate only adds what is missing.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/langchain-flow/engine/pkg/config"
	"github.com/langchain-flow/engine/pkg/database"
	"github.com/langchain-flow/engine/pkg/logger"
)

func main() {
	cfg := config.MustLoad()
	if _, err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseURL, cfg.Development())
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	if err := Run(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("schema up to date")
}
