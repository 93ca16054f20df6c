package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/langchain-flow/engine/internal/intertools"
	"github.com/langchain-flow/engine/internal/repository"
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

	svc := intertools.New(
		repository.NewLogRepository(db),
		repository.NewProjectRepository(db),
	)

	srv := &http.Server{
		Addr:    cfg.InterToolsAddr,
		Handler: svc.Router(),
	}

	go func() {
		log.Info("intertools listening", zap.String("addr", cfg.InterToolsAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown incomplete", zap.Error(err))
	}
	log.Info("stopped")
}
