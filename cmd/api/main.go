package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/langchain-flow/engine/internal/api"
	"github.com/langchain-flow/engine/internal/auth"
	"github.com/langchain-flow/engine/pkg/config"
	"github.com/langchain-flow/engine/pkg/database"
	"github.com/langchain-flow/engine/pkg/logger"
)

var version = "dev"

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

	queue := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer queue.Close()

	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.JWTExpiresIn, cfg.JWTRefreshExpiry)

	router := api.NewRouter(api.Dependencies{
		Config:  cfg,
		DB:      db,
		Tokens:  tokens,
		Queue:   queue,
		Version: version,
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.Info("api listening", zap.String("addr", cfg.HTTPAddr), zap.String("version", version))
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
