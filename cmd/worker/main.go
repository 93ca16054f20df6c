package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/langchain-flow/engine/internal/queue/tasks"
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

	// Fail fast when the broker is unreachable instead of letting asynq
	// retry forever in the background.
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}
	_ = rdb.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		},
		asynq.Config{
			Concurrency: cfg.AsynqConcurrency,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	handler := tasks.NewRunTaskHandler(
		repository.NewRunRepository(db),
		repository.NewLogRepository(db),
		repository.NewGraphRepository(db),
		repository.NewCostRepository(db),
		repository.NewArtifactRepository(db),
		tasks.NoopExecutor{},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeRunExecute, handler.HandleRunExecute)

	go func() {
		log.Info("worker starting", zap.Int("concurrency", cfg.AsynqConcurrency))
		if err := srv.Run(mux); err != nil {
			log.Fatal("worker failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	srv.Shutdown()
	log.Info("stopped")
}
