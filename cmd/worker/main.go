package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/tasklane/tasklane/internal/app"
	"github.com/tasklane/tasklane/internal/auth"
	"github.com/tasklane/tasklane/internal/platform/db"
	"github.com/tasklane/tasklane/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	pruner := jobs.NewAuditPruner(auth.NewRepository(pool), logger)
	pruneTask, err := jobs.NewAuditPruneTask(jobs.AuditPrunePayload{OlderThan: cfg.AuditRetention})
	if err != nil {
		logger.Error("build prune task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeAuditPrune, Handler: pruner.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 4 * * *", Task: pruneTask, Options: []asynq.Option{asynq.Queue(jobs.QueueDefault)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started", slog.String("redis", cfg.RedisAddr))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker terminated", slog.Any("error", err))
		os.Exit(1)
	}
}
