package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tasklane/tasklane/internal/app"
	"github.com/tasklane/tasklane/internal/auth"
	"github.com/tasklane/tasklane/internal/items"
	"github.com/tasklane/tasklane/internal/observability"
	"github.com/tasklane/tasklane/internal/platform/cache"
	"github.com/tasklane/tasklane/internal/platform/db"
	"github.com/tasklane/tasklane/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, login throttling disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	codec := auth.NewCodec(cfg.TokenSecret)
	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, codec, cfg.TokenTTL)
	throttle := auth.NewLoginThrottle(redisClient, cfg.LoginRateLimit, cfg.LoginRateWindow)
	authHandler := auth.NewHandler(logger, authService, throttle)
	authMiddleware := auth.Middleware{Service: authService, Logger: logger}

	usersHandler := users.NewHandler(logger)

	itemsRepo := items.NewRepository(pool)
	itemsService := items.NewService(itemsRepo)
	itemsHandler := items.NewHandler(logger, itemsService)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,
		UsersHandler:   usersHandler,
		ItemsHandler:   itemsHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server terminated", slog.Any("error", err))
		os.Exit(1)
	}
}
