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

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/boosteam/boosteam-api/internal/app"
	"github.com/boosteam/boosteam-api/internal/auth"
	"github.com/boosteam/boosteam-api/internal/platform/cache"
	"github.com/boosteam/boosteam-api/internal/platform/db"
	"github.com/boosteam/boosteam-api/internal/rbac"
	"github.com/boosteam/boosteam-api/internal/roster"
	"github.com/boosteam/boosteam-api/internal/users"
	"github.com/boosteam/boosteam-api/jobs"
)

const shutdownTimeout = 10 * time.Second

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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if err := db.EnsureSchema(ctx, dbpool); err != nil {
		logger.Error("ensure schema", slog.Any("error", err))
		os.Exit(1)
	}

	rbacRepo := rbac.NewRepository(dbpool)
	seeded, err := rbac.NewBootstrap(rbacRepo, logger, cfg.IsProduction()).Seed(ctx)
	if err != nil {
		logger.Error("seed rbac", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("rbac ready",
		slog.Int("permissions_created", seeded.PermissionsCreated),
		slog.Int("roles_created", seeded.RolesCreated))

	authRepo := auth.NewRepository(dbpool)

	var (
		recorder    auth.LoginRecorder
		jobClient   *jobs.Client
		inspector   *asynq.Inspector
		redisClient *redis.Client
	)
	switch cfg.LastLoginMode {
	case app.LastLoginQueue:
		redisClient, err = cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Error("connect redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
		jobClient = jobs.NewClient(redisOpts, logger)
		defer func() {
			if err := jobClient.Close(); err != nil {
				logger.Warn("asynq client close", slog.Any("error", err))
			}
		}()
		inspector = asynq.NewInspector(redisOpts)
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("asynq inspector close", slog.Any("error", err))
			}
		}()
		recorder = jobClient
	}

	rbacService := rbac.NewService(rbacRepo, logger)
	rbacMiddleware := rbac.Middleware{Logger: logger}

	authStack := app.NewAuthStack(app.AuthParams{
		Config:   cfg,
		Repo:     authRepo,
		Roles:    rbacService,
		Recorder: recorder,
		Logger:   logger,
	})
	authHandler := auth.NewHandler(logger, authStack.Service, authStack.Authenticator, rbacMiddleware)

	rosterService := roster.NewService(roster.NewRepository(dbpool), logger)
	rosterHandler := roster.NewHandler(logger, rosterService, rbacMiddleware)

	usersService := users.NewService(users.NewRepository(dbpool), rbacService, rosterService)
	usersHandler := users.NewHandler(logger, usersService, rbacMiddleware)

	var jobHandler *jobs.Handler
	if inspector != nil {
		jobHandler = jobs.NewHandler(inspector, logger)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		Authenticator: authStack.Authenticator,
		AuthHandler:   authHandler,
		RBACHandler:   rbac.NewHandler(logger, rbacService, rbacMiddleware),
		UsersHandler:  usersHandler,
		RosterHandler: rosterHandler,
		JobHandler:    jobHandler,
		RBAC:          rbacMiddleware,
		Ready:         readiness(dbpool, redisClient),
		AccessLog:     !cfg.IsProduction(),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("http server starting", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("http server shutting down")
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

// readiness pings postgres and, when the queue is enabled, redis.
func readiness(pool *pgxpool.Pool, redisClient *redis.Client) func(*http.Request) error {
	return func(r *http.Request) error {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			return db.Translate(err)
		}
		if redisClient == nil {
			return nil
		}
		return cache.Ping(ctx, redisClient)
	}
}
