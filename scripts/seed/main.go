package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/boosteam/boosteam-api/internal/app"
	"github.com/boosteam/boosteam-api/internal/platform/db"
	"github.com/boosteam/boosteam-api/internal/rbac"
)

func main() {
	ctx := context.Background()

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

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Error("ensure schema", slog.Any("error", err))
		os.Exit(1)
	}

	bootstrap := rbac.NewBootstrap(rbac.NewRepository(pool), logger, cfg.IsProduction())

	run, name := bootstrap.Seed, "seed"
	if len(os.Args) > 1 && os.Args[1] == "reset" {
		run, name = bootstrap.Reset, "reset"
	}

	result, err := run(ctx)
	if err != nil {
		if errors.Is(err, rbac.ErrResetDisabled) {
			logger.Error("reset refused in production")
		} else {
			logger.Error(name+" rbac", slog.Any("error", err))
		}
		os.Exit(1)
	}
	logger.Info(name+" complete",
		slog.Int("permissions_created", result.PermissionsCreated),
		slog.Int("roles_created", result.RolesCreated))
}
