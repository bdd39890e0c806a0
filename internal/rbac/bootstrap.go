package rbac

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrResetDisabled is returned when Reset runs against a production deployment.
var ErrResetDisabled = errors.New("rbac: reset disabled in production")

// SeedResult reports what a Seed or Reset run created.
type SeedResult struct {
	PermissionsCreated int
	RolesCreated       int
}

// Bootstrap installs the default permission registry and roles.
type Bootstrap struct {
	repo       Repository
	logger     *slog.Logger
	production bool
}

// NewBootstrap constructs a Bootstrap. Production bootstraps refuse Reset.
func NewBootstrap(repo Repository, logger *slog.Logger, production bool) *Bootstrap {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bootstrap{repo: repo, logger: logger, production: production}
}

// Seed creates the registry when no permission exists and the default roles
// when no role exists. Each kind is checked independently and the whole run
// is a single transaction, so a second call is a no-op.
func (b *Bootstrap) Seed(ctx context.Context) (SeedResult, error) {
	var result SeedResult
	err := b.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		var err error
		result, err = b.seed(ctx, tx)
		return err
	})
	if err != nil {
		return SeedResult{}, err
	}
	return result, nil
}

// Reset deletes every role, permission and role assignment, then seeds again.
func (b *Bootstrap) Reset(ctx context.Context) (SeedResult, error) {
	if b.production {
		return SeedResult{}, ErrResetDisabled
	}
	var result SeedResult
	err := b.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		if err := tx.DeleteAllRoles(ctx); err != nil {
			return fmt.Errorf("delete roles: %w", err)
		}
		if err := tx.DeleteAllPermissions(ctx); err != nil {
			return fmt.Errorf("delete permissions: %w", err)
		}
		b.logger.Warn("rbac reset: roles, permissions and assignments removed")
		var err error
		result, err = b.seed(ctx, tx)
		return err
	})
	if err != nil {
		return SeedResult{}, err
	}
	return result, nil
}

func (b *Bootstrap) seed(ctx context.Context, tx Repository) (SeedResult, error) {
	var result SeedResult

	permCount, err := tx.CountPermissions(ctx)
	if err != nil {
		return result, fmt.Errorf("count permissions: %w", err)
	}
	if permCount == 0 {
		b.logger.Info("creating default permissions")
		for _, spec := range Catalog() {
			if _, err := tx.CreatePermission(ctx, spec); err != nil {
				return result, fmt.Errorf("create permission %s: %w", spec.Grant(), err)
			}
			result.PermissionsCreated++
		}
		b.logger.Info("permissions created", slog.Int("count", result.PermissionsCreated))
	}

	roleCount, err := tx.CountRoles(ctx)
	if err != nil {
		return result, fmt.Errorf("count roles: %w", err)
	}
	if roleCount > 0 {
		return result, nil
	}

	perms, err := tx.ListPermissions(ctx)
	if err != nil {
		return result, fmt.Errorf("list permissions: %w", err)
	}
	b.logger.Info("creating default roles")
	for _, spec := range DefaultRoles() {
		role, err := tx.CreateRole(ctx, RoleInput{
			Name:          spec.Name,
			Description:   spec.Description,
			PermissionIDs: spec.Select(perms),
		})
		if err != nil {
			return result, fmt.Errorf("create role %s: %w", spec.Name, err)
		}
		result.RolesCreated++
		b.logger.Info("role created", slog.String("name", role.Name), slog.Int("permissions", len(role.Permissions)))
	}
	return result, nil
}
