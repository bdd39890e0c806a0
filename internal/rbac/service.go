package rbac

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/boosteam/boosteam-api/internal/shared"
)

// Service orchestrates RBAC administration.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// ListRoles returns every role with its permissions.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// GetRole fetches a role by ID.
func (s *Service) GetRole(ctx context.Context, id int64) (Role, error) {
	return s.repo.GetRole(ctx, id)
}

// CreateRole inserts a new role. Every referenced permission must exist.
func (s *Service) CreateRole(ctx context.Context, input RoleInput) (Role, error) {
	input, err := s.normalizeRoleInput(ctx, input)
	if err != nil {
		return Role{}, err
	}
	role, err := s.repo.CreateRole(ctx, input)
	if err != nil {
		return Role{}, err
	}
	s.logger.Info("role created", slog.Int64("role_id", role.ID), slog.String("name", role.Name))
	return role, nil
}

// RoleUpdate carries optional role changes; nil fields keep the stored value.
type RoleUpdate struct {
	Name          *string
	Description   *string
	PermissionIDs []int64
	Permissions   bool
}

// UpdateRole applies a partial update.
func (s *Service) UpdateRole(ctx context.Context, id int64, update RoleUpdate) (Role, error) {
	current, err := s.repo.GetRole(ctx, id)
	if err != nil {
		return Role{}, err
	}
	input := RoleInput{Name: current.Name, Description: current.Description}
	for _, p := range current.Permissions {
		input.PermissionIDs = append(input.PermissionIDs, p.ID)
	}
	if update.Name != nil {
		input.Name = *update.Name
	}
	if update.Description != nil {
		input.Description = *update.Description
	}
	if update.Permissions {
		input.PermissionIDs = update.PermissionIDs
	}
	input, err = s.normalizeRoleInput(ctx, input)
	if err != nil {
		return Role{}, err
	}
	return s.repo.UpdateRole(ctx, id, input)
}

// DeleteRole removes a role that no user holds.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	holders, err := s.repo.CountUsersWithRole(ctx, id)
	if err != nil {
		return err
	}
	if holders > 0 {
		return shared.ErrRoleInUse
	}
	if err := s.repo.DeleteRole(ctx, id); err != nil {
		return err
	}
	s.logger.Info("role deleted", slog.Int64("role_id", id))
	return nil
}

// ListPermissions returns the permission registry.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.repo.ListPermissions(ctx)
}

// CreatePermission adds a registry entry at runtime.
func (s *Service) CreatePermission(ctx context.Context, spec PermissionSpec) (Permission, error) {
	spec.Action = Action(strings.ToLower(strings.TrimSpace(string(spec.Action))))
	spec.Resource = Resource(strings.ToLower(strings.TrimSpace(string(spec.Resource))))
	spec.Description = strings.TrimSpace(spec.Description)
	if !spec.Action.Valid() {
		return Permission{}, fmt.Errorf("%w: unsupported action %q", shared.ErrValidation, spec.Action)
	}
	if !spec.Resource.Valid() {
		return Permission{}, fmt.Errorf("%w: unsupported resource %q", shared.ErrValidation, spec.Resource)
	}
	if spec.Description == "" {
		return Permission{}, fmt.Errorf("%w: description required", shared.ErrValidation)
	}
	return s.repo.CreatePermission(ctx, spec)
}

// UserRoles returns the roles a user holds.
func (s *Service) UserRoles(ctx context.Context, userID int64) ([]Role, error) {
	return s.repo.UserRoles(ctx, userID)
}

// AssignRoles replaces a user's role set. Every role must exist.
func (s *Service) AssignRoles(ctx context.Context, userID int64, roleIDs []int64) ([]Role, error) {
	ids := uniqueIDs(roleIDs)
	if len(ids) > 0 {
		found, err := s.repo.CountRolesByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		if found != len(ids) {
			return nil, fmt.Errorf("%w: one or more roles not found", shared.ErrValidation)
		}
	}
	if err := s.repo.ReplaceUserRoles(ctx, userID, ids); err != nil {
		return nil, err
	}
	s.logger.Info("user roles assigned", slog.Int64("user_id", userID), slog.Int("roles", len(ids)))
	return s.repo.UserRoles(ctx, userID)
}

func (s *Service) normalizeRoleInput(ctx context.Context, input RoleInput) (RoleInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	if input.Name == "" {
		return input, fmt.Errorf("%w: role name required", shared.ErrValidation)
	}
	if input.Description == "" {
		return input, fmt.Errorf("%w: role description required", shared.ErrValidation)
	}
	input.PermissionIDs = uniqueIDs(input.PermissionIDs)
	if len(input.PermissionIDs) == 0 {
		return input, nil
	}
	found, err := s.repo.CountPermissionsByIDs(ctx, input.PermissionIDs)
	if err != nil {
		return input, err
	}
	if found != len(input.PermissionIDs) {
		return input, fmt.Errorf("%w: one or more permissions not found", shared.ErrValidation)
	}
	return input, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
