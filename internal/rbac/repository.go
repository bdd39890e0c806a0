package rbac

import "context"

// Repository exposes persistence operations for roles, permissions and
// role assignments.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error

	ListPermissions(ctx context.Context) ([]Permission, error)
	CountPermissions(ctx context.Context) (int, error)
	CountPermissionsByIDs(ctx context.Context, ids []int64) (int, error)
	CreatePermission(ctx context.Context, spec PermissionSpec) (Permission, error)
	DeleteAllPermissions(ctx context.Context) error

	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id int64) (Role, error)
	CountRoles(ctx context.Context) (int, error)
	CountRolesByIDs(ctx context.Context, ids []int64) (int, error)
	CreateRole(ctx context.Context, input RoleInput) (Role, error)
	UpdateRole(ctx context.Context, id int64, input RoleInput) (Role, error)
	DeleteRole(ctx context.Context, id int64) error
	DeleteAllRoles(ctx context.Context) error

	UserRoles(ctx context.Context, userID int64) ([]Role, error)
	CountUsersWithRole(ctx context.Context, roleID int64) (int, error)
	ReplaceUserRoles(ctx context.Context, userID int64, roleIDs []int64) error
}

// RoleInput carries the writable role attributes.
type RoleInput struct {
	Name          string
	Description   string
	PermissionIDs []int64
}
