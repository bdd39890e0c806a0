package rbac

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/boosteam/boosteam-api/internal/platform/db"
	"github.com/boosteam/boosteam-api/internal/shared"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
	q    querier
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool, q: pool}
}

// WithTx runs fn inside a transaction. Calls on a repository already bound
// to a transaction reuse it.
func (r *PGRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	if r.pool == nil {
		return fn(ctx, r)
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &PGRepository{q: tx})
	})
}

// ListPermissions returns the whole registry.
func (r *PGRepository) ListPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := r.q.Query(ctx, `SELECT id, action, resource, description FROM permissions ORDER BY id`)
	if err != nil {
		return nil, db.Translate(err)
	}
	defer rows.Close()
	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Action, &p.Resource, &p.Description); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// CountPermissions returns the registry size.
func (r *PGRepository) CountPermissions(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM permissions`)
}

// CountPermissionsByIDs counts how many of the ids exist.
func (r *PGRepository) CountPermissionsByIDs(ctx context.Context, ids []int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM permissions WHERE id = ANY($1)`, ids)
}

// CreatePermission inserts a registry entry.
func (r *PGRepository) CreatePermission(ctx context.Context, spec PermissionSpec) (Permission, error) {
	p := Permission{Action: spec.Action, Resource: spec.Resource, Description: spec.Description}
	err := r.q.QueryRow(ctx, `INSERT INTO permissions (action, resource, description)
VALUES ($1, $2, $3) RETURNING id`, spec.Action, spec.Resource, spec.Description).Scan(&p.ID)
	if err != nil {
		if _, ok := db.UniqueViolation(err); ok {
			return Permission{}, fmt.Errorf("%w: %s", shared.ErrDuplicatePermission, spec.Grant())
		}
		return Permission{}, db.Translate(err)
	}
	return p, nil
}

// DeleteAllPermissions empties the registry. Role links cascade.
func (r *PGRepository) DeleteAllPermissions(ctx context.Context) error {
	_, err := r.q.Exec(ctx, `DELETE FROM permissions`)
	return db.Translate(err)
}

// ListRoles returns every role with its permissions.
func (r *PGRepository) ListRoles(ctx context.Context) ([]Role, error) {
	return r.queryRoles(ctx, `SELECT id, name, description, created_at, updated_at FROM roles ORDER BY id`)
}

// GetRole fetches a role with its permissions.
func (r *PGRepository) GetRole(ctx context.Context, id int64) (Role, error) {
	roles, err := r.queryRoles(ctx, `SELECT id, name, description, created_at, updated_at FROM roles WHERE id = $1`, id)
	if err != nil {
		return Role{}, err
	}
	if len(roles) == 0 {
		return Role{}, fmt.Errorf("%w: role %d", shared.ErrNotFound, id)
	}
	return roles[0], nil
}

// CountRoles returns the number of roles.
func (r *PGRepository) CountRoles(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM roles`)
}

// CountRolesByIDs counts how many of the ids exist.
func (r *PGRepository) CountRolesByIDs(ctx context.Context, ids []int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM roles WHERE id = ANY($1)`, ids)
}

// CreateRole inserts a role and its permission links.
func (r *PGRepository) CreateRole(ctx context.Context, input RoleInput) (Role, error) {
	var id int64
	err := r.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		tx := repo.(*PGRepository)
		err := tx.q.QueryRow(ctx, `INSERT INTO roles (name, description) VALUES ($1, $2) RETURNING id`,
			input.Name, input.Description).Scan(&id)
		if err != nil {
			return translateRoleErr(err, input.Name)
		}
		return tx.linkPermissions(ctx, id, input.PermissionIDs)
	})
	if err != nil {
		return Role{}, err
	}
	return r.GetRole(ctx, id)
}

// UpdateRole replaces the attributes and permission links of a role.
func (r *PGRepository) UpdateRole(ctx context.Context, id int64, input RoleInput) (Role, error) {
	err := r.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		tx := repo.(*PGRepository)
		tag, err := tx.q.Exec(ctx, `UPDATE roles SET name = $2, description = $3, updated_at = NOW() WHERE id = $1`,
			id, input.Name, input.Description)
		if err != nil {
			return translateRoleErr(err, input.Name)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: role %d", shared.ErrNotFound, id)
		}
		if _, err := tx.q.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, id); err != nil {
			return db.Translate(err)
		}
		return tx.linkPermissions(ctx, id, input.PermissionIDs)
	})
	if err != nil {
		return Role{}, err
	}
	return r.GetRole(ctx, id)
}

// DeleteRole removes a role. The user_roles foreign key refuses the delete
// while any user still holds the role.
func (r *PGRepository) DeleteRole(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		if _, ok := db.ForeignKeyViolation(err); ok {
			return shared.ErrRoleInUse
		}
		return db.Translate(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: role %d", shared.ErrNotFound, id)
	}
	return nil
}

// DeleteAllRoles drops every role together with all user assignments.
func (r *PGRepository) DeleteAllRoles(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM user_roles`); err != nil {
		return db.Translate(err)
	}
	_, err := r.q.Exec(ctx, `DELETE FROM roles`)
	return db.Translate(err)
}

// UserRoles loads the roles held by a user with their permissions.
func (r *PGRepository) UserRoles(ctx context.Context, userID int64) ([]Role, error) {
	return r.queryRoles(ctx, `SELECT ro.id, ro.name, ro.description, ro.created_at, ro.updated_at
FROM roles ro
JOIN user_roles ur ON ur.role_id = ro.id
WHERE ur.user_id = $1
ORDER BY ro.id`, userID)
}

// CountUsersWithRole counts assignments of a role.
func (r *PGRepository) CountUsersWithRole(ctx context.Context, roleID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM user_roles WHERE role_id = $1`, roleID)
}

// ReplaceUserRoles swaps the complete role set of a user.
func (r *PGRepository) ReplaceUserRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	return r.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		tx := repo.(*PGRepository)
		var exists bool
		if err := tx.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
			return db.Translate(err)
		}
		if !exists {
			return fmt.Errorf("%w: user %d", shared.ErrNotFound, userID)
		}
		if _, err := tx.q.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
			return db.Translate(err)
		}
		_, err := tx.q.Exec(ctx, `INSERT INTO user_roles (user_id, role_id)
SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`, userID, roleIDs)
		return db.Translate(err)
	})
}

func (r *PGRepository) linkPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	if len(permissionIDs) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `INSERT INTO role_permissions (role_id, permission_id)
SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`, roleID, permissionIDs)
	if err != nil {
		if _, ok := db.ForeignKeyViolation(err); ok {
			return fmt.Errorf("%w: unknown permission id", shared.ErrValidation)
		}
		return db.Translate(err)
	}
	return nil
}

func (r *PGRepository) queryRoles(ctx context.Context, sql string, args ...any) ([]Role, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.Translate(err)
	}
	var roles []Role
	index := make(map[int64]int)
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		role.Permissions = []Permission{}
		index[role.ID] = len(roles)
		roles = append(roles, role)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return roles, nil
	}

	ids := make([]int64, 0, len(roles))
	for _, role := range roles {
		ids = append(ids, role.ID)
	}
	permRows, err := r.q.Query(ctx, `SELECT rp.role_id, p.id, p.action, p.resource, p.description
FROM role_permissions rp
JOIN permissions p ON p.id = rp.permission_id
WHERE rp.role_id = ANY($1)
ORDER BY p.id`, ids)
	if err != nil {
		return nil, db.Translate(err)
	}
	defer permRows.Close()
	for permRows.Next() {
		var roleID int64
		var p Permission
		if err := permRows.Scan(&roleID, &p.ID, &p.Action, &p.Resource, &p.Description); err != nil {
			return nil, err
		}
		i := index[roleID]
		roles[i].Permissions = append(roles[i].Permissions, p)
	}
	return roles, permRows.Err()
}

func (r *PGRepository) count(ctx context.Context, sql string, args ...any) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, db.Translate(err)
	}
	return n, nil
}

func translateRoleErr(err error, name string) error {
	if _, ok := db.UniqueViolation(err); ok {
		return fmt.Errorf("%w: %s", shared.ErrDuplicateRole, name)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	return db.Translate(err)
}
