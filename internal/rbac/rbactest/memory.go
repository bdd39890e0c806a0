// Package rbactest provides an in-memory rbac.Repository for tests.
package rbactest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/boosteam/boosteam-api/internal/rbac"
	"github.com/boosteam/boosteam-api/internal/shared"
)

type roleRecord struct {
	id          int64
	name        string
	description string
	permIDs     []int64
	createdAt   time.Time
	updatedAt   time.Time
}

type state struct {
	perms     map[int64]rbac.Permission
	roles     map[int64]roleRecord
	userRoles map[int64][]int64
	nextPerm  int64
	nextRole  int64
}

func (s state) clone() state {
	c := state{
		perms:     make(map[int64]rbac.Permission, len(s.perms)),
		roles:     make(map[int64]roleRecord, len(s.roles)),
		userRoles: make(map[int64][]int64, len(s.userRoles)),
		nextPerm:  s.nextPerm,
		nextRole:  s.nextRole,
	}
	for k, v := range s.perms {
		c.perms[k] = v
	}
	for k, v := range s.roles {
		v.permIDs = append([]int64(nil), v.permIDs...)
		c.roles[k] = v
	}
	for k, v := range s.userRoles {
		c.userRoles[k] = append([]int64(nil), v...)
	}
	return c
}

// Repository is a goroutine-safe in-memory rbac.Repository. Users are
// implicit: AddUser registers an ID so role assignment can target it.
type Repository struct {
	mu    sync.Mutex
	st    state
	users map[int64]bool
	inTx  bool

	// FailCreateRole, when set, is returned by CreateRole.
	FailCreateRole error
}

// New returns an empty repository.
func New() *Repository {
	return &Repository{
		st: state{
			perms:     map[int64]rbac.Permission{},
			roles:     map[int64]roleRecord{},
			userRoles: map[int64][]int64{},
			nextPerm:  1,
			nextRole:  1,
		},
		users: map[int64]bool{},
	}
}

// AddUser registers a user ID.
func (r *Repository) AddUser(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id] = true
}

// RemoveUser forgets a user together with its role assignments.
func (r *Repository) RemoveUser(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	delete(r.st.userRoles, id)
}

// RoleByName returns the stored role with the name.
func (r *Repository) RoleByName(name string) (rbac.Role, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.st.roles {
		if rec.name == name {
			return r.materialise(rec), true
		}
	}
	return rbac.Role{}, false
}

// WithTx snapshots the state and restores it when fn fails.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, rbac.Repository) error) error {
	r.mu.Lock()
	if r.inTx {
		r.mu.Unlock()
		return fn(ctx, r)
	}
	snapshot := r.st.clone()
	r.inTx = true
	r.mu.Unlock()

	err := fn(ctx, r)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inTx = false
	if err != nil {
		r.st = snapshot
	}
	return err
}

func (r *Repository) ListPermissions(ctx context.Context) ([]rbac.Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedPerms(), nil
}

func (r *Repository) CountPermissions(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.st.perms), nil
}

func (r *Repository) CountPermissionsByIDs(ctx context.Context, ids []int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, id := range ids {
		if _, ok := r.st.perms[id]; ok {
			n++
		}
	}
	return n, nil
}

func (r *Repository) CreatePermission(ctx context.Context, spec rbac.PermissionSpec) (rbac.Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.st.perms {
		if p.Grant() == spec.Grant() {
			return rbac.Permission{}, fmt.Errorf("%w: %s", shared.ErrDuplicatePermission, spec.Grant())
		}
	}
	p := rbac.Permission{ID: r.st.nextPerm, Action: spec.Action, Resource: spec.Resource, Description: spec.Description}
	r.st.nextPerm++
	r.st.perms[p.ID] = p
	return p, nil
}

func (r *Repository) DeleteAllPermissions(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.st.perms = map[int64]rbac.Permission{}
	for id, rec := range r.st.roles {
		rec.permIDs = nil
		r.st.roles[id] = rec
	}
	return nil
}

func (r *Repository) ListRoles(ctx context.Context) ([]rbac.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.st.roles))
	for id := range r.st.roles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	roles := make([]rbac.Role, 0, len(ids))
	for _, id := range ids {
		roles = append(roles, r.materialise(r.st.roles[id]))
	}
	return roles, nil
}

func (r *Repository) GetRole(ctx context.Context, id int64) (rbac.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.st.roles[id]
	if !ok {
		return rbac.Role{}, fmt.Errorf("%w: role %d", shared.ErrNotFound, id)
	}
	return r.materialise(rec), nil
}

func (r *Repository) CountRoles(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.st.roles), nil
}

func (r *Repository) CountRolesByIDs(ctx context.Context, ids []int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, id := range ids {
		if _, ok := r.st.roles[id]; ok {
			n++
		}
	}
	return n, nil
}

func (r *Repository) CreateRole(ctx context.Context, input rbac.RoleInput) (rbac.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCreateRole != nil {
		return rbac.Role{}, r.FailCreateRole
	}
	if r.nameTaken(input.Name, 0) {
		return rbac.Role{}, fmt.Errorf("%w: %s", shared.ErrDuplicateRole, input.Name)
	}
	now := time.Now()
	rec := roleRecord{
		id:          r.st.nextRole,
		name:        input.Name,
		description: input.Description,
		permIDs:     append([]int64(nil), input.PermissionIDs...),
		createdAt:   now,
		updatedAt:   now,
	}
	r.st.nextRole++
	r.st.roles[rec.id] = rec
	return r.materialise(rec), nil
}

func (r *Repository) UpdateRole(ctx context.Context, id int64, input rbac.RoleInput) (rbac.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.st.roles[id]
	if !ok {
		return rbac.Role{}, fmt.Errorf("%w: role %d", shared.ErrNotFound, id)
	}
	if r.nameTaken(input.Name, id) {
		return rbac.Role{}, fmt.Errorf("%w: %s", shared.ErrDuplicateRole, input.Name)
	}
	rec.name = input.Name
	rec.description = input.Description
	rec.permIDs = append([]int64(nil), input.PermissionIDs...)
	rec.updatedAt = time.Now()
	r.st.roles[id] = rec
	return r.materialise(rec), nil
}

func (r *Repository) DeleteRole(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.st.roles[id]; !ok {
		return fmt.Errorf("%w: role %d", shared.ErrNotFound, id)
	}
	for _, held := range r.st.userRoles {
		for _, roleID := range held {
			if roleID == id {
				return shared.ErrRoleInUse
			}
		}
	}
	delete(r.st.roles, id)
	return nil
}

func (r *Repository) DeleteAllRoles(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.st.roles = map[int64]roleRecord{}
	r.st.userRoles = map[int64][]int64{}
	return nil
}

func (r *Repository) UserRoles(ctx context.Context, userID int64) ([]rbac.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roles := []rbac.Role{}
	for _, id := range r.st.userRoles[userID] {
		if rec, ok := r.st.roles[id]; ok {
			roles = append(roles, r.materialise(rec))
		}
	}
	return roles, nil
}

func (r *Repository) CountUsersWithRole(ctx context.Context, roleID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, held := range r.st.userRoles {
		for _, id := range held {
			if id == roleID {
				n++
			}
		}
	}
	return n, nil
}

func (r *Repository) ReplaceUserRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.users[userID] {
		return fmt.Errorf("%w: user %d", shared.ErrNotFound, userID)
	}
	r.st.userRoles[userID] = append([]int64(nil), roleIDs...)
	return nil
}

func (r *Repository) nameTaken(name string, except int64) bool {
	for id, rec := range r.st.roles {
		if id != except && rec.name == name {
			return true
		}
	}
	return false
}

func (r *Repository) materialise(rec roleRecord) rbac.Role {
	role := rbac.Role{
		ID:          rec.id,
		Name:        rec.name,
		Description: rec.description,
		Permissions: []rbac.Permission{},
		CreatedAt:   rec.createdAt,
		UpdatedAt:   rec.updatedAt,
	}
	for _, id := range rec.permIDs {
		if p, ok := r.st.perms[id]; ok {
			role.Permissions = append(role.Permissions, p)
		}
	}
	return role
}

func (r *Repository) sortedPerms() []rbac.Permission {
	perms := make([]rbac.Permission, 0, len(r.st.perms))
	for _, p := range r.st.perms {
		perms = append(perms, p)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i].ID < perms[j].ID })
	return perms
}

var _ rbac.Repository = (*Repository)(nil)
