package rbac_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boosteam/boosteam-api/internal/rbac"
	"github.com/boosteam/boosteam-api/internal/rbac/rbactest"
	"github.com/boosteam/boosteam-api/internal/shared"
)

func seededService(t *testing.T) (*rbac.Service, *rbactest.Repository) {
	t.Helper()
	repo := rbactest.New()
	_, err := rbac.NewBootstrap(repo, nil, false).Seed(context.Background())
	require.NoError(t, err)
	return rbac.NewService(repo, nil), repo
}

func TestCreateRoleValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := seededService(t)

	_, err := svc.CreateRole(ctx, rbac.RoleInput{Name: " ", Description: "x"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.CreateRole(ctx, rbac.RoleInput{Name: "raider", Description: "x", PermissionIDs: []int64{999}})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.CreateRole(ctx, rbac.RoleInput{Name: rbac.RoleAdmin, Description: "again"})
	require.ErrorIs(t, err, shared.ErrDuplicateRole)

	role, err := svc.CreateRole(ctx, rbac.RoleInput{Name: " raider ", Description: "Raid lead", PermissionIDs: []int64{13, 14, 13}})
	require.NoError(t, err)
	assert.Equal(t, "raider", role.Name)
	assert.Len(t, role.Permissions, 2)
}

func TestUpdateRolePartial(t *testing.T) {
	ctx := context.Background()
	svc, repo := seededService(t)
	viewer, _ := repo.RoleByName(rbac.RoleViewer)

	desc := "Looks only"
	updated, err := svc.UpdateRole(ctx, viewer.ID, rbac.RoleUpdate{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleViewer, updated.Name)
	assert.Equal(t, desc, updated.Description)
	assert.Len(t, updated.Permissions, 5)

	updated, err = svc.UpdateRole(ctx, viewer.ID, rbac.RoleUpdate{Permissions: true, PermissionIDs: []int64{}})
	require.NoError(t, err)
	assert.Empty(t, updated.Permissions)

	name := rbac.RoleAdmin
	_, err = svc.UpdateRole(ctx, viewer.ID, rbac.RoleUpdate{Name: &name})
	require.ErrorIs(t, err, shared.ErrDuplicateRole)

	_, err = svc.UpdateRole(ctx, 404, rbac.RoleUpdate{Description: &desc})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteRoleInUse(t *testing.T) {
	ctx := context.Background()
	svc, repo := seededService(t)
	user, _ := repo.RoleByName(rbac.RoleUser)
	repo.AddUser(10)
	_, err := svc.AssignRoles(ctx, 10, []int64{user.ID})
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteRole(ctx, user.ID), shared.ErrRoleInUse)

	_, err = svc.AssignRoles(ctx, 10, nil)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteRole(ctx, user.ID))
	require.ErrorIs(t, svc.DeleteRole(ctx, user.ID), shared.ErrNotFound)
}

func TestAssignRolesReplacesSet(t *testing.T) {
	ctx := context.Background()
	svc, repo := seededService(t)
	admin, _ := repo.RoleByName(rbac.RoleAdmin)
	viewer, _ := repo.RoleByName(rbac.RoleViewer)
	repo.AddUser(5)

	roles, err := svc.AssignRoles(ctx, 5, []int64{admin.ID, viewer.ID, admin.ID})
	require.NoError(t, err)
	require.Len(t, roles, 2)

	_, err = svc.AssignRoles(ctx, 5, []int64{admin.ID, 999})
	require.ErrorIs(t, err, shared.ErrValidation)
	roles, err = svc.UserRoles(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	_, err = svc.AssignRoles(ctx, 6, []int64{admin.ID})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreatePermission(t *testing.T) {
	ctx := context.Background()
	svc, _ := seededService(t)

	_, err := svc.CreatePermission(ctx, rbac.PermissionSpec{Action: "fly", Resource: rbac.ResourceTeam, Description: "x"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.CreatePermission(ctx, rbac.PermissionSpec{Action: rbac.ActionRead, Resource: rbac.ResourceTeam, Description: "dup"})
	require.ErrorIs(t, err, shared.ErrDuplicatePermission)

	p, err := svc.CreatePermission(ctx, rbac.PermissionSpec{Action: " Delete ", Resource: "SETTINGS", Description: "Reset settings"})
	require.NoError(t, err)
	assert.Equal(t, rbac.Grant{Action: rbac.ActionDelete, Resource: rbac.ResourceSettings}, p.Grant())
}
