package rbac_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boosteam/boosteam-api/internal/rbac"
	"github.com/boosteam/boosteam-api/internal/rbac/rbactest"
)

func TestSeedCreatesRegistryAndRoles(t *testing.T) {
	ctx := context.Background()
	repo := rbactest.New()
	boot := rbac.NewBootstrap(repo, nil, false)

	result, err := boot.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, rbac.SeedResult{PermissionsCreated: 18, RolesCreated: 3}, result)

	for name, want := range map[string]int{rbac.RoleAdmin: 18, rbac.RoleUser: 8, rbac.RoleViewer: 5} {
		role, ok := repo.RoleByName(name)
		require.True(t, ok, name)
		assert.Len(t, role.Permissions, want, name)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := rbactest.New()
	boot := rbac.NewBootstrap(repo, nil, false)

	_, err := boot.Seed(ctx)
	require.NoError(t, err)
	before, err := repo.ListRoles(ctx)
	require.NoError(t, err)

	result, err := boot.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, rbac.SeedResult{}, result)

	after, err := repo.ListRoles(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSeedCreatesRolesWhenOnlyPermissionsExist(t *testing.T) {
	ctx := context.Background()
	repo := rbactest.New()
	for _, spec := range rbac.Catalog() {
		_, err := repo.CreatePermission(ctx, spec)
		require.NoError(t, err)
	}

	result, err := rbac.NewBootstrap(repo, nil, false).Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.PermissionsCreated)
	assert.Equal(t, 3, result.RolesCreated)

	admin, ok := repo.RoleByName(rbac.RoleAdmin)
	require.True(t, ok)
	assert.Len(t, admin.Permissions, 18)
}

func TestSeedKeepsExistingRoles(t *testing.T) {
	ctx := context.Background()
	repo := rbactest.New()
	_, err := repo.CreateRole(ctx, rbac.RoleInput{Name: "custom", Description: "custom role"})
	require.NoError(t, err)

	result, err := rbac.NewBootstrap(repo, nil, false).Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, rbac.SeedResult{PermissionsCreated: 18}, result)

	_, ok := repo.RoleByName(rbac.RoleAdmin)
	assert.False(t, ok)
}

func TestSeedRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	repo := rbactest.New()
	repo.FailCreateRole = errors.New("boom")

	_, err := rbac.NewBootstrap(repo, nil, false).Seed(ctx)
	require.Error(t, err)

	n, err := repo.CountPermissions(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestResetRecreatesDefaults(t *testing.T) {
	ctx := context.Background()
	repo := rbactest.New()
	boot := rbac.NewBootstrap(repo, nil, false)
	_, err := boot.Seed(ctx)
	require.NoError(t, err)

	repo.AddUser(1)
	admin, _ := repo.RoleByName(rbac.RoleAdmin)
	require.NoError(t, repo.ReplaceUserRoles(ctx, 1, []int64{admin.ID}))
	_, err = repo.CreateRole(ctx, rbac.RoleInput{Name: "custom", Description: "custom role"})
	require.NoError(t, err)

	result, err := boot.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, rbac.SeedResult{PermissionsCreated: 18, RolesCreated: 3}, result)

	roles, err := repo.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 3)
	held, err := repo.UserRoles(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, held)
}

func TestResetRefusedInProduction(t *testing.T) {
	ctx := context.Background()
	repo := rbactest.New()
	boot := rbac.NewBootstrap(repo, nil, true)
	_, err := boot.Seed(ctx)
	require.NoError(t, err)

	_, err = boot.Reset(ctx)
	require.ErrorIs(t, err, rbac.ErrResetDisabled)

	n, err := repo.CountRoles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
