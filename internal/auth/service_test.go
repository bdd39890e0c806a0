package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/boosteam/boosteam-api/internal/auth"
	"github.com/boosteam/boosteam-api/internal/rbac"
	"github.com/boosteam/boosteam-api/internal/rbac/rbactest"
	"github.com/boosteam/boosteam-api/internal/shared"
)

type fixture struct {
	repo     *mockRepository
	roles    *rbactest.Repository
	tokens   *auth.TokenIssuer
	recorder *recordingRecorder
	service  *auth.Service
	authn    *auth.Authenticator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	roles := rbactest.New()
	_, err := rbac.NewBootstrap(roles, nil, false).Seed(context.Background())
	require.NoError(t, err)

	repo := newMockRepository(roles)
	tokens := auth.NewTokenIssuer("secret", time.Hour)
	recorder := &recordingRecorder{}
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	return &fixture{
		repo:     repo,
		roles:    roles,
		tokens:   tokens,
		recorder: recorder,
		service:  auth.NewService(repo, hasher, tokens, recorder, nil),
		authn:    auth.NewAuthenticator(tokens, repo, rbac.NewService(roles, nil), recorder, nil),
	}
}

func (f *fixture) register(t *testing.T, username, email string) auth.User {
	t.Helper()
	user, err := f.service.Register(context.Background(), auth.RegisterInput{
		Username: username,
		Email:    email,
		Password: "password123",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterAssignsUserRole(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "alice", "Alice@Example.com")
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)

	roles, err := f.roles.UserRoles(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, rbac.RoleUser, roles[0].Name)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "alice@example.com")

	_, err := f.service.Register(ctx, auth.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "short"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = f.service.Register(ctx, auth.RegisterInput{Username: "alice", Email: "other@example.com", Password: "password123"})
	require.ErrorIs(t, err, shared.ErrDuplicate)

	_, err = f.service.Register(ctx, auth.RegisterInput{Username: "carol", Email: "ALICE@example.com", Password: "password123"})
	require.ErrorIs(t, err, shared.ErrDuplicate)

	_, err = f.service.Register(ctx, auth.RegisterInput{Username: " ", Email: "x@example.com", Password: "password123"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestLoginByUsernameOrEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "alice", "alice@example.com")

	result, err := f.service.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", result.Username)
	id, err := f.tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, 1, f.recorder.count())

	_, err = f.service.Login(ctx, "ALICE@example.com", "password123")
	require.NoError(t, err)

	_, err = f.service.Login(ctx, "alice", "wrong-password")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = f.service.Login(ctx, "nobody", "password123")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "alice", "alice@example.com")

	err := f.service.ChangePassword(ctx, user.ID, "wrong-password", "new-password-1")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	err = f.service.ChangePassword(ctx, user.ID, "password123", "short")
	require.ErrorIs(t, err, shared.ErrValidation)

	require.NoError(t, f.service.ChangePassword(ctx, user.ID, "password123", "new-password-1"))
	_, err = f.service.Login(ctx, "alice", "password123")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
	_, err = f.service.Login(ctx, "alice", "new-password-1")
	require.NoError(t, err)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "alice", "alice@example.com")

	require.NoError(t, f.service.DeleteUser(ctx, user.ID))
	require.ErrorIs(t, f.service.DeleteUser(ctx, user.ID), shared.ErrNotFound)
}
