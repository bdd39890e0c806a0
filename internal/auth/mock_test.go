package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/boosteam/boosteam-api/internal/auth"
	"github.com/boosteam/boosteam-api/internal/rbac/rbactest"
	"github.com/boosteam/boosteam-api/internal/shared"
)

type mockRepository struct {
	mu     sync.Mutex
	users  map[int64]auth.User
	nextID int64
	roles  *rbactest.Repository
	logins chan int64
}

func newMockRepository(roles *rbactest.Repository) *mockRepository {
	return &mockRepository{
		users:  map[int64]auth.User{},
		nextID: 1,
		roles:  roles,
		logins: make(chan int64, 16),
	}
}

func (m *mockRepository) CreateUser(ctx context.Context, input auth.NewUser) (auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == input.Username || u.Email == input.Email {
			return auth.User{}, shared.ErrDuplicate
		}
	}
	now := time.Now()
	user := auth.User{
		ID:           m.nextID,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if input.Role != "" {
		role, ok := m.roles.RoleByName(input.Role)
		if !ok {
			return auth.User{}, shared.ErrNotFound
		}
		m.roles.AddUser(user.ID)
		if err := m.roles.ReplaceUserRoles(ctx, user.ID, []int64{role.ID}); err != nil {
			return auth.User{}, err
		}
	}
	m.nextID++
	m.users[user.ID] = user
	return user, nil
}

func (m *mockRepository) FindByID(ctx context.Context, id int64) (auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return auth.User{}, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockRepository) FindByLogin(ctx context.Context, username, email string) (auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return auth.User{}, shared.ErrNotFound
}

func (m *mockRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.PasswordHash = hash
	m.users[id] = u
	return nil
}

func (m *mockRepository) DeleteUser(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.users, id)
	m.roles.RemoveUser(id)
	return nil
}

func (m *mockRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	m.mu.Lock()
	u, ok := m.users[id]
	if ok {
		u.LastLogin = &at
		m.users[id] = u
	}
	m.mu.Unlock()
	if !ok {
		return shared.ErrNotFound
	}
	select {
	case m.logins <- id:
	default:
	}
	return nil
}

type recordingRecorder struct {
	mu    sync.Mutex
	calls []int64
}

func (r *recordingRecorder) RecordLogin(userID int64, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, userID)
}

func (r *recordingRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}
