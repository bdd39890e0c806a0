package users

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/boosteam/boosteam-api/internal/rbac"
	"github.com/boosteam/boosteam-api/internal/roster"
	"github.com/boosteam/boosteam-api/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	CountUsers(ctx context.Context) (int, error)
	ListUsers(ctx context.Context, limit, offset int) ([]User, error)
	GetUser(ctx context.Context, id int64) (User, error)
}

// RoleLoader loads a user's roles with permissions.
type RoleLoader interface {
	UserRoles(ctx context.Context, userID int64) ([]rbac.Role, error)
}

// RosterLoader loads a user's roster.
type RosterLoader interface {
	Load(ctx context.Context, userID int64) (roster.Roster, error)
}

// Service handles user administration.
type Service struct {
	repo    RepositoryPort
	roles   RoleLoader
	rosters RosterLoader
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, roles RoleLoader, rosters RosterLoader) *Service {
	return &Service{repo: repo, roles: roles, rosters: rosters}
}

// ListUsers returns one page of users.
func (s *Service) ListUsers(ctx context.Context, page, perPage int) (Page, error) {
	total, err := s.repo.CountUsers(ctx)
	if err != nil {
		return Page{}, err
	}
	p := shared.NewPagination(page, perPage, total)
	users, err := s.repo.ListUsers(ctx, p.PerPage, p.Offset())
	if err != nil {
		return Page{}, err
	}
	return Page{Users: users, Pagination: p}, nil
}

// GetUser returns a user with roles and roster, loaded concurrently.
func (s *Service) GetUser(ctx context.Context, id int64) (Detail, error) {
	var (
		user  User
		roles []rbac.Role
		data  roster.Roster
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.repo.GetUser(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		roles, err = s.roles.UserRoles(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		data, err = s.rosters.Load(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return Detail{}, err
	}
	if roles == nil {
		roles = []rbac.Role{}
	}
	return Detail{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Roles:     roles,
		CreatedAt: user.CreatedAt,
		LastLogin: user.LastLogin,
		Roster:    data,
	}, nil
}
