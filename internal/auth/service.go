package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/boosteam/boosteam-api/internal/rbac"
	"github.com/boosteam/boosteam-api/internal/shared"
)

// Service wraps account business rules.
type Service struct {
	repo     Repository
	hasher   PasswordHasher
	tokens   *TokenIssuer
	recorder LoginRecorder
	logger   *slog.Logger
	now      func() time.Time

	// dummyHash keeps unknown-user logins as slow as wrong-password logins.
	dummyHash string
}

// NewService constructs a new Service.
func NewService(repo Repository, hasher PasswordHasher, tokens *TokenIssuer, recorder LoginRecorder, logger *slog.Logger) *Service {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	dummy, _ := hasher.Hash("boosteam-timing-equaliser")
	return &Service{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		recorder:  recorder,
		logger:    logger,
		now:       time.Now,
		dummyHash: dummy,
	}
}

// Register creates an account holding the default user role.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	username := NormalizeUsername(input.Username)
	email := NormalizeEmail(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return User{}, fmt.Errorf("%w: username, password, and email are required", shared.ErrValidation)
	}
	if len(input.Password) < MinPasswordLength {
		return User{}, fmt.Errorf("%w: password must be at least %d characters long", shared.ErrValidation, MinPasswordLength)
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return User{}, err
	}
	user, err := s.repo.CreateUser(ctx, NewUser{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         rbac.RoleUser,
	})
	if err != nil {
		return User{}, err
	}
	s.logger.Info("user registered", slog.Int64("user_id", user.ID), slog.String("username", user.Username))
	return user, nil
}

// Login verifies credentials by username or email and issues a token.
func (s *Service) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	user, err := s.repo.FindByLogin(ctx, NormalizeUsername(identifier), NormalizeEmail(identifier))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.hasher.Matches(s.dummyHash, password)
			return LoginResult{}, shared.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !s.hasher.Matches(user.PasswordHash, password) {
		return LoginResult{}, shared.ErrInvalidCredentials
	}
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return LoginResult{}, err
	}
	s.recorder.RecordLogin(user.ID, s.now())
	return LoginResult{Token: token, ExpiresAt: expiresAt, Username: user.Username}, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Matches(user.PasswordHash, current) {
		return fmt.Errorf("%w: current password is incorrect", shared.ErrInvalidCredentials)
	}
	if len(next) < MinPasswordLength {
		return fmt.Errorf("%w: new password must be at least %d characters long", shared.ErrValidation, MinPasswordLength)
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, hash)
}

// DeleteUser removes an account.
func (s *Service) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user deleted", slog.Int64("user_id", userID))
	return nil
}
