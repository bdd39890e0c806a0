package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/boosteam/boosteam-api/internal/platform/httpx"
	"github.com/boosteam/boosteam-api/internal/rbac"
	"github.com/boosteam/boosteam-api/internal/shared"
)

// UserFinder loads accounts by ID.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (User, error)
}

// RoleLoader loads the roles held by a user with their permissions.
type RoleLoader interface {
	UserRoles(ctx context.Context, userID int64) ([]rbac.Role, error)
}

// Authenticator resolves bearer credentials into principals.
type Authenticator struct {
	tokens   *TokenIssuer
	users    UserFinder
	roles    RoleLoader
	recorder LoginRecorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthenticator constructs an Authenticator. A nil recorder disables
// last-login tracking.
func NewAuthenticator(tokens *TokenIssuer, users UserFinder, roles RoleLoader, recorder LoginRecorder, logger *slog.Logger) *Authenticator {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{tokens: tokens, users: users, roles: roles, recorder: recorder, logger: logger, now: time.Now}
}

// Authenticate validates the Authorization header value and loads the
// principal with its current roles.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*rbac.Principal, error) {
	if strings.TrimSpace(header) == "" {
		return nil, shared.ErrMissingCredential
	}
	token := bearerToken(header)
	if token == "" {
		return nil, shared.ErrInvalidCredential
	}
	userID, err := a.tokens.Verify(token)
	if err != nil {
		// The verifier detail stays in the log; callers see the fixed message.
		a.logger.Debug("token rejected", slog.Any("error", err))
		return nil, shared.ErrInvalidCredential
	}
	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	roles, err := a.roles.UserRoles(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}

	a.recorder.RecordLogin(user.ID, a.now())

	return &rbac.Principal{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Roles:     roles,
		CreatedAt: user.CreatedAt,
		LastLogin: user.LastLogin,
	}, nil
}

// Middleware authenticates every request and stores the principal in the
// request context. Failures end the request.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := a.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			if !isCredentialErr(err) {
				a.logger.Error("authenticate", slog.Any("error", err))
			}
			httpx.RespondError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(rbac.ContextWithPrincipal(r.Context(), principal)))
	})
}

func isCredentialErr(err error) bool {
	return errors.Is(err, shared.ErrMissingCredential) ||
		errors.Is(err, shared.ErrInvalidCredential) ||
		errors.Is(err, shared.ErrPrincipalNotFound)
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
