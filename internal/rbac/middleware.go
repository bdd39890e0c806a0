package rbac

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/boosteam/boosteam-api/internal/platform/httpx"
	"github.com/boosteam/boosteam-api/internal/shared"
)

// Middleware wires RBAC authorization helpers for HTTP handlers. It runs
// after authentication and evaluates the principal already in context.
type Middleware struct {
	Logger *slog.Logger
}

// Require ensures the current principal passes every check.
func (m Middleware) Require(checks ...Check) func(http.Handler) http.Handler {
	check := All(checks...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !m.allow(w, r, check) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission ensures the principal holds the exact grant.
func (m Middleware) RequirePermission(action Action, resource Resource) func(http.Handler) http.Handler {
	return m.Require(Can(action, resource))
}

// RequireRole ensures the principal holds the named role.
func (m Middleware) RequireRole(name string) func(http.Handler) http.Handler {
	return m.Require(HasRole(name))
}

// RequireOwnerOr passes when the principal owns the user addressed by the
// {param} URL segment, or when any of the alternatives passes.
func (m Middleware) RequireOwnerOr(param string, alternatives ...Check) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ownerID, err := httpx.ParamInt64(r, param)
			if err != nil {
				httpx.RespondError(w, err)
				return
			}
			checks := append([]Check{Owns(ownerID)}, alternatives...)
			if !m.allow(w, r, Any(checks...)) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) allow(w http.ResponseWriter, r *http.Request, check Check) bool {
	err := check(PrincipalFromContext(r.Context()))
	if err == nil {
		return true
	}
	if m.Logger != nil && errors.Is(err, shared.ErrForbidden) {
		m.Logger.Debug("rbac denied",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
	httpx.RespondError(w, err)
	return false
}
