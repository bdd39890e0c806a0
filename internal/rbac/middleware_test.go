package rbac_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/boosteam/boosteam-api/internal/rbac"
)

func serve(t *testing.T, h http.Handler, target string, p *rbac.Principal) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if p != nil {
		req = req.WithContext(rbac.ContextWithPrincipal(req.Context(), p))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
}

func TestMiddlewareRequirePermission(t *testing.T) {
	m := rbac.Middleware{}
	h := m.RequirePermission(rbac.ActionUpdate, rbac.ResourceTeam)(okHandler())

	assert.Equal(t, http.StatusUnauthorized, serve(t, h, "/", nil))
	assert.Equal(t, http.StatusForbidden, serve(t, h, "/", &rbac.Principal{ID: 1, Roles: []rbac.Role{defaultRole(t, rbac.RoleViewer)}}))
	assert.Equal(t, http.StatusNoContent, serve(t, h, "/", &rbac.Principal{ID: 1, Roles: []rbac.Role{defaultRole(t, rbac.RoleUser)}}))
}

func TestMiddlewareRequireRole(t *testing.T) {
	m := rbac.Middleware{}
	h := m.RequireRole(rbac.RoleAdmin)(okHandler())

	assert.Equal(t, http.StatusForbidden, serve(t, h, "/", &rbac.Principal{ID: 1, Roles: []rbac.Role{defaultRole(t, rbac.RoleUser)}}))
	assert.Equal(t, http.StatusNoContent, serve(t, h, "/", &rbac.Principal{ID: 1, Roles: []rbac.Role{{Name: rbac.RoleAdmin}}}))
}

func TestMiddlewareRequireOwnerOr(t *testing.T) {
	m := rbac.Middleware{}
	r := chi.NewRouter()
	r.With(m.RequireOwnerOr("userID", rbac.HasRole(rbac.RoleAdmin))).Get("/users/{userID}", okHandler().ServeHTTP)

	owner := &rbac.Principal{ID: 7, Roles: []rbac.Role{defaultRole(t, rbac.RoleUser)}}
	admin := &rbac.Principal{ID: 1, Roles: []rbac.Role{defaultRole(t, rbac.RoleAdmin)}}

	assert.Equal(t, http.StatusNoContent, serve(t, r, "/users/7", owner))
	assert.Equal(t, http.StatusForbidden, serve(t, r, "/users/8", owner))
	assert.Equal(t, http.StatusNoContent, serve(t, r, "/users/8", admin))
	assert.Equal(t, http.StatusBadRequest, serve(t, r, "/users/abc", owner))
	assert.Equal(t, http.StatusUnauthorized, serve(t, r, "/users/7", nil))
}
