package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/boosteam/boosteam-api/internal/auth"
	"github.com/boosteam/boosteam-api/internal/platform/httpx"
	"github.com/boosteam/boosteam-api/internal/rbac"
	"github.com/boosteam/boosteam-api/internal/roster"
	"github.com/boosteam/boosteam-api/internal/users"
	"github.com/boosteam/boosteam-api/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger        *slog.Logger
	Config        *Config
	Authenticator *auth.Authenticator
	AuthHandler   *auth.Handler
	RBACHandler   *rbac.Handler
	UsersHandler  *users.Handler
	RosterHandler *roster.Handler
	JobHandler    *jobs.Handler
	RBAC          rbac.Middleware
	// Ready reports storage readiness for /health; nil means always ready.
	Ready func(r *http.Request) error
	// AccessLog toggles chi's request logger.
	AccessLog bool
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRouter constructs the chi.Router with Boosteam defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}
	if params.AccessLog {
		r.Use(chimw.Logger)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if params.Ready != nil {
			if err := params.Ready(r); err != nil {
				params.Logger.Warn("health check", slog.Any("error", err))
				httpx.JSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Timestamp: time.Now().UTC()})
				return
			}
		}
		httpx.JSON(w, http.StatusOK, healthResponse{Status: "ok", Timestamp: time.Now().UTC()})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			httpx.JSON(w, http.StatusOK, httpx.Message{Message: "Boosteam API v1"})
		})

		if params.AuthHandler != nil {
			r.Route("/auth", params.AuthHandler.MountRoutes)
		}
		r.Group(func(r chi.Router) {
			r.Use(params.Authenticator.Middleware)
			r.Route("/admin", func(r chi.Router) {
				if params.UsersHandler != nil {
					params.UsersHandler.MountRoutes(r)
				}
				if params.RBACHandler != nil {
					params.RBACHandler.MountRoutes(r)
				}
				if params.JobHandler != nil {
					r.With(params.RBAC.RequireRole(rbac.RoleAdmin)).Route("/jobs", params.JobHandler.MountRoutes)
				}
			})
			if params.RosterHandler != nil {
				params.RosterHandler.MountRoutes(r)
			}
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "route not found")
	})

	return r
}
