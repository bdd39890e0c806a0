package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/boosteam/boosteam-api/internal/platform/httpx"
	"github.com/boosteam/boosteam-api/internal/rbac"
	"github.com/boosteam/boosteam-api/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger        *slog.Logger
	service       *Service
	authenticator *Authenticator
	rbac          rbac.Middleware
	validator     *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authenticator *Authenticator, rbac rbac.Middleware) *Handler {
	return &Handler{
		logger:        logger,
		service:       service,
		authenticator: authenticator,
		rbac:          rbac,
		validator:     validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(h.authenticator.Middleware)
		r.Get("/profile", h.handleProfile)
		r.Put("/change-password", h.handleChangePassword)
		r.With(
			h.rbac.RequirePermission(rbac.ActionDelete, rbac.ResourceUser),
			h.rbac.RequireOwnerOr("userID", rbac.HasRole(rbac.RoleAdmin)),
		).Delete("/users/{userID}", h.handleDeleteUser)
	})
}

type registerRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

type loginResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Username  string    `json:"username"`
}

type profileResponse struct {
	Message string          `json:"message"`
	User    *rbac.Principal `json:"user"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if _, err := h.service.Register(r.Context(), RegisterInput(req)); err != nil {
		h.fail(w, "register", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, httpx.Message{Message: "User registered successfully"})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, "login", err)
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{
		Message:   "Logged in successfully",
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Username:  result.Username,
	})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	principal := rbac.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	httpx.JSON(w, http.StatusOK, profileResponse{Message: "Profile retrieved successfully", User: principal})
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	principal := rbac.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	var req changePasswordRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.ChangePassword(r.Context(), principal.ID, req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(w, "change password", err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Message{Message: "Password changed successfully"})
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.ParamInt64(r, "userID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.DeleteUser(r.Context(), userID); err != nil {
		h.fail(w, "delete user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Message{Message: "User deleted successfully"})
}

func (h *Handler) decode(r *http.Request, target any) error {
	if err := httpx.DecodeJSON(r, target); err != nil {
		return err
	}
	return h.validator.Struct(target)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if h.logger != nil {
		h.logger.Warn(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
