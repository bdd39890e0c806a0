package rbac

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/boosteam/boosteam-api/internal/platform/httpx"
)

// Handler exposes role and permission administration endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac, validator: validator.New()}
}

// MountRoutes registers admin RBAC routes. Every route requires the admin
// role in addition to the user-resource permission it names.
func (h *Handler) MountRoutes(r chi.Router) {
	admin := HasRole(RoleAdmin)
	r.With(h.rbac.Require(Can(ActionRead, ResourceUser), admin)).Get("/roles", h.listRoles)
	r.With(h.rbac.Require(Can(ActionCreate, ResourceUser), admin)).Post("/roles", h.createRole)
	r.With(h.rbac.Require(Can(ActionUpdate, ResourceUser), admin)).Put("/roles/{roleID}", h.updateRole)
	r.With(h.rbac.Require(Can(ActionDelete, ResourceUser), admin)).Delete("/roles/{roleID}", h.deleteRole)
	r.With(h.rbac.Require(Can(ActionRead, ResourceUser), admin)).Get("/permissions", h.listPermissions)
	r.With(h.rbac.Require(Can(ActionCreate, ResourceUser), admin)).Post("/permissions", h.createPermission)
	r.With(h.rbac.Require(Can(ActionUpdate, ResourceUser), admin)).Post("/users/{userID}/roles", h.assignRoles)
}

type createRoleRequest struct {
	Name        string  `json:"name" validate:"required,max=64"`
	Description string  `json:"description" validate:"required,max=255"`
	Permissions []int64 `json:"permissions" validate:"required"`
}

type updateRoleRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=64"`
	Description *string  `json:"description" validate:"omitempty,min=1,max=255"`
	Permissions *[]int64 `json:"permissions"`
}

type createPermissionRequest struct {
	Action      string `json:"action" validate:"required,oneof=create read update delete"`
	Resource    string `json:"resource" validate:"required,oneof=user player team raid settings"`
	Description string `json:"description" validate:"required,max=255"`
}

type assignRolesRequest struct {
	RoleIDs []int64 `json:"roleIds" validate:"required"`
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		h.fail(w, "list roles", err)
		return
	}
	if roles == nil {
		roles = []Role{}
	}
	httpx.JSON(w, http.StatusOK, roles)
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	var req createRoleRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	role, err := h.service.CreateRole(r.Context(), RoleInput{
		Name:          req.Name,
		Description:   req.Description,
		PermissionIDs: req.Permissions,
	})
	if err != nil {
		h.fail(w, "create role", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, role)
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParamInt64(r, "roleID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req updateRoleRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	update := RoleUpdate{Name: req.Name, Description: req.Description}
	if req.Permissions != nil {
		update.Permissions = true
		update.PermissionIDs = *req.Permissions
	}
	role, err := h.service.UpdateRole(r.Context(), id, update)
	if err != nil {
		h.fail(w, "update role", err)
		return
	}
	httpx.JSON(w, http.StatusOK, role)
}

func (h *Handler) deleteRole(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParamInt64(r, "roleID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.DeleteRole(r.Context(), id); err != nil {
		h.fail(w, "delete role", err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Message{Message: "Role deleted successfully"})
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.service.ListPermissions(r.Context())
	if err != nil {
		h.fail(w, "list permissions", err)
		return
	}
	if perms == nil {
		perms = []Permission{}
	}
	httpx.JSON(w, http.StatusOK, perms)
}

func (h *Handler) createPermission(w http.ResponseWriter, r *http.Request) {
	var req createPermissionRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	perm, err := h.service.CreatePermission(r.Context(), PermissionSpec{
		Action:      Action(req.Action),
		Resource:    Resource(req.Resource),
		Description: req.Description,
	})
	if err != nil {
		h.fail(w, "create permission", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, perm)
}

func (h *Handler) assignRoles(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.ParamInt64(r, "userID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req assignRolesRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	roles, err := h.service.AssignRoles(r.Context(), userID, req.RoleIDs)
	if err != nil {
		h.fail(w, "assign roles", err)
		return
	}
	if roles == nil {
		roles = []Role{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "Roles assigned successfully",
		"roles":   roles,
	})
}

func (h *Handler) decode(r *http.Request, target any) error {
	if err := httpx.DecodeJSON(r, target); err != nil {
		return err
	}
	return h.validator.Struct(target)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Warn(op, slog.Any("error", err))
	httpx.RespondError(w, err)
}
