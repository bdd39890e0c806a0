package roster

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/boosteam/boosteam-api/internal/platform/httpx"
	"github.com/boosteam/boosteam-api/internal/rbac"
	"github.com/boosteam/boosteam-api/internal/shared"
)

// Handler exposes the caller's roster endpoints. Routes expect an
// authenticated principal in context.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac, validator: validator.New()}
}

// MountRoutes registers roster routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.RequirePermission(rbac.ActionRead, rbac.ResourceTeam)).Get("/teams", h.getRoster)
	r.With(h.rbac.RequirePermission(rbac.ActionUpdate, rbac.ResourceTeam)).Post("/teams", h.saveRoster)
	r.With(h.rbac.RequirePermission(rbac.ActionCreate, rbac.ResourcePlayer)).Post("/players", h.addPlayer)
	r.With(h.rbac.RequirePermission(rbac.ActionUpdate, rbac.ResourcePlayer)).Put("/players/{playerID}", h.updatePlayer)
	r.With(h.rbac.RequirePermission(rbac.ActionDelete, rbac.ResourcePlayer)).Delete("/players/{playerID}", h.deletePlayer)
	r.With(h.rbac.RequirePermission(rbac.ActionUpdate, rbac.ResourceSettings)).Put("/settings", h.saveSettings)
}

type saveRosterRequest struct {
	Players  []Player  `json:"players"`
	Teams    Teams     `json:"teams"`
	Settings *Settings `json:"settings"`
}

type playerRequest struct {
	Name           string `json:"name" validate:"required,max=64"`
	Role           string `json:"role" validate:"required"`
	Tier           Tier   `json:"tier" validate:"required"`
	AssignedTeamID *int   `json:"assignedTeamId"`
}

type settingsRequest struct {
	MaxPlayers        *int `json:"maxPlayers" validate:"required"`
	MinDpsPlayers     *int `json:"minDpsPlayers" validate:"required"`
	MinSupportPlayers *int `json:"minSupportPlayers" validate:"required"`
}

type rosterResponse struct {
	Message string `json:"message"`
	Roster
}

type playerResponse struct {
	Message string `json:"message"`
	Player  Player `json:"player"`
}

func (h *Handler) getRoster(w http.ResponseWriter, r *http.Request) {
	principal := rbac.PrincipalFromContext(r.Context())
	out, err := h.service.Load(r.Context(), principal.ID)
	if err != nil {
		h.fail(w, "load roster", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rosterResponse{Message: "Successfully retrieved teams data", Roster: out})
}

func (h *Handler) saveRoster(w http.ResponseWriter, r *http.Request) {
	principal := rbac.PrincipalFromContext(r.Context())
	var req saveRosterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Replace(r.Context(), principal.ID, req.Players, req.Teams, req.Settings); err != nil {
		h.fail(w, "save roster", err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Message{Message: "Teams data saved successfully"})
}

func (h *Handler) addPlayer(w http.ResponseWriter, r *http.Request) {
	principal := rbac.PrincipalFromContext(r.Context())
	var req playerRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	player, err := h.service.AddPlayer(r.Context(), principal.ID, req.input())
	if err != nil {
		h.fail(w, "add player", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, playerResponse{Message: "Player added successfully", Player: player})
}

func (h *Handler) updatePlayer(w http.ResponseWriter, r *http.Request) {
	principal := rbac.PrincipalFromContext(r.Context())
	playerID, err := uuid.Parse(chi.URLParam(r, "playerID"))
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid playerID", shared.ErrValidation))
		return
	}
	var req playerRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	player, err := h.service.UpdatePlayer(r.Context(), principal.ID, playerID, req.input())
	if err != nil {
		h.fail(w, "update player", err)
		return
	}
	httpx.JSON(w, http.StatusOK, playerResponse{Message: "Player updated successfully", Player: player})
}

func (h *Handler) deletePlayer(w http.ResponseWriter, r *http.Request) {
	principal := rbac.PrincipalFromContext(r.Context())
	playerID, err := uuid.Parse(chi.URLParam(r, "playerID"))
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid playerID", shared.ErrValidation))
		return
	}
	if err := h.service.DeletePlayer(r.Context(), principal.ID, playerID); err != nil {
		h.fail(w, "delete player", err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Message{Message: "Player deleted successfully"})
}

func (h *Handler) saveSettings(w http.ResponseWriter, r *http.Request) {
	principal := rbac.PrincipalFromContext(r.Context())
	var req settingsRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	settings := Settings{
		MaxPlayers:        *req.MaxPlayers,
		MinDpsPlayers:     *req.MinDpsPlayers,
		MinSupportPlayers: *req.MinSupportPlayers,
	}
	if err := h.service.SaveSettings(r.Context(), principal.ID, settings); err != nil {
		h.fail(w, "save settings", err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Message{Message: "Settings updated successfully"})
}

func (req playerRequest) input() PlayerInput {
	return PlayerInput{
		Name:           req.Name,
		Role:           PlayerRole(req.Role),
		Tier:           req.Tier,
		AssignedTeamID: req.AssignedTeamID,
	}
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
