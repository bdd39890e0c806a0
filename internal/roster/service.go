package roster

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/boosteam/boosteam-api/internal/shared"
)

// Service implements roster operations for the owning user.
type Service struct {
	repo   Repository
	logger *slog.Logger
	newID  func() uuid.UUID
}

// NewService constructs a Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, newID: uuid.New}
}

// Load returns the user's players, teams and settings.
func (s *Service) Load(ctx context.Context, userID int64) (Roster, error) {
	return s.repo.Load(ctx, userID)
}

// Replace stores a complete roster. Players without an ID receive one.
// A nil settings value keeps the stored settings.
func (s *Service) Replace(ctx context.Context, userID int64, players []Player, teams Teams, settings *Settings) error {
	if players == nil {
		return fmt.Errorf("%w: invalid players data", shared.ErrValidation)
	}
	if teams == nil {
		return fmt.Errorf("%w: invalid teams data", shared.ErrValidation)
	}
	seen := make(map[uuid.UUID]struct{}, len(players))
	for i := range players {
		players[i] = normalizePlayer(players[i])
		if players[i].ID == uuid.Nil {
			players[i].ID = s.newID()
		}
		if _, dup := seen[players[i].ID]; dup {
			return fmt.Errorf("%w: duplicate player id %s", shared.ErrValidation, players[i].ID)
		}
		seen[players[i].ID] = struct{}{}
		if err := players[i].Validate(); err != nil {
			return err
		}
	}
	for _, members := range teams {
		for i := range members {
			members[i] = normalizePlayer(members[i])
		}
	}
	if settings != nil {
		if err := settings.Validate(); err != nil {
			return err
		}
	}
	return s.repo.Replace(ctx, userID, players, teams, settings)
}

// PlayerInput carries the writable player attributes.
type PlayerInput struct {
	Name           string
	Role           PlayerRole
	Tier           Tier
	AssignedTeamID *int
}

func (in PlayerInput) player(id uuid.UUID) Player {
	return normalizePlayer(Player{
		ID:             id,
		Name:           in.Name,
		Role:           in.Role,
		Tier:           in.Tier,
		AssignedTeamID: in.AssignedTeamID,
	})
}

// normalizePlayer lower-cases the role and upper-cases the tier.
func normalizePlayer(p Player) Player {
	p.Name = strings.TrimSpace(p.Name)
	p.Role = PlayerRole(strings.ToLower(strings.TrimSpace(string(p.Role))))
	p.Tier = Tier(strings.ToUpper(strings.TrimSpace(string(p.Tier))))
	return p
}

// AddPlayer appends an unassigned player with a generated ID.
func (s *Service) AddPlayer(ctx context.Context, userID int64, input PlayerInput) (Player, error) {
	input.AssignedTeamID = nil
	player := input.player(s.newID())
	if err := player.Validate(); err != nil {
		return Player{}, err
	}
	if err := s.repo.AddPlayer(ctx, userID, player); err != nil {
		return Player{}, err
	}
	return player, nil
}

// UpdatePlayer overwrites a player owned by the user.
func (s *Service) UpdatePlayer(ctx context.Context, userID int64, playerID uuid.UUID, input PlayerInput) (Player, error) {
	player := input.player(playerID)
	if err := player.Validate(); err != nil {
		return Player{}, err
	}
	if err := s.repo.UpdatePlayer(ctx, userID, player); err != nil {
		return Player{}, err
	}
	return player, nil
}

// DeletePlayer removes a player owned by the user.
func (s *Service) DeletePlayer(ctx context.Context, userID int64, playerID uuid.UUID) error {
	return s.repo.DeletePlayer(ctx, userID, playerID)
}

// SaveSettings validates and stores the roster settings.
func (s *Service) SaveSettings(ctx context.Context, userID int64, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	return s.repo.SaveSettings(ctx, userID, settings)
}
