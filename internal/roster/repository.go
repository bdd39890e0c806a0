package roster

import (
	"context"

	"github.com/google/uuid"
)

// Repository exposes roster persistence scoped by owning user.
type Repository interface {
	Load(ctx context.Context, userID int64) (Roster, error)
	// Replace swaps players and teams, and settings when non-nil.
	Replace(ctx context.Context, userID int64, players []Player, teams Teams, settings *Settings) error
	AddPlayer(ctx context.Context, userID int64, player Player) error
	UpdatePlayer(ctx context.Context, userID int64, player Player) error
	DeletePlayer(ctx context.Context, userID int64, playerID uuid.UUID) error
	SaveSettings(ctx context.Context, userID int64, settings Settings) error
}
