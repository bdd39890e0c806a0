package roster

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/boosteam/boosteam-api/internal/shared"
)

// PlayerRole is the in-game role of a player.
type PlayerRole string

// Supported player roles.
const (
	RoleSupport PlayerRole = "support"
	RoleDPS     PlayerRole = "dps"
	RoleAlt     PlayerRole = "alt"
)

// Valid reports whether r is a supported role.
func (r PlayerRole) Valid() bool {
	switch r {
	case RoleSupport, RoleDPS, RoleAlt:
		return true
	}
	return false
}

// Tier is either a letter grade (S, A, B, C, D) or a numeric grade 1 to 5.
type Tier string

// Valid reports whether t is a letter or numeric grade.
func (t Tier) Valid() bool {
	switch t {
	case "S", "A", "B", "C", "D", "1", "2", "3", "4", "5":
		return true
	}
	return false
}

// UnmarshalJSON accepts a string grade or a bare number.
func (t *Tier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Tier(s)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("tier must be a string or integer: %w", err)
	}
	*t = Tier(strconv.Itoa(n))
	return nil
}

// MarshalJSON writes numeric grades as numbers and letters as strings.
func (t Tier) MarshalJSON() ([]byte, error) {
	if n, err := strconv.Atoi(string(t)); err == nil {
		return json.Marshal(n)
	}
	return json.Marshal(string(t))
}

// Player is a roster entry owned by a user.
type Player struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Role           PlayerRole `json:"role"`
	Tier           Tier       `json:"tier"`
	Checked        bool       `json:"checked"`
	AssignedTeamID *int       `json:"assignedTeamId"`
}

// Validate checks the player attributes.
func (p Player) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name, role, and tier are required", shared.ErrValidation)
	}
	if !p.Role.Valid() {
		return fmt.Errorf("%w: role must be one of support, dps, alt", shared.ErrValidation)
	}
	if !p.Tier.Valid() {
		return fmt.Errorf("%w: tier must be S, A, B, C, D or 1-5", shared.ErrValidation)
	}
	return nil
}

// Teams maps a team number to its members.
type Teams map[int][]Player

// Settings are the per-user roster constraints.
type Settings struct {
	MaxPlayers        int `json:"maxPlayers"`
	MinDpsPlayers     int `json:"minDpsPlayers"`
	MinSupportPlayers int `json:"minSupportPlayers"`
}

// DefaultSettings returns the settings of a user that never saved any.
func DefaultSettings() Settings {
	return Settings{MaxPlayers: 10, MinDpsPlayers: 2, MinSupportPlayers: 2}
}

// Validate checks the settings bounds.
func (s Settings) Validate() error {
	if s.MaxPlayers < 1 || s.MinDpsPlayers < 0 || s.MinSupportPlayers < 0 {
		return fmt.Errorf("%w: invalid settings values", shared.ErrValidation)
	}
	return nil
}

// Roster is the complete roster document of a user.
type Roster struct {
	Players  []Player `json:"players"`
	Teams    Teams    `json:"teams"`
	Settings Settings `json:"settings"`
}
