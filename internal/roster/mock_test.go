package roster_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/boosteam/boosteam-api/internal/roster"
	"github.com/boosteam/boosteam-api/internal/shared"
)

type mockRepository struct {
	mu       sync.Mutex
	players  map[int64][]roster.Player
	teams    map[int64]roster.Teams
	settings map[int64]roster.Settings
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		players:  map[int64][]roster.Player{},
		teams:    map[int64]roster.Teams{},
		settings: map[int64]roster.Settings{},
	}
}

func (m *mockRepository) Load(ctx context.Context, userID int64) (roster.Roster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := roster.Roster{
		Players:  append([]roster.Player{}, m.players[userID]...),
		Teams:    roster.Teams{},
		Settings: roster.DefaultSettings(),
	}
	for k, v := range m.teams[userID] {
		out.Teams[k] = v
	}
	if s, ok := m.settings[userID]; ok {
		out.Settings = s
	}
	return out, nil
}

func (m *mockRepository) Replace(ctx context.Context, userID int64, players []roster.Player, teams roster.Teams, settings *roster.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[userID] = append([]roster.Player{}, players...)
	m.teams[userID] = teams
	if settings != nil {
		m.settings[userID] = *settings
	}
	return nil
}

func (m *mockRepository) AddPlayer(ctx context.Context, userID int64, p roster.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[userID] = append(m.players[userID], p)
	return nil
}

func (m *mockRepository) UpdatePlayer(ctx context.Context, userID int64, p roster.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.players[userID] {
		if existing.ID == p.ID {
			p.Checked = existing.Checked
			m.players[userID][i] = p
			return nil
		}
	}
	return shared.ErrNotFound
}

func (m *mockRepository) DeletePlayer(ctx context.Context, userID int64, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.players[userID][:0]
	for _, p := range m.players[userID] {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	m.players[userID] = kept
	return nil
}

func (m *mockRepository) SaveSettings(ctx context.Context, userID int64, s roster.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[userID] = s
	return nil
}
