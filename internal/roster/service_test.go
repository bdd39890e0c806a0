package roster_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boosteam/boosteam-api/internal/roster"
	"github.com/boosteam/boosteam-api/internal/shared"
)

func TestTierJSON(t *testing.T) {
	var p roster.Player
	require.NoError(t, json.Unmarshal([]byte(`{"name":"a","role":"dps","tier":3}`), &p))
	assert.Equal(t, roster.Tier("3"), p.Tier)
	require.NoError(t, json.Unmarshal([]byte(`{"name":"a","role":"dps","tier":"S"}`), &p))
	assert.Equal(t, roster.Tier("S"), p.Tier)

	out, err := json.Marshal(roster.Tier("4"))
	require.NoError(t, err)
	assert.JSONEq(t, `4`, string(out))
	out, err = json.Marshal(roster.Tier("A"))
	require.NoError(t, err)
	assert.JSONEq(t, `"A"`, string(out))

	assert.False(t, roster.Tier("6").Valid())
	assert.False(t, roster.Tier("E").Valid())
}

func TestLoadDefaults(t *testing.T) {
	svc := roster.NewService(newMockRepository(), nil)
	out, err := svc.Load(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, out.Players)
	assert.Equal(t, roster.Settings{MaxPlayers: 10, MinDpsPlayers: 2, MinSupportPlayers: 2}, out.Settings)
}

func TestAddAndUpdatePlayer(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	svc := roster.NewService(repo, nil)

	_, err := svc.AddPlayer(ctx, 1, roster.PlayerInput{Name: "Ana", Role: "healer", Tier: "S"})
	require.ErrorIs(t, err, shared.ErrValidation)
	_, err = svc.AddPlayer(ctx, 1, roster.PlayerInput{Name: "Ana", Role: "support", Tier: "Z"})
	require.ErrorIs(t, err, shared.ErrValidation)

	team := 2
	player, err := svc.AddPlayer(ctx, 1, roster.PlayerInput{Name: " Ana ", Role: "Support", Tier: "s", AssignedTeamID: &team})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, player.ID)
	assert.Equal(t, "Ana", player.Name)
	assert.Equal(t, roster.RoleSupport, player.Role)
	assert.Equal(t, roster.Tier("S"), player.Tier)
	assert.Nil(t, player.AssignedTeamID)

	updated, err := svc.UpdatePlayer(ctx, 1, player.ID, roster.PlayerInput{Name: "Ana", Role: "dps", Tier: "2", AssignedTeamID: &team})
	require.NoError(t, err)
	assert.Equal(t, &team, updated.AssignedTeamID)

	_, err = svc.UpdatePlayer(ctx, 2, player.ID, roster.PlayerInput{Name: "Ana", Role: "dps", Tier: "2"})
	require.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, svc.DeletePlayer(ctx, 1, player.ID))
	out, err := svc.Load(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, out.Players)
}

func TestReplaceRoster(t *testing.T) {
	ctx := context.Background()
	svc := roster.NewService(newMockRepository(), nil)

	require.ErrorIs(t, svc.Replace(ctx, 1, nil, roster.Teams{}, nil), shared.ErrValidation)
	require.ErrorIs(t, svc.Replace(ctx, 1, []roster.Player{}, nil, nil), shared.ErrValidation)

	id := uuid.New()
	dup := []roster.Player{
		{ID: id, Name: "a", Role: roster.RoleDPS, Tier: "A"},
		{ID: id, Name: "b", Role: roster.RoleDPS, Tier: "A"},
	}
	require.ErrorIs(t, svc.Replace(ctx, 1, dup, roster.Teams{}, nil), shared.ErrValidation)

	bad := roster.Settings{MaxPlayers: 0}
	players := []roster.Player{{Name: "a", Role: roster.RoleDPS, Tier: "A"}}
	require.ErrorIs(t, svc.Replace(ctx, 1, players, roster.Teams{}, &bad), shared.ErrValidation)

	settings := roster.Settings{MaxPlayers: 8, MinDpsPlayers: 3, MinSupportPlayers: 1}
	teams := roster.Teams{1: {{Name: "a", Role: roster.RoleDPS, Tier: "A"}}}
	require.NoError(t, svc.Replace(ctx, 1, players, teams, &settings))

	out, err := svc.Load(ctx, 1)
	require.NoError(t, err)
	require.Len(t, out.Players, 1)
	assert.NotEqual(t, uuid.Nil, out.Players[0].ID)
	assert.Len(t, out.Teams[1], 1)
	assert.Equal(t, settings, out.Settings)

	require.NoError(t, svc.Replace(ctx, 1, []roster.Player{}, roster.Teams{}, nil))
	out, err = svc.Load(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, out.Players)
	assert.Equal(t, settings, out.Settings)
}

func TestReplaceNormalizesPlayers(t *testing.T) {
	ctx := context.Background()
	svc := roster.NewService(newMockRepository(), nil)

	players := []roster.Player{{Name: " Mei ", Role: "DPS", Tier: "s"}}
	teams := roster.Teams{1: {{Name: "Mei", Role: " Support", Tier: "a "}}}
	require.NoError(t, svc.Replace(ctx, 1, players, teams, nil))

	out, err := svc.Load(ctx, 1)
	require.NoError(t, err)
	require.Len(t, out.Players, 1)
	assert.Equal(t, "Mei", out.Players[0].Name)
	assert.Equal(t, roster.RoleDPS, out.Players[0].Role)
	assert.Equal(t, roster.Tier("S"), out.Players[0].Tier)
	require.Len(t, out.Teams[1], 1)
	assert.Equal(t, roster.RoleSupport, out.Teams[1][0].Role)
	assert.Equal(t, roster.Tier("A"), out.Teams[1][0].Tier)
}

func TestSaveSettingsBounds(t *testing.T) {
	ctx := context.Background()
	svc := roster.NewService(newMockRepository(), nil)

	require.ErrorIs(t, svc.SaveSettings(ctx, 1, roster.Settings{MaxPlayers: 0}), shared.ErrValidation)
	require.ErrorIs(t, svc.SaveSettings(ctx, 1, roster.Settings{MaxPlayers: 1, MinDpsPlayers: -1}), shared.ErrValidation)
	require.NoError(t, svc.SaveSettings(ctx, 1, roster.Settings{MaxPlayers: 1}))
}
