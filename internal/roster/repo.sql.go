package roster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/boosteam/boosteam-api/internal/platform/db"
	"github.com/boosteam/boosteam-api/internal/shared"
)

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Load returns the user's roster, falling back to defaults for the parts
// never saved.
func (r *PGRepository) Load(ctx context.Context, userID int64) (Roster, error) {
	out := Roster{Players: []Player{}, Teams: Teams{}, Settings: DefaultSettings()}

	rows, err := r.pool.Query(ctx, `SELECT id, name, role, tier, checked, assigned_team_id
FROM players WHERE user_id = $1 ORDER BY position, id`, userID)
	if err != nil {
		return Roster{}, db.Translate(err)
	}
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Role, &p.Tier, &p.Checked, &p.AssignedTeamID); err != nil {
			rows.Close()
			return Roster{}, err
		}
		out.Players = append(out.Players, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Roster{}, err
	}

	var raw []byte
	err = r.pool.QueryRow(ctx, `SELECT teams FROM roster_teams WHERE user_id = $1`, userID).Scan(&raw)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return Roster{}, db.Translate(err)
	default:
		if err := json.Unmarshal(raw, &out.Teams); err != nil {
			return Roster{}, fmt.Errorf("decode teams: %w", err)
		}
	}

	err = r.pool.QueryRow(ctx, `SELECT max_players, min_dps_players, min_support_players
FROM roster_settings WHERE user_id = $1`, userID).
		Scan(&out.Settings.MaxPlayers, &out.Settings.MinDpsPlayers, &out.Settings.MinSupportPlayers)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return Roster{}, db.Translate(err)
	}
	return out, nil
}

// Replace swaps the stored roster in one transaction.
func (r *PGRepository) Replace(ctx context.Context, userID int64, players []Player, teams Teams, settings *Settings) error {
	encoded, err := json.Marshal(teams)
	if err != nil {
		return fmt.Errorf("encode teams: %w", err)
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM players WHERE user_id = $1`, userID); err != nil {
			return db.Translate(err)
		}
		if len(players) > 0 {
			batch := &pgx.Batch{}
			for i, p := range players {
				batch.Queue(`INSERT INTO players (id, user_id, name, role, tier, checked, assigned_team_id, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, p.ID, userID, p.Name, string(p.Role), string(p.Tier), p.Checked, p.AssignedTeamID, i)
			}
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				if _, ok := db.UniqueViolation(err); ok {
					return fmt.Errorf("%w: duplicate player id", shared.ErrValidation)
				}
				return db.Translate(err)
			}
		}
		if _, err := tx.Exec(ctx, `INSERT INTO roster_teams (user_id, teams) VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE SET teams = EXCLUDED.teams`, userID, encoded); err != nil {
			return db.Translate(err)
		}
		if settings != nil {
			return upsertSettings(ctx, tx, userID, *settings)
		}
		return nil
	})
}

// AddPlayer appends a player to the end of the roster.
func (r *PGRepository) AddPlayer(ctx context.Context, userID int64, p Player) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO players (id, user_id, name, role, tier, checked, assigned_team_id, position)
VALUES ($1, $2, $3, $4, $5, $6, $7,
        (SELECT COALESCE(MAX(position) + 1, 0) FROM players WHERE user_id = $2))`,
		p.ID, userID, p.Name, string(p.Role), string(p.Tier), p.Checked, p.AssignedTeamID)
	return db.Translate(err)
}

// UpdatePlayer overwrites a player owned by the user.
func (r *PGRepository) UpdatePlayer(ctx context.Context, userID int64, p Player) error {
	tag, err := r.pool.Exec(ctx, `UPDATE players SET name = $3, role = $4, tier = $5, assigned_team_id = $6
WHERE id = $1 AND user_id = $2`, p.ID, userID, p.Name, string(p.Role), string(p.Tier), p.AssignedTeamID)
	if err != nil {
		return db.Translate(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: player %s", shared.ErrNotFound, p.ID)
	}
	return nil
}

// DeletePlayer removes a player owned by the user. Missing players are ignored.
func (r *PGRepository) DeletePlayer(ctx context.Context, userID int64, playerID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM players WHERE id = $1 AND user_id = $2`, playerID, userID)
	return db.Translate(err)
}

// SaveSettings upserts the roster settings.
func (r *PGRepository) SaveSettings(ctx context.Context, userID int64, settings Settings) error {
	return upsertSettings(ctx, r.pool, userID, settings)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func upsertSettings(ctx context.Context, q execer, userID int64, s Settings) error {
	_, err := q.Exec(ctx, `INSERT INTO roster_settings (user_id, max_players, min_dps_players, min_support_players)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO UPDATE SET
    max_players = EXCLUDED.max_players,
    min_dps_players = EXCLUDED.min_dps_players,
    min_support_players = EXCLUDED.min_support_players`,
		userID, s.MaxPlayers, s.MinDpsPlayers, s.MinSupportPlayers)
	return db.Translate(err)
}
