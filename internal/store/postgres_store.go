package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/preston-bernstein/nba-live-sync/internal/domain"
)

const createGamesSQL = `
CREATE TABLE IF NOT EXISTS games (
	game_id     TEXT PRIMARY KEY,
	status      TEXT NOT NULL,
	period      INT NOT NULL,
	clock       TEXT NOT NULL,
	home_team   JSONB NOT NULL,
	away_team   JSONB NOT NULL,
	last_update TIMESTAMPTZ NOT NULL
)
`

// The WHERE guard makes replays harmless: an older message never
// overwrites a newer row.
const upsertGameSQL = `
INSERT INTO games (game_id, status, period, clock, home_team, away_team, last_update)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (game_id) DO UPDATE SET
	status = EXCLUDED.status,
	period = EXCLUDED.period,
	clock = EXCLUDED.clock,
	home_team = EXCLUDED.home_team,
	away_team = EXCLUDED.away_team,
	last_update = EXCLUDED.last_update
WHERE EXCLUDED.last_update >= games.last_update
`

// PostgresStore durably records game state via pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing pool and ensures the games schema.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, createGamesSQL); err != nil {
		return nil, fmt.Errorf("ensure games schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// UpsertGame applies one game state, last-write-wins on last_update.
func (s *PostgresStore) UpsertGame(ctx context.Context, g domain.GameState) error {
	_, err := s.pool.Exec(ctx, upsertGameSQL,
		g.GameID, string(g.Status), g.Period, g.Clock, g.HomeTeam, g.AwayTeam, g.LastUpdate)
	if err != nil {
		return fmt.Errorf("upsert game %s: %w", g.GameID, err)
	}
	return nil
}
