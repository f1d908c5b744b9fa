package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/preston-bernstein/nba-live-sync/internal/domain"
	"github.com/preston-bernstein/nba-live-sync/internal/logging"
)

const createOutboxSQL = `
CREATE TABLE IF NOT EXISTS game_updates (
	id           BIGSERIAL PRIMARY KEY,
	dedup_id     TEXT NOT NULL UNIQUE,
	ordering_key TEXT NOT NULL,
	game_id      TEXT NOT NULL,
	payload      JSONB NOT NULL,
	attributes   JSONB NOT NULL,
	published_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	consumed_at  TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS game_updates_pending_idx
	ON game_updates (id) WHERE consumed_at IS NULL;
`

const insertUpdateSQL = `
INSERT INTO game_updates (dedup_id, ordering_key, game_id, payload, attributes)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (dedup_id) DO NOTHING
`

// The CTE locks pending rows with SKIP LOCKED so concurrent drains
// never hand the same message to two workers; bigserial order keeps
// per-ordering-key delivery in publish order.
const pullUpdatesSQL = `
WITH pending AS (
	SELECT id FROM game_updates
	WHERE consumed_at IS NULL
	ORDER BY id
	LIMIT $1
	FOR UPDATE SKIP LOCKED
)
UPDATE game_updates u
SET consumed_at = now()
FROM pending
WHERE u.id = pending.id
RETURNING u.game_id, u.payload, u.ordering_key, u.dedup_id, u.attributes
`

const pruneConsumedSQL = `
DELETE FROM game_updates
WHERE consumed_at IS NOT NULL
  AND consumed_at < now() - ($1 * interval '1 second')
`

// PostgresChannel is the durable channel backend, implemented as an
// outbox table.
type PostgresChannel struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresChannel wraps an existing pool and ensures the outbox
// schema exists. The pool's lifecycle belongs to the caller.
func NewPostgresChannel(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) (*PostgresChannel, error) {
	if _, err := pool.Exec(ctx, createOutboxSQL); err != nil {
		return nil, fmt.Errorf("ensure outbox schema: %w", err)
	}
	return &PostgresChannel{pool: pool, logger: logger}, nil
}

// Publish inserts one message. A duplicate dedup id inside the
// retention window is suppressed by the unique constraint.
func (c *PostgresChannel) Publish(ctx context.Context, msg domain.DistributionMessage) error {
	attrs, err := json.Marshal(msg.Attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}
	if _, err := c.pool.Exec(ctx, insertUpdateSQL, msg.DedupID, msg.OrderingKey, msg.GameID, msg.Payload, attrs); err != nil {
		return fmt.Errorf("publish game update: %w", err)
	}
	return nil
}

// Pull consumes up to limit pending messages in publish order.
func (c *PostgresChannel) Pull(ctx context.Context, limit int) ([]domain.DistributionMessage, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := c.pool.Query(ctx, pullUpdatesSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("pull game updates: %w", err)
	}
	defer rows.Close()

	var batch []domain.DistributionMessage
	for rows.Next() {
		var (
			msg      domain.DistributionMessage
			rawAttrs []byte
		)
		if err := rows.Scan(&msg.GameID, &msg.Payload, &msg.OrderingKey, &msg.DedupID, &rawAttrs); err != nil {
			return nil, fmt.Errorf("scan game update: %w", err)
		}
		if err := json.Unmarshal(rawAttrs, &msg.Attributes); err != nil {
			logging.Warn(c.logger, "bad attributes on game update", logging.FieldGameID, msg.GameID, "err", err)
		}
		batch = append(batch, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pull game updates: %w", err)
	}
	return batch, nil
}

// Prune drops consumed rows older than the retention window. Rows
// inside the window keep serving dedup-id suppression.
func (c *PostgresChannel) Prune(ctx context.Context, retention time.Duration) error {
	_, err := c.pool.Exec(ctx, pruneConsumedSQL, retention.Seconds())
	return err
}

// Close is a no-op; the pool is owned by the caller.
func (c *PostgresChannel) Close() {}
