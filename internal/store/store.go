package store

import (
	"context"

	"github.com/preston-bernstein/nba-live-sync/internal/domain"
)

// GameStore is the persistent-store write contract consumed by the
// channel consumer. UpsertGame is idempotent and last-write-wins on
// LastUpdate, so replayed messages never regress state.
type GameStore interface {
	UpsertGame(ctx context.Context, g domain.GameState) error
}
