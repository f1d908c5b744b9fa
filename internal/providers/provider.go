package providers

import (
	"context"

	"github.com/preston-bernstein/nba-live-sync/internal/upstream"
)

// ScoreboardProvider defines how raw upstream game documents are fetched.
// FetchScoreboard returns the full scoreboard for the current day;
// FetchBoxScore returns one game's detailed document. Implementations
// must honor context cancellation and carry their own call timeouts.
type ScoreboardProvider interface {
	FetchScoreboard(ctx context.Context) (*upstream.Scoreboard, error)
	FetchBoxScore(ctx context.Context, gameID string) (*upstream.BoxScore, error)
}
