// Package channel provides the durable ordered message channel between
// the distributor and downstream consumers. Per-game ordering is
// preserved via the ordering key; duplicate publishes inside the dedup
// window collapse to a single delivered message.
package channel

import (
	"context"

	"github.com/preston-bernstein/nba-live-sync/internal/domain"
)

// Publisher appends messages to the channel. Publish failures are a
// correctness issue and must surface to the caller.
type Publisher interface {
	Publish(ctx context.Context, msg domain.DistributionMessage) error
}

// Source drains the channel in batches. A pulled message counts as
// consumed; consumers apply idempotent upserts, so re-processing after
// a crash is safe but not required.
type Source interface {
	Pull(ctx context.Context, limit int) ([]domain.DistributionMessage, error)
}

// Channel is a full two-sided backend.
type Channel interface {
	Publisher
	Source
	Close()
}
