// Package distributor fans changed game state out to the two sinks:
// live socket subscribers and the durable message channel. The sinks
// are independent; neither one's failure mode affects the other.
package distributor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/nba-live-sync/internal/cache"
	"github.com/preston-bernstein/nba-live-sync/internal/channel"
	"github.com/preston-bernstein/nba-live-sync/internal/domain"
	"github.com/preston-bernstein/nba-live-sync/internal/logging"
	"github.com/preston-bernstein/nba-live-sync/internal/metrics"
	"github.com/preston-bernstein/nba-live-sync/internal/ws"
)

// Broadcaster is the socket sink.
type Broadcaster interface {
	Broadcast(frame []byte) int
}

// Distributor pushes changed games to subscribers and the channel, and
// refreshes the cache on the way through.
type Distributor struct {
	hub       Broadcaster
	publisher channel.Publisher
	cache     cache.Cache
	scoreTTL  time.Duration
	logger    *slog.Logger
	metrics   *metrics.Recorder
	now       func() time.Time
	newDedup  func() string

	// lastStatus backs alert emission on status transitions. Written
	// only inside Distribute, which runs once per cycle.
	lastStatus map[string]domain.GameStatus
}

// New constructs a Distributor.
func New(hub Broadcaster, publisher channel.Publisher, c cache.Cache, scoreTTL time.Duration, logger *slog.Logger, recorder *metrics.Recorder) *Distributor {
	return &Distributor{
		hub:        hub,
		publisher:  publisher,
		cache:      c,
		scoreTTL:   scoreTTL,
		logger:     logger,
		metrics:    recorder,
		now:        time.Now,
		newDedup:   uuid.NewString,
		lastStatus: make(map[string]domain.GameStatus),
	}
}

// Distribute handles one cycle's changed games. Cache and socket
// failures are absorbed here; channel publish failures are joined and
// returned so the scheduler can decide what to do with the cycle.
func (d *Distributor) Distribute(ctx context.Context, changed []domain.GameState) error {
	var publishErrs error

	for _, g := range changed {
		payload, err := json.Marshal(g)
		if err != nil {
			logging.Error(d.logger, "marshal game state", err, logging.FieldGameID, g.GameID)
			continue
		}

		d.refreshCache(g, payload)
		d.broadcast(g)

		msg := domain.DistributionMessage{
			GameID:      g.GameID,
			Payload:     payload,
			OrderingKey: domain.OrderingKeyFor(g.GameID),
			DedupID:     d.newDedup(),
			Attributes:  domain.MessageAttributes(g),
		}
		err = d.publisher.Publish(ctx, msg)
		d.metrics.RecordPublish(err)
		if err != nil {
			publishErrs = errors.Join(publishErrs, err)
		}
	}

	return publishErrs
}

func (d *Distributor) refreshCache(g domain.GameState, payload []byte) {
	// The box score for a changed game is stale; drop it so the next
	// read refetches.
	if err := d.cache.Invalidate(g.GameID); err != nil {
		logging.Warn(d.logger, "cache invalidate failed", logging.FieldGameID, g.GameID, "err", err)
	}
	if err := d.cache.Put(cache.GameKey(g.GameID), payload, d.scoreTTL); err != nil {
		logging.Warn(d.logger, "cache write failed", logging.FieldGameID, g.GameID, "err", err)
	}
}

func (d *Distributor) broadcast(g domain.GameState) {
	at := d.now()

	frame, err := ws.GameUpdateFrame(g, at)
	if err != nil {
		logging.Error(d.logger, "marshal game-update frame", err, logging.FieldGameID, g.GameID)
		return
	}
	d.hub.Broadcast(frame)

	if alert, ok := d.alertFor(g); ok {
		if frame, err := ws.AlertFrame(alert, at); err == nil {
			d.hub.Broadcast(frame)
		}
	}
}

// alertFor emits an alert the first time a game is seen live or final.
func (d *Distributor) alertFor(g domain.GameState) (domain.GameAlert, bool) {
	prev, seen := d.lastStatus[g.GameID]
	d.lastStatus[g.GameID] = g.Status
	if seen && prev == g.Status {
		return domain.GameAlert{}, false
	}

	switch g.Status {
	case domain.StatusLive:
		if !seen || prev == domain.StatusScheduled {
			return domain.GameAlert{
				GameID:  g.GameID,
				Kind:    domain.AlertGameStarted,
				Message: g.AwayTeam.Tricode + " @ " + g.HomeTeam.Tricode + " is live",
			}, true
		}
	case domain.StatusFinal:
		if !seen || prev != domain.StatusFinal {
			return domain.GameAlert{
				GameID:  g.GameID,
				Kind:    domain.AlertGameFinal,
				Message: g.AwayTeam.Tricode + " @ " + g.HomeTeam.Tricode + " is final",
			}, true
		}
	}
	return domain.GameAlert{}, false
}
