// Package consumer drains the durable channel and applies idempotent
// upserts to the persistent store. It runs on its own schedule,
// decoupled from the polling loop.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/preston-bernstein/nba-live-sync/internal/channel"
	"github.com/preston-bernstein/nba-live-sync/internal/domain"
	"github.com/preston-bernstein/nba-live-sync/internal/logging"
	"github.com/preston-bernstein/nba-live-sync/internal/metrics"
	"github.com/preston-bernstein/nba-live-sync/internal/store"
)

const (
	defaultBatchSize     = 50
	defaultDrainInterval = 15 * time.Second
)

// Worker periodically pulls message batches and upserts game state.
type Worker struct {
	source    channel.Source
	store     store.GameStore
	logger    *slog.Logger
	metrics   *metrics.Recorder
	batchSize int
	interval  time.Duration
}

// New constructs a Worker with sane defaults.
func New(source channel.Source, gameStore store.GameStore, logger *slog.Logger, recorder *metrics.Recorder, batchSize int, interval time.Duration) *Worker {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if interval <= 0 {
		interval = defaultDrainInterval
	}
	return &Worker{
		source:    source,
		store:     gameStore,
		logger:    logger,
		metrics:   recorder,
		batchSize: batchSize,
		interval:  interval,
	}
}

// Run drains batches until the context is cancelled. A batch-level
// failure is logged and the whole batch retried on the next tick; it
// never kills the loop.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logging.Info(w.logger, "consumer started",
		"batch_size", w.batchSize,
		slog.Int64(logging.FieldDurationMS, w.interval.Milliseconds()),
	)

	for {
		select {
		case <-ctx.Done():
			logging.Info(w.logger, "consumer stopped")
			return
		case <-ticker.C:
			if err := w.DrainOnce(ctx); err != nil {
				logging.Error(w.logger, "consumer batch failed", err)
			}
		}
	}
}

// DrainOnce pulls and applies one batch. Per-message failures are
// logged and skipped so one bad message never blocks the rest;
// batch-level (pull) failures propagate to the caller.
func (w *Worker) DrainOnce(ctx context.Context) error {
	batch, err := w.source.Pull(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("pull batch: %w", err)
	}
	if len(batch) == 0 {
		return nil
	}

	applied := 0
	for _, msg := range batch {
		err := w.apply(ctx, msg)
		w.metrics.RecordConsumed(err)
		if err != nil {
			logging.Error(w.logger, "skipping bad message", err, logging.FieldGameID, msg.GameID)
			continue
		}
		applied++
	}

	logging.Info(w.logger, "consumer batch applied",
		logging.FieldCount, applied,
		"batch", len(batch),
	)
	return nil
}

func (w *Worker) apply(ctx context.Context, msg domain.DistributionMessage) error {
	var state domain.GameState
	if err := json.Unmarshal(msg.Payload, &state); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if state.GameID == "" {
		state.GameID = msg.GameID
	}
	if err := w.store.UpsertGame(ctx, state); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}
