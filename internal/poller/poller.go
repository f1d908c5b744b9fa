// Package poller drives the fetch-transform-detect-distribute pipeline
// on an adaptive cadence. Exactly one cycle runs at a time; a cycle
// that overruns its interval delays the next tick instead of
// overlapping it.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/nba-live-sync/internal/detector"
	"github.com/preston-bernstein/nba-live-sync/internal/domain"
	"github.com/preston-bernstein/nba-live-sync/internal/logging"
	"github.com/preston-bernstein/nba-live-sync/internal/metrics"
	"github.com/preston-bernstein/nba-live-sync/internal/providers"
	"github.com/preston-bernstein/nba-live-sync/internal/timeutil"
	"github.com/preston-bernstein/nba-live-sync/internal/transform"
)

// Distributor fans a cycle's changed games out to the sinks.
type Distributor interface {
	Distribute(ctx context.Context, changed []domain.GameState) error
}

// SnapshotStore receives the full normalized snapshot each cycle so the
// read API always serves current state.
type SnapshotStore interface {
	SetGames(games []domain.GameState)
}

// Config controls the scheduler's cadence.
type Config struct {
	PeakInterval    time.Duration
	OffPeakInterval time.Duration
	// Timezone resolves the local clock for peak-hour selection;
	// empty means the process-local zone.
	Timezone string
}

// Poller owns the pipeline loop and its lifecycle.
type Poller struct {
	provider    providers.ScoreboardProvider
	distributor Distributor
	snapshots   SnapshotStore
	detector    *detector.ChangeDetector
	logger      *slog.Logger
	metrics     *metrics.Recorder
	cfg         Config
	loc         *time.Location
	now         func() time.Time

	done     chan struct{}
	finished chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the polling loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the poller has had a recent success and is
// not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller with sane defaults.
func New(provider providers.ScoreboardProvider, dist Distributor, snapshots SnapshotStore, det *detector.ChangeDetector, logger *slog.Logger, recorder *metrics.Recorder, cfg Config) *Poller {
	if cfg.PeakInterval <= 0 {
		cfg.PeakInterval = timeutil.PeakInterval
	}
	if cfg.OffPeakInterval <= 0 {
		cfg.OffPeakInterval = timeutil.OffPeakInterval
	}
	loc := time.Local
	if cfg.Timezone != "" {
		if parsed, err := time.LoadLocation(cfg.Timezone); err == nil {
			loc = parsed
		}
	}
	if det == nil {
		det = detector.New()
	}
	return &Poller{
		provider:    provider,
		distributor: dist,
		snapshots:   snapshots,
		detector:    det,
		logger:      logger,
		metrics:     recorder,
		cfg:         cfg,
		loc:         loc,
		now:         time.Now,
		done:        make(chan struct{}),
		finished:    make(chan struct{}),
	}
}

// IntervalAt selects the polling interval for a wall-clock instant.
func (p *Poller) IntervalAt(t time.Time) time.Duration {
	if timeutil.IsPeakHour(t.In(p.loc)) {
		return p.cfg.PeakInterval
	}
	return p.cfg.OffPeakInterval
}

// Start begins polling until the context is cancelled or Stop is
// called. The first cycle runs immediately.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	go func() {
		defer close(p.finished)

		logging.Info(p.logger, "poller started",
			slog.Int64("peak_interval_ms", p.cfg.PeakInterval.Milliseconds()),
			slog.Int64("offpeak_interval_ms", p.cfg.OffPeakInterval.Milliseconds()),
		)

		// Cancellation stops scheduling only. An in-flight cycle runs
		// to completion on its own per-call deadlines, so shutdown
		// never aborts a fetch or publish midway.
		cycleCtx := context.WithoutCancel(ctx)

		p.runCycle(cycleCtx)
		timer := time.NewTimer(p.IntervalAt(p.now()))
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				logging.Info(p.logger, "poller stopped")
				return
			case <-p.done:
				logging.Info(p.logger, "poller stopped")
				return
			case <-timer.C:
				p.runCycle(cycleCtx)
				timer.Reset(p.IntervalAt(p.now()))
			}
		}
	}()
}

// Stop halts scheduling and waits for an in-flight cycle to finish, or
// for the context to expire.
func (p *Poller) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() {
		close(p.done)
	})

	p.startMu.Lock()
	started := p.started
	p.startMu.Unlock()
	if !started {
		return nil
	}

	select {
	case <-p.finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runCycle executes one pipeline pass. Any failure, including a panic
// in a component, is contained so the next tick still fires.
func (p *Poller) runCycle(ctx context.Context) {
	start := time.Now()
	p.recordAttempt(start)

	err := p.cycle(ctx)
	p.metrics.RecordPollerCycle(time.Since(start), err)

	if err != nil {
		logging.Error(p.logger, "poller cycle failed", err,
			slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
		p.recordFailure(err, start)
		return
	}
	p.recordSuccess(start)
}

func (p *Poller) cycle(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panic: %v", r)
		}
	}()

	fetchStart := time.Now()
	sb, err := p.provider.FetchScoreboard(ctx)
	p.metrics.RecordFetchAttempt("scoreboard", time.Since(fetchStart), err)
	if err != nil {
		return fmt.Errorf("fetch scoreboard: %w", err)
	}

	at := p.now()
	states := make([]domain.GameState, 0, len(sb.Scoreboard.Games))
	for _, raw := range sb.Scoreboard.Games {
		state, terr := transform.ToGameState(raw, at)
		if terr != nil {
			// Fatal for this game only; the rest of the cycle continues.
			logging.Warn(p.logger, "dropping malformed game", logging.FieldGameID, raw.GameID, "err", terr)
			continue
		}
		states = append(states, state)
	}

	if p.snapshots != nil {
		p.snapshots.SetGames(states)
	}

	changed := p.detector.Detect(states)
	p.metrics.RecordChangedGames(len(changed))
	logging.Info(p.logger, "poller cycle complete",
		logging.FieldCount, len(states),
		logging.FieldChanged, len(changed),
		logging.FieldDurationMS, time.Since(fetchStart).Milliseconds(),
	)

	if len(changed) == 0 || p.distributor == nil {
		return nil
	}
	if err := p.distributor.Distribute(ctx, changed); err != nil {
		return fmt.Errorf("distribute: %w", err)
	}
	return nil
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
