package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/preston-bernstein/nba-live-sync/internal/cache"
	"github.com/preston-bernstein/nba-live-sync/internal/channel"
	"github.com/preston-bernstein/nba-live-sync/internal/config"
	"github.com/preston-bernstein/nba-live-sync/internal/consumer"
	"github.com/preston-bernstein/nba-live-sync/internal/database"
	"github.com/preston-bernstein/nba-live-sync/internal/detector"
	"github.com/preston-bernstein/nba-live-sync/internal/distributor"
	"github.com/preston-bernstein/nba-live-sync/internal/httpapi"
	"github.com/preston-bernstein/nba-live-sync/internal/logging"
	"github.com/preston-bernstein/nba-live-sync/internal/metrics"
	"github.com/preston-bernstein/nba-live-sync/internal/poller"
	"github.com/preston-bernstein/nba-live-sync/internal/providers"
	"github.com/preston-bernstein/nba-live-sync/internal/store"
	"github.com/preston-bernstein/nba-live-sync/internal/ws"
)

var metricsSetup = metrics.Setup

// Server owns the whole pipeline: poller, cache, hub, channel, consumer,
// and the HTTP surface.
type Server struct {
	cfg       config.Config
	logger    *slog.Logger
	metrics   *metrics.Recorder
	pool      *pgxpool.Pool
	backend   channel.Channel
	snapshots *store.MemoryStore
	hub       *ws.Hub
	poller    *poller.Poller
	worker    *consumer.Worker

	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
}

// New constructs a server with default provider wiring.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithProvider(ctx, cfg, logger, buildProvider(cfg, logger))
}

func newServerWithProvider(ctx context.Context, cfg config.Config, logger *slog.Logger, provider providers.ScoreboardProvider) (*Server, error) {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger)

	pool, backend, gameStore, err := buildChannel(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	snapshots := store.NewMemoryStore()
	memCache := cache.NewMemoryCache()
	hub := ws.NewHub(logger, recorder)

	dist := distributor.New(hub, backend, memCache, cfg.Cache.ScoreTTL, logger, recorder)
	det := detector.New()
	plr := poller.New(provider, dist, snapshots, det, logger, recorder, poller.Config{
		PeakInterval:    cfg.Poll.PeakInterval,
		OffPeakInterval: cfg.Poll.OffPeakInterval,
		Timezone:        cfg.Poll.Timezone,
	})

	var worker *consumer.Worker
	if cfg.Consumer.Enabled {
		worker = consumer.New(backend, gameStore, logger, recorder, cfg.Consumer.BatchSize, cfg.Consumer.DrainInterval)
	}

	handler := httpapi.NewHandler(snapshots, memCache, provider, hub, cfg.Cache.BoxScoreTTL, logger, recorder, plr.Status)
	router := httpapi.NewRouter(handler)
	wrapped := httpapi.LoggingMiddleware(logger, recorder, router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		pool:          pool,
		backend:       backend,
		snapshots:     snapshots,
		hub:           hub,
		poller:        plr,
		worker:        worker,
		httpServer:    netHTTPServer{srv: srv},
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}, nil
}

// buildChannel selects the channel backend and the matching persistent
// store. The memory pair keeps the full pipeline runnable offline.
func buildChannel(ctx context.Context, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, channel.Channel, store.GameStore, error) {
	if !strings.EqualFold(cfg.Channel.Backend, "postgres") {
		return nil, channel.NewMemoryChannel(cfg.Channel.DedupWindow), store.NewMemoryStore(), nil
	}

	pool, err := database.Connect(ctx, cfg.Channel.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	backend, err := channel.NewPostgresChannel(ctx, pool, logger)
	if err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	gameStore, err := store.NewPostgresStore(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	return pool, backend, gameStore, nil
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, httpServer, func(context.Context) error) {
	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", handler)
		metricsSrv = netHTTPServer{srv: &http.Server{
			Addr:        ":" + recCfg.Port,
			Handler:     mux,
			ReadTimeout: readTimeout,
			IdleTimeout: idleTimeout,
		}}
	}
	return rec, metricsSrv, shutdown
}

// Run starts the poller, consumer, and HTTP servers, then waits for
// context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.poller.Start(ctx)
	if s.worker != nil {
		go s.worker.Run(ctx)
	}
	if p, ok := s.backend.(pruner); ok {
		go s.runPruner(ctx, p)
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

// pruner is implemented by channel backends that persist consumed
// messages and need periodic cleanup.
type pruner interface {
	Prune(ctx context.Context, retention time.Duration) error
}

func (s *Server) runPruner(ctx context.Context, p pruner) {
	retention := s.cfg.Channel.DedupWindow
	if retention <= 0 {
		retention = 10 * time.Minute
	}
	ticker := time.NewTicker(retention)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Prune(ctx, retention); err != nil {
				logging.Warn(s.logger, "outbox prune failed", "err", err)
			}
		}
	}
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onErr func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error(logger, name+" server failed", err)
			if onErr != nil {
				onErr(err)
			}
		}
	}()
}

// gracefulShutdown stops scheduling, lets the in-flight cycle finish,
// then releases sockets and channel connections in that order.
func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.poller.Stop(shutdownCtx); err != nil {
		logging.Error(s.logger, "failed to stop poller", err)
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}
	s.hub.Close()
	s.backend.Close()
	if s.pool != nil {
		s.pool.Close()
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}
