package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/nba-live-sync/internal/cache"
	"github.com/preston-bernstein/nba-live-sync/internal/domain"
	"github.com/preston-bernstein/nba-live-sync/internal/metrics"
	"github.com/preston-bernstein/nba-live-sync/internal/poller"
	"github.com/preston-bernstein/nba-live-sync/internal/providers"
	"github.com/preston-bernstein/nba-live-sync/internal/store"
	"github.com/preston-bernstein/nba-live-sync/internal/transform"
	"github.com/preston-bernstein/nba-live-sync/internal/ws"
)

type nowFunc func() time.Time

// GamesResponse is the payload returned by /games.
type GamesResponse struct {
	Games []domain.GameState `json:"games"`
}

// Handler wires HTTP routes to the cached pipeline state.
type Handler struct {
	snapshots   *store.MemoryStore
	cache       cache.Cache
	provider    providers.ScoreboardProvider
	hub         *ws.Hub
	boxScoreTTL time.Duration
	logger      *slog.Logger
	metrics     *metrics.Recorder
	statusFn    func() poller.Status
	now         nowFunc
}

// NewHandler constructs a Handler with defaults.
func NewHandler(snapshots *store.MemoryStore, c cache.Cache, provider providers.ScoreboardProvider, hub *ws.Hub, boxScoreTTL time.Duration, logger *slog.Logger, recorder *metrics.Recorder, statusFn func() poller.Status) *Handler {
	return &Handler{
		snapshots:   snapshots,
		cache:       c,
		provider:    provider,
		hub:         hub,
		boxScoreTTL: boxScoreTTL,
		logger:      logger,
		metrics:     recorder,
		statusFn:    statusFn,
		now:         time.Now,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports whether the polling loop is healthy enough to serve.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.statusFn == nil {
		h.writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"})
		return
	}
	status := h.statusFn()
	if !status.IsReady() {
		h.writeJSON(w, nethttp.StatusServiceUnavailable, map[string]any{
			"status":               "not ready",
			"consecutive_failures": status.ConsecutiveFailures,
			"last_error":           status.LastError,
		})
		return
	}
	h.writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"})
}

// Games returns the current snapshot of game state.
func (h *Handler) Games(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.writeJSON(w, nethttp.StatusOK, GamesResponse{Games: h.snapshots.ListGames()})
}

// GameBoxScore returns one game's box score, serving from cache when
// fresh and refetching on a miss. Expects /games/{id}/boxscore.
func (h *Handler) GameBoxScore(w nethttp.ResponseWriter, r *nethttp.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/games/")
	gameID, ok := strings.CutSuffix(rest, "/boxscore")
	if !ok || gameID == "" || strings.Contains(gameID, "/") {
		h.writeError(w, nethttp.StatusNotFound, "not found")
		return
	}

	key := cache.BoxScoreKey(gameID)
	if payload, hit, err := h.cache.Get(key); err == nil && hit {
		h.metrics.RecordCacheLookup(true)
		h.writeRawJSON(w, nethttp.StatusOK, payload)
		return
	}
	h.metrics.RecordCacheLookup(false)

	raw, err := h.provider.FetchBoxScore(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, providers.ErrGameNotFound) {
			h.writeError(w, nethttp.StatusNotFound, "game not found")
			return
		}
		h.logError("boxscore fetch failed", err)
		h.writeError(w, nethttp.StatusBadGateway, "upstream unavailable")
		return
	}

	box, err := transform.ToBoxScore(*raw, h.now())
	if err != nil {
		h.logError("boxscore transform failed", err)
		h.writeError(w, nethttp.StatusBadGateway, "malformed upstream document")
		return
	}

	payload, err := json.Marshal(box)
	if err != nil {
		h.logError("boxscore encode failed", err)
		h.writeError(w, nethttp.StatusInternalServerError, "internal error")
		return
	}
	// Best effort; a failed write just means the next read refetches.
	_ = h.cache.Put(key, payload, h.boxScoreTTL)

	h.writeRawJSON(w, nethttp.StatusOK, payload)
}

// Subscribe upgrades the request to a live-update socket.
func (h *Handler) Subscribe(w nethttp.ResponseWriter, r *nethttp.Request) {
	ws.ServeWS(h.hub, h.logger, w, r)
}

func (h *Handler) writeJSON(w nethttp.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logError("failed to encode response", err)
	}
}

func (h *Handler) writeRawJSON(w nethttp.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		h.logError("failed to write response", err)
	}
}

func (h *Handler) writeError(w nethttp.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) logError(msg string, err error) {
	if h.logger != nil {
		h.logger.Error(msg, "error", err)
	}
}
