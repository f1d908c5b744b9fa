// Package ws implements the socket fan-out: one logical update is
// delivered to every connected subscriber, and no subscriber's failure
// or latency affects delivery to the others.
package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/nba-live-sync/internal/logging"
	"github.com/preston-bernstein/nba-live-sync/internal/metrics"
)

// Hub tracks connected subscribers and broadcasts frames to them.
type Hub struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time

	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool
}

// NewHub constructs an empty hub.
func NewHub(logger *slog.Logger, recorder *metrics.Recorder) *Hub {
	return &Hub{
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
		clients: make(map[*Client]struct{}),
	}
}

// Register adds a subscriber to the fan-out set.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		c.close()
		return
	}
	h.clients[c] = struct{}{}
	logging.Info(h.logger, "subscriber connected", logging.FieldClients, len(h.clients))
}

// Unregister removes a subscriber and releases its send queue.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.close()
	logging.Info(h.logger, "subscriber disconnected", logging.FieldClients, len(h.clients))
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues a frame for every open subscriber. Delivery is
// best-effort per subscriber: a closed connection or a full send queue
// is skipped without affecting the rest.
func (h *Hub) Broadcast(frame []byte) int {
	// Enqueueing is non-blocking, so holding the read lock for the
	// whole fan-out is cheap and keeps Unregister from closing a send
	// queue mid-broadcast.
	h.mu.RLock()
	delivered := 0
	for c := range h.clients {
		if c.enqueue(frame) {
			delivered++
		}
	}
	h.mu.RUnlock()

	h.metrics.RecordBroadcast(delivered)
	return delivered
}

// Close disconnects all subscribers and rejects new registrations.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
	logging.Info(h.logger, "hub closed")
}
