package channel

import (
	"context"
	"sync"
	"time"

	"github.com/preston-bernstein/nba-live-sync/internal/domain"
)

const defaultDedupWindow = 10 * time.Minute

// MemoryChannel is an in-process channel backend with the same dedup
// and ordering semantics as the durable one. It backs tests and
// offline development.
type MemoryChannel struct {
	mu          sync.Mutex
	queue       []domain.DistributionMessage
	seen        map[string]time.Time
	dedupWindow time.Duration
	now         func() time.Time
}

// NewMemoryChannel constructs an empty channel. A non-positive window
// falls back to the default.
func NewMemoryChannel(dedupWindow time.Duration) *MemoryChannel {
	if dedupWindow <= 0 {
		dedupWindow = defaultDedupWindow
	}
	return &MemoryChannel{
		seen:        make(map[string]time.Time),
		dedupWindow: dedupWindow,
		now:         time.Now,
	}
}

// Publish appends a message. A dedup id already accepted within the
// window is suppressed without error.
func (c *MemoryChannel) Publish(ctx context.Context, msg domain.DistributionMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.pruneLocked(now)
	if _, dup := c.seen[msg.DedupID]; dup {
		return nil
	}
	c.seen[msg.DedupID] = now
	c.queue = append(c.queue, msg)
	return nil
}

// Pull removes and returns up to limit messages in publish order.
func (c *MemoryChannel) Pull(ctx context.Context, limit int) ([]domain.DistributionMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	n := min(limit, len(c.queue))
	if n == 0 {
		return nil, nil
	}
	batch := make([]domain.DistributionMessage, n)
	copy(batch, c.queue[:n])
	c.queue = append(c.queue[:0:0], c.queue[n:]...)
	return batch, nil
}

// Pending reports the number of unconsumed messages.
func (c *MemoryChannel) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Close releases the channel. No-op for the memory backend.
func (c *MemoryChannel) Close() {}

// SetNow overrides the time source; used by tests to step the window.
func (c *MemoryChannel) SetNow(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

func (c *MemoryChannel) pruneLocked(now time.Time) {
	for id, at := range c.seen {
		if now.Sub(at) > c.dedupWindow {
			delete(c.seen, id)
		}
	}
}
