// Package teststubs holds shared test doubles for the pipeline's
// seams: provider, publisher, broadcaster, and game store.
package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/nba-live-sync/internal/domain"
	"github.com/preston-bernstein/nba-live-sync/internal/upstream"
)

// StubProvider is a test double for providers.ScoreboardProvider.
type StubProvider struct {
	Scoreboard *upstream.Scoreboard
	BoxScores  map[string]*upstream.BoxScore
	Err        error
	Calls      atomic.Int32
	Notify     chan struct{}
}

// FetchScoreboard returns the configured document while tracking calls.
func (s *StubProvider) FetchScoreboard(ctx context.Context) (*upstream.Scoreboard, error) {
	_ = ctx
	s.Calls.Add(1)
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Scoreboard, nil
}

// FetchBoxScore returns the configured box score for the game id.
func (s *StubProvider) FetchBoxScore(ctx context.Context, gameID string) (*upstream.BoxScore, error) {
	_ = ctx
	s.Calls.Add(1)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.BoxScores[gameID], nil
}

// StubPublisher records published messages for verification.
type StubPublisher struct {
	mu        sync.Mutex
	Published []domain.DistributionMessage
	Err       error
}

// Publish appends the message unless an error is configured.
func (p *StubPublisher) Publish(ctx context.Context, msg domain.DistributionMessage) error {
	_ = ctx
	if p.Err != nil {
		return p.Err
	}
	p.mu.Lock()
	p.Published = append(p.Published, msg)
	p.mu.Unlock()
	return nil
}

// Messages returns a copy of everything published so far.
func (p *StubPublisher) Messages() []domain.DistributionMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.DistributionMessage, len(p.Published))
	copy(out, p.Published)
	return out
}

// StubBroadcaster records broadcast frames for verification.
type StubBroadcaster struct {
	mu       sync.Mutex
	Frames   [][]byte
	Delivers int
}

// Broadcast appends the frame and reports the configured delivery count.
func (b *StubBroadcaster) Broadcast(frame []byte) int {
	b.mu.Lock()
	b.Frames = append(b.Frames, frame)
	b.mu.Unlock()
	return b.Delivers
}

// FrameCount reports how many frames were broadcast.
func (b *StubBroadcaster) FrameCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Frames)
}

// StubGameStore is a test double for store.GameStore.
type StubGameStore struct {
	mu       sync.Mutex
	Upserted map[string]domain.GameState
	FailIDs  map[string]error
}

// UpsertGame records the state, or fails for ids listed in FailIDs.
func (s *StubGameStore) UpsertGame(ctx context.Context, g domain.GameState) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.FailIDs[g.GameID]; ok {
		return err
	}
	if s.Upserted == nil {
		s.Upserted = make(map[string]domain.GameState)
	}
	s.Upserted[g.GameID] = g
	return nil
}

// Count reports how many distinct games were upserted.
func (s *StubGameStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Upserted)
}
