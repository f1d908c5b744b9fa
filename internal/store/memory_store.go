package store

import (
	"context"
	"sync"

	"github.com/preston-bernstein/nba-live-sync/internal/domain"
)

// MemoryStore keeps a thread-safe snapshot of game state in memory. It
// serves the read API and doubles as the GameStore for offline runs.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]domain.GameState
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games: make(map[string]domain.GameState),
	}
}

// ListGames returns a copy of the current games.
func (s *MemoryStore) ListGames() []domain.GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.GameState, 0, len(s.games))
	for _, g := range s.games {
		result = append(result, g)
	}
	return result
}

// GetGame retrieves a game by ID.
func (s *MemoryStore) GetGame(id string) (domain.GameState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	return g, ok
}

// SetGames replaces the existing games with a new snapshot.
func (s *MemoryStore) SetGames(games []domain.GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]domain.GameState, len(games))
	for _, g := range games {
		s.games[g.GameID] = g
	}
}

// UpsertGame applies one game, keeping the newer LastUpdate.
func (s *MemoryStore) UpsertGame(ctx context.Context, g domain.GameState) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.games[g.GameID]; ok && cur.LastUpdate.After(g.LastUpdate) {
		return nil
	}
	s.games[g.GameID] = g
	return nil
}
