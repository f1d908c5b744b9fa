package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-live-sync/internal/channel"
	"github.com/preston-bernstein/nba-live-sync/internal/domain"
	"github.com/preston-bernstein/nba-live-sync/internal/metrics"
	"github.com/preston-bernstein/nba-live-sync/internal/teststubs"
)

type failingSource struct {
	err error
}

func (s *failingSource) Pull(ctx context.Context, limit int) ([]domain.DistributionMessage, error) {
	_ = ctx
	_ = limit
	return nil, s.err
}

func stateMessage(t *testing.T, gameID string, score int) domain.DistributionMessage {
	t.Helper()
	payload, err := json.Marshal(domain.GameState{
		GameID:   gameID,
		Status:   domain.StatusLive,
		HomeTeam: domain.TeamState{Tricode: "BOS", Score: score},
		AwayTeam: domain.TeamState{Tricode: "LAL", Score: 40},
	})
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	return domain.DistributionMessage{
		GameID:      gameID,
		Payload:     payload,
		OrderingKey: domain.OrderingKeyFor(gameID),
		DedupID:     "dedup-" + gameID,
		Attributes:  domain.MessageAttributes(domain.GameState{GameID: gameID}),
	}
}

func TestDrainOnceAppliesBatch(t *testing.T) {
	ch := channel.NewMemoryChannel(0)
	ctx := context.Background()
	ch.Publish(ctx, stateMessage(t, "g1", 50))
	ch.Publish(ctx, stateMessage(t, "g2", 60))

	gameStore := &teststubs.StubGameStore{}
	w := New(ch, gameStore, nil, metrics.NewRecorder(), 10, time.Second)

	if err := w.DrainOnce(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if gameStore.Count() != 2 {
		t.Fatalf("expected 2 upserts, got %d", gameStore.Count())
	}
	if g := gameStore.Upserted["g1"]; g.HomeTeam.Score != 50 {
		t.Fatalf("unexpected upserted state %+v", g)
	}
	if ch.Pending() != 0 {
		t.Fatalf("expected drained channel, pending=%d", ch.Pending())
	}
}

func TestDrainOnceSkipsBadPayload(t *testing.T) {
	ch := channel.NewMemoryChannel(0)
	ctx := context.Background()
	ch.Publish(ctx, domain.DistributionMessage{
		GameID:  "bad",
		Payload: []byte("not json"),
		DedupID: "dedup-bad",
	})
	ch.Publish(ctx, stateMessage(t, "g1", 50))

	gameStore := &teststubs.StubGameStore{}
	w := New(ch, gameStore, nil, metrics.NewRecorder(), 10, time.Second)

	if err := w.DrainOnce(ctx); err != nil {
		t.Fatalf("a bad message must not fail the batch: %v", err)
	}
	if gameStore.Count() != 1 {
		t.Fatalf("expected 1 upsert past the bad message, got %d", gameStore.Count())
	}
}

func TestDrainOnceSkipsFailedUpsert(t *testing.T) {
	ch := channel.NewMemoryChannel(0)
	ctx := context.Background()
	ch.Publish(ctx, stateMessage(t, "g1", 50))
	ch.Publish(ctx, stateMessage(t, "g2", 60))

	gameStore := &teststubs.StubGameStore{
		FailIDs: map[string]error{"g1": errors.New("constraint violation")},
	}
	w := New(ch, gameStore, nil, metrics.NewRecorder(), 10, time.Second)

	if err := w.DrainOnce(ctx); err != nil {
		t.Fatalf("a failed upsert must not fail the batch: %v", err)
	}
	if gameStore.Count() != 1 {
		t.Fatalf("expected only g2 applied, got %d", gameStore.Count())
	}
	if _, ok := gameStore.Upserted["g2"]; !ok {
		t.Fatal("g2 should have been applied despite g1 failing")
	}
}

func TestDrainOncePullErrorPropagates(t *testing.T) {
	wantErr := errors.New("database gone")
	w := New(&failingSource{err: wantErr}, &teststubs.StubGameStore{}, nil, metrics.NewRecorder(), 10, time.Second)

	if err := w.DrainOnce(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected pull error to propagate, got %v", err)
	}
}

func TestDrainOnceRespectsBatchSize(t *testing.T) {
	ch := channel.NewMemoryChannel(0)
	ctx := context.Background()
	for _, id := range []string{"g1", "g2", "g3"} {
		ch.Publish(ctx, stateMessage(t, id, 50))
	}

	gameStore := &teststubs.StubGameStore{}
	w := New(ch, gameStore, nil, metrics.NewRecorder(), 2, time.Second)

	if err := w.DrainOnce(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if gameStore.Count() != 2 || ch.Pending() != 1 {
		t.Fatalf("expected 2 applied and 1 pending, got %d/%d", gameStore.Count(), ch.Pending())
	}
}

func TestDuplicatePublishYieldsSingleUpsert(t *testing.T) {
	ch := channel.NewMemoryChannel(time.Minute)
	ctx := context.Background()
	msg := stateMessage(t, "g1", 50)
	ch.Publish(ctx, msg)
	ch.Publish(ctx, msg)

	gameStore := &teststubs.StubGameStore{}
	w := New(ch, gameStore, nil, metrics.NewRecorder(), 10, time.Second)

	if err := w.DrainOnce(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if gameStore.Count() != 1 {
		t.Fatalf("dedup should collapse to one upsert, got %d", gameStore.Count())
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ch := channel.NewMemoryChannel(0)
	w := New(ch, &teststubs.StubGameStore{}, nil, metrics.NewRecorder(), 10, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on cancel")
	}
}
