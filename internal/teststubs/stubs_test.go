package teststubs

import (
	"context"
	"errors"
	"testing"

	"github.com/preston-bernstein/nba-live-sync/internal/domain"
	"github.com/preston-bernstein/nba-live-sync/internal/upstream"
)

func TestStubProviderTracksCalls(t *testing.T) {
	err := errors.New("boom")
	p := &StubProvider{Scoreboard: &upstream.Scoreboard{}, Err: err}
	if _, got := p.FetchScoreboard(context.Background()); !errors.Is(got, err) {
		t.Fatalf("expected error passthrough, got %v", got)
	}
	if _, got := p.FetchBoxScore(context.Background(), "g1"); !errors.Is(got, err) {
		t.Fatalf("expected error passthrough, got %v", got)
	}
	if p.Calls.Load() != 2 {
		t.Fatalf("expected call count 2, got %d", p.Calls.Load())
	}
}

func TestStubProviderNotify(t *testing.T) {
	p := &StubProvider{Scoreboard: &upstream.Scoreboard{}, Notify: make(chan struct{})}
	if _, err := p.FetchScoreboard(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	select {
	case <-p.Notify:
	default:
		t.Fatal("expected notify channel closed on first fetch")
	}
	// A second fetch must not close the channel again.
	if _, err := p.FetchScoreboard(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
}

func TestStubPublisherRecordsMessages(t *testing.T) {
	p := &StubPublisher{}
	msg := domain.DistributionMessage{GameID: "g1", DedupID: "d1"}
	if err := p.Publish(context.Background(), msg); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got := p.Messages(); len(got) != 1 || got[0].GameID != "g1" {
		t.Fatalf("unexpected messages %+v", got)
	}

	p.Err = errors.New("channel down")
	if err := p.Publish(context.Background(), msg); err == nil {
		t.Fatal("expected configured error")
	}
	if len(p.Messages()) != 1 {
		t.Fatal("failed publish should not be recorded")
	}
}

func TestStubGameStoreFailIDs(t *testing.T) {
	s := &StubGameStore{FailIDs: map[string]error{"bad": errors.New("boom")}}
	if err := s.UpsertGame(context.Background(), domain.GameState{GameID: "good"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.UpsertGame(context.Background(), domain.GameState{GameID: "bad"}); err == nil {
		t.Fatal("expected configured failure")
	}
	if s.Count() != 1 {
		t.Fatalf("expected 1 recorded upsert, got %d", s.Count())
	}
}
