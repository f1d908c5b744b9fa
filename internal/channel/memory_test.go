package channel

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-live-sync/internal/domain"
)

func msg(gameID, dedupID string) domain.DistributionMessage {
	return domain.DistributionMessage{
		GameID:      gameID,
		Payload:     []byte(fmt.Sprintf(`{"gameId":%q}`, gameID)),
		OrderingKey: domain.OrderingKeyFor(gameID),
		DedupID:     dedupID,
		Attributes:  map[string]string{domain.AttrGameID: gameID},
	}
}

func TestPublishPullPreservesOrder(t *testing.T) {
	ch := NewMemoryChannel(0)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := ch.Publish(ctx, msg(fmt.Sprintf("g%d", i), fmt.Sprintf("d%d", i))); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}

	batch, err := ch.Pull(ctx, 10)
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if len(batch) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(batch))
	}
	for i, m := range batch {
		if want := fmt.Sprintf("g%d", i); m.GameID != want {
			t.Fatalf("message %d out of order: got %s want %s", i, m.GameID, want)
		}
	}
}

func TestPublishSuppressesDuplicateDedupID(t *testing.T) {
	ch := NewMemoryChannel(0)
	ctx := context.Background()

	if err := ch.Publish(ctx, msg("g1", "dup")); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := ch.Publish(ctx, msg("g1", "dup")); err != nil {
		t.Fatalf("duplicate publish should be silent, got %v", err)
	}

	if got := ch.Pending(); got != 1 {
		t.Fatalf("expected 1 pending message, got %d", got)
	}
}

func TestDedupWindowExpires(t *testing.T) {
	ch := NewMemoryChannel(10 * time.Minute)
	now := time.Date(2024, 1, 15, 19, 0, 0, 0, time.UTC)
	ch.SetNow(func() time.Time { return now })
	ctx := context.Background()

	ch.Publish(ctx, msg("g1", "dup"))
	if _, err := ch.Pull(ctx, 10); err != nil {
		t.Fatalf("pull: %v", err)
	}

	// Inside the window the id is still remembered.
	now = now.Add(9 * time.Minute)
	ch.Publish(ctx, msg("g1", "dup"))
	if got := ch.Pending(); got != 0 {
		t.Fatalf("expected dup suppressed inside window, pending=%d", got)
	}

	// Past the window the id is forgotten and accepted again.
	now = now.Add(2 * time.Minute)
	ch.Publish(ctx, msg("g1", "dup"))
	if got := ch.Pending(); got != 1 {
		t.Fatalf("expected dup accepted past window, pending=%d", got)
	}
}

func TestPullRespectsLimit(t *testing.T) {
	ch := NewMemoryChannel(0)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ch.Publish(ctx, msg(fmt.Sprintf("g%d", i), fmt.Sprintf("d%d", i)))
	}

	first, err := ch.Pull(ctx, 2)
	if err != nil || len(first) != 2 {
		t.Fatalf("expected 2 messages, got %d err=%v", len(first), err)
	}
	if first[0].GameID != "g0" || first[1].GameID != "g1" {
		t.Fatalf("unexpected batch: %+v", first)
	}

	rest, _ := ch.Pull(ctx, 10)
	if len(rest) != 3 || rest[0].GameID != "g2" {
		t.Fatalf("unexpected remainder: %+v", rest)
	}
	if ch.Pending() != 0 {
		t.Fatalf("expected drained channel, pending=%d", ch.Pending())
	}
}

func TestPullEmptyReturnsNil(t *testing.T) {
	ch := NewMemoryChannel(0)
	batch, err := ch.Pull(context.Background(), 10)
	if err != nil || batch != nil {
		t.Fatalf("expected nil batch, got %v err=%v", batch, err)
	}
}

func TestCancelledContext(t *testing.T) {
	ch := NewMemoryChannel(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := ch.Publish(ctx, msg("g1", "d1")); err == nil {
		t.Fatal("expected publish error on cancelled context")
	}
	if _, err := ch.Pull(ctx, 10); err == nil {
		t.Fatal("expected pull error on cancelled context")
	}
}
