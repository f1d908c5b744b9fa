package detector

import (
	"testing"
	"time"

	"github.com/preston-bernstein/nba-live-sync/internal/domain"
)

func liveGame(id string, homeScore int) domain.GameState {
	return domain.GameState{
		GameID: id,
		Status: domain.StatusLive,
		Period: 2,
		Clock:  "7:14",
		HomeTeam: domain.TeamState{
			TeamID:  "1610612738",
			Tricode: "BOS",
			Score:   homeScore,
			Stats:   domain.TeamStats{Rebounds: 20, Assists: 15, Blocks: 2},
		},
		AwayTeam: domain.TeamState{
			TeamID:  "1610612747",
			Tricode: "LAL",
			Score:   48,
			Stats:   domain.TeamStats{Rebounds: 18, Assists: 12, Blocks: 1},
		},
		LastUpdate: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	g := liveGame("001", 50)
	if Fingerprint(g) != Fingerprint(g) {
		t.Fatal("fingerprint not deterministic")
	}
}

func TestFingerprintIgnoresFieldsOutsideChangeSet(t *testing.T) {
	g1 := liveGame("001", 50)
	g2 := liveGame("001", 50)
	g2.LastUpdate = g2.LastUpdate.Add(time.Hour)
	g2.HomeTeam.TeamID = "different"
	g2.AwayTeam.Tricode = "XXX"

	if Fingerprint(g1) != Fingerprint(g2) {
		t.Fatal("fingerprint affected by fields outside the change set")
	}
}

func TestFingerprintChangesWithScore(t *testing.T) {
	if Fingerprint(liveGame("001", 50)) == Fingerprint(liveGame("001", 52)) {
		t.Fatal("score change did not alter fingerprint")
	}
}

func TestFingerprintChangesWithStats(t *testing.T) {
	g1 := liveGame("001", 50)
	g2 := liveGame("001", 50)
	g2.AwayTeam.Stats.Blocks++
	if Fingerprint(g1) == Fingerprint(g2) {
		t.Fatal("stats change did not alter fingerprint")
	}
}

func TestDetectFirstObservationAlwaysChanged(t *testing.T) {
	d := New()
	changed := d.Detect([]domain.GameState{liveGame("001", 50), liveGame("002", 10)})
	if len(changed) != 2 {
		t.Fatalf("expected 2 changed, got %d", len(changed))
	}
	if changed[0].GameID != "001" || changed[1].GameID != "002" {
		t.Fatalf("changed list lost input order: %v", changed)
	}
}

func TestDetectIdenticalCycleReturnsEmpty(t *testing.T) {
	d := New()
	games := []domain.GameState{liveGame("001", 50), liveGame("002", 10)}
	d.Detect(games)

	// Second cycle with byte-identical upstream state.
	if changed := d.Detect(games); len(changed) != 0 {
		t.Fatalf("expected no changes on identical cycle, got %d", len(changed))
	}
}

func TestDetectReportsOnlyChangedGames(t *testing.T) {
	d := New()
	d.Detect([]domain.GameState{liveGame("001", 50), liveGame("002", 10)})

	next := []domain.GameState{liveGame("001", 53), liveGame("002", 10)}
	changed := d.Detect(next)
	if len(changed) != 1 || changed[0].GameID != "001" {
		t.Fatalf("expected only game 001 changed, got %v", changed)
	}

	// The stored fingerprint was overwritten; repeating is quiet.
	if again := d.Detect(next); len(again) != 0 {
		t.Fatalf("expected no changes after overwrite, got %d", len(again))
	}
}

func TestTracked(t *testing.T) {
	d := New()
	d.Detect([]domain.GameState{liveGame("001", 50)})
	d.Detect([]domain.GameState{liveGame("001", 51), liveGame("002", 0)})
	if d.Tracked() != 2 {
		t.Fatalf("expected 2 tracked games, got %d", d.Tracked())
	}
}
