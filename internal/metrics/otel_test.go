package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSetupDisabled(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: false})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if rec == nil {
		t.Fatal("expected a recorder even when disabled")
	}
	if handler != nil {
		t.Fatal("disabled telemetry should not expose a handler")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupEnabledServesPrometheus(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{
		Enabled:     true,
		ServiceName: "nba-live-sync-test",
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = shutdown(ctx)
	}()
	if handler == nil {
		t.Fatal("expected a prometheus handler")
	}

	// Drive a few instruments so the scrape has content.
	rec.RecordFetchAttempt("scoreboard", 100*time.Millisecond, nil)
	rec.RecordPollerCycle(time.Second, nil)
	rec.RecordPublish(nil)
	rec.RecordHTTPRequest(http.MethodGet, "/games", http.StatusOK, 5*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected scrape status %d", rr.Code)
	}
	body := rr.Body.String()
	for _, name := range []string{"fetch_attempts_total", "poller_cycles_total", "channel_publishes_total"} {
		if !strings.Contains(body, name) {
			t.Fatalf("scrape missing %s:\n%s", name, body)
		}
	}
}

func TestSetupMirrorsToSnapshot(t *testing.T) {
	rec, _, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: true})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	rec.RecordCacheLookup(true)
	rec.RecordConsumed(nil)

	snap := rec.Snapshot()
	if snap.CacheHits != 1 || snap.Consumed != 1 {
		t.Fatalf("in-memory counters should mirror otel instruments, got %+v", snap)
	}
}
