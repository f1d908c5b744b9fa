package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
		" info ":  slog.LevelInfo,
	}
	for raw, want := range cases {
		if got := parseLevel(raw); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestNewLoggerHonorsLevel(t *testing.T) {
	logger := NewLogger(Config{Level: "warn", Format: "json"})
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("info should be suppressed at warn level")
	}
	if !logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Fatal("warn should be enabled at warn level")
	}
}

func TestNewLoggerDefaults(t *testing.T) {
	logger := NewLogger(Config{})
	if logger == nil {
		t.Fatal("expected a logger")
	}
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("default level should be info")
	}
}

func TestNilSafeHelpers(t *testing.T) {
	// Must not panic with a nil logger.
	Info(nil, "info")
	Warn(nil, "warn")
	Error(nil, "error", errors.New("boom"))
	Error(nil, "error", nil)
}

func TestContextRoundTrip(t *testing.T) {
	logger := NewLogger(Config{Service: "nba-live-sync"})
	ctx := WithLogger(context.Background(), logger)

	if got := FromContext(ctx, nil); got != logger {
		t.Fatal("context logger not returned")
	}

	fallback := NewLogger(Config{})
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatal("fallback not returned for bare context")
	}
	var empty context.Context
	if got := FromContext(empty, fallback); got != fallback {
		t.Fatal("nil context should return the fallback")
	}
}
