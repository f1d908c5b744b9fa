package config

import (
	"testing"
	"time"
)

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	if got := envOrDefault("TEST_STRING", "fallback"); got != "value" {
		t.Fatalf("got %q", got)
	}
	if got := envOrDefault("TEST_STRING_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("got %q", got)
	}
}

func TestDurationEnvOrDefault(t *testing.T) {
	t.Setenv("TEST_DURATION", "90s")
	if got := durationEnvOrDefault("TEST_DURATION", time.Second); got != 90*time.Second {
		t.Fatalf("got %v", got)
	}

	t.Setenv("TEST_DURATION", "garbage")
	if got := durationEnvOrDefault("TEST_DURATION", time.Second); got != time.Second {
		t.Fatalf("bad value should fall back, got %v", got)
	}

	t.Setenv("TEST_DURATION", "-5s")
	if got := durationEnvOrDefault("TEST_DURATION", time.Second); got != time.Second {
		t.Fatalf("negative value should fall back, got %v", got)
	}
}

func TestIntEnvOrDefault(t *testing.T) {
	t.Setenv("TEST_INT", "25")
	if got := intEnvOrDefault("TEST_INT", 50); got != 25 {
		t.Fatalf("got %d", got)
	}

	t.Setenv("TEST_INT", "0")
	if got := intEnvOrDefault("TEST_INT", 50); got != 50 {
		t.Fatalf("non-positive value should fall back, got %d", got)
	}

	t.Setenv("TEST_INT", "abc")
	if got := intEnvOrDefault("TEST_INT", 50); got != 50 {
		t.Fatalf("bad value should fall back, got %d", got)
	}
}

func TestBoolEnvOrDefault(t *testing.T) {
	cases := map[string]bool{
		"1": true, "true": true, "TRUE": true, "yes": true,
		"0": false, "false": false, "no": false, "No": false,
	}
	for raw, want := range cases {
		t.Setenv("TEST_BOOL", raw)
		if got := boolEnvOrDefault("TEST_BOOL", !want); got != want {
			t.Fatalf("raw %q: got %v, want %v", raw, got, want)
		}
	}

	t.Setenv("TEST_BOOL", "maybe")
	if got := boolEnvOrDefault("TEST_BOOL", true); !got {
		t.Fatal("unparseable value should keep the default")
	}
	t.Setenv("TEST_BOOL", " true ")
	if got := boolEnvOrDefault("TEST_BOOL", false); !got {
		t.Fatal("whitespace should be trimmed")
	}
}
