package nbacdn

import (
	"net/http"
	"strings"
	"time"
)

const (
	// ProviderName identifies this provider in logs and metrics.
	ProviderName = "nbacdn"

	defaultBaseURL = "https://cdn.nba.com/static/json/liveData"
	defaultTimeout = 10 * time.Second

	scoreboardPath = "/scoreboard/todaysScoreboard_00.json"
	boxScorePath   = "/boxscore/boxscore_%s.json"
)

func normalizeBaseURL(raw string) string {
	if raw == "" {
		return defaultBaseURL
	}
	return strings.TrimRight(raw, "/")
}

func resolveHTTPClient(client *http.Client) httpDoer {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: defaultTimeout}
}

func resolveTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return defaultTimeout
	}
	return timeout
}
