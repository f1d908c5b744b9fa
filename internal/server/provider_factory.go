package server

import (
	"log/slog"

	"github.com/preston-bernstein/nba-live-sync/internal/config"
	"github.com/preston-bernstein/nba-live-sync/internal/providers"
	"github.com/preston-bernstein/nba-live-sync/internal/providers/fixture"
	"github.com/preston-bernstein/nba-live-sync/internal/providers/nbacdn"
)

// buildProvider assembles the configured provider with the shared retry
// wrapper. The fixture provider replaces the network entirely and is
// the default for offline development.
func buildProvider(cfg config.Config, logger *slog.Logger) providers.ScoreboardProvider {
	base := selectProvider(cfg)
	return providers.NewRetryingProvider(base, logger, 0, 0)
}

func selectProvider(cfg config.Config) providers.ScoreboardProvider {
	switch cfg.Provider {
	case nbacdn.ProviderName:
		return nbacdn.NewClient(nbacdn.Config{
			BaseURL: cfg.NBA.BaseURL,
			Timeout: cfg.NBA.Timeout,
		})
	default:
		return fixture.New()
	}
}
