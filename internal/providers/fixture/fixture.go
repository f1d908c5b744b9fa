// Package fixture provides a static ScoreboardProvider for tests and
// offline development. The documents it returns reproduce the exact
// shapes of live CDN responses, including the loosely typed numeric
// fields, so the whole pipeline can run without a network.
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/preston-bernstein/nba-live-sync/internal/providers"
	"github.com/preston-bernstein/nba-live-sync/internal/upstream"
)

// Provider serves a fixed scoreboard and per-game box scores.
type Provider struct {
	mu         sync.RWMutex
	scoreboard *upstream.Scoreboard
	boxScores  map[string]*upstream.BoxScore
}

// New creates a fixture provider preloaded with a deterministic slate.
func New() *Provider {
	p := &Provider{boxScores: make(map[string]*upstream.BoxScore)}
	p.SetScoreboard(defaultScoreboard())
	p.SetBoxScore("0022300001", defaultBoxScore())
	return p
}

// FetchScoreboard returns the configured scoreboard document.
func (p *Provider) FetchScoreboard(ctx context.Context) (*upstream.Scoreboard, error) {
	_ = ctx
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.scoreboard, nil
}

// FetchBoxScore returns the configured box score for the game id.
func (p *Provider) FetchBoxScore(ctx context.Context, gameID string) (*upstream.BoxScore, error) {
	_ = ctx
	p.mu.RLock()
	defer p.mu.RUnlock()
	box, ok := p.boxScores[gameID]
	if !ok {
		return nil, fmt.Errorf("fixture boxscore: %w", providers.ErrGameNotFound)
	}
	return box, nil
}

// SetScoreboard replaces the scoreboard served to callers.
func (p *Provider) SetScoreboard(sb *upstream.Scoreboard) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scoreboard = sb
}

// SetBoxScore replaces the box score served for one game id.
func (p *Provider) SetBoxScore(gameID string, box *upstream.BoxScore) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.boxScores[gameID] = box
}

func raw(v string) json.RawMessage {
	return json.RawMessage(v)
}

func defaultScoreboard() *upstream.Scoreboard {
	return &upstream.Scoreboard{
		Scoreboard: upstream.ScoreboardBody{
			GameDate: "2024-01-15",
			Games: []upstream.Game{
				{
					GameID:      "0022300001",
					GameStatus:  raw(`2`),
					Period:      raw(`3`),
					GameClock:   "5:30",
					GameTimeUTC: "2024-01-16T00:00:00Z",
					HomeTeam: &upstream.Team{
						TeamID:      raw(`1610612738`),
						TeamTricode: "BOS",
						// Scores arrive as strings on some feeds.
						Score: raw(`"78"`),
						Statistics: &upstream.TeamStatistics{
							ReboundsDefensive: raw(`22`),
							ReboundsOffensive: raw(`8`),
							Assists:           raw(`19`),
							Blocks:            raw(`3`),
						},
					},
					AwayTeam: &upstream.Team{
						TeamID:      raw(`1610612747`),
						TeamTricode: "LAL",
						Score:       raw(`"72"`),
						Statistics: &upstream.TeamStatistics{
							ReboundsTotal: raw(`27`),
							Assists:       raw(`17`),
							Blocks:        raw(`2`),
						},
					},
				},
				{
					GameID:      "0022300002",
					GameStatus:  raw(`1`),
					Period:      raw(`0`),
					GameClock:   "",
					GameTimeUTC: "2024-01-16T02:30:00Z",
					HomeTeam: &upstream.Team{
						TeamID:      raw(`1610612744`),
						TeamTricode: "GSW",
						Score:       raw(`0`),
					},
					AwayTeam: &upstream.Team{
						TeamID:      raw(`1610612748`),
						TeamTricode: "MIA",
						Score:       raw(`0`),
					},
				},
			},
		},
	}
}

func defaultBoxScore() *upstream.BoxScore {
	return &upstream.BoxScore{
		Game: upstream.BoxScoreGame{
			Game: upstream.Game{
				GameID:     "0022300001",
				GameStatus: raw(`2`),
				Period:     raw(`3`),
				GameClock:  "5:30",
				HomeTeam: &upstream.Team{
					TeamID:      raw(`1610612738`),
					TeamTricode: "BOS",
					Score:       raw(`78`),
					Statistics: &upstream.TeamStatistics{
						ReboundsDefensive: raw(`22`),
						ReboundsOffensive: raw(`8`),
						Assists:           raw(`19`),
						Blocks:            raw(`3`),
					},
					Players: []upstream.Player{
						{
							PersonID: raw(`1628369`),
							Name:     "Jayson Tatum",
							Statistics: upstream.PlayerStatistics{
								Points:            raw(`24`),
								ReboundsDefensive: raw(`6`),
								ReboundsOffensive: raw(`1`),
								Assists:           raw(`4`),
								Blocks:            raw(`1`),
							},
						},
					},
				},
				AwayTeam: &upstream.Team{
					TeamID:      raw(`1610612747`),
					TeamTricode: "LAL",
					Score:       raw(`72`),
					Statistics: &upstream.TeamStatistics{
						ReboundsTotal: raw(`27`),
						Assists:       raw(`17`),
						Blocks:        raw(`2`),
					},
					Players: []upstream.Player{
						{
							PersonID: raw(`2544`),
							Name:     "LeBron James",
							Statistics: upstream.PlayerStatistics{
								Points:        raw(`28`),
								ReboundsTotal: raw(`7`),
								Assists:       raw(`9`),
								Blocks:        raw(`0`),
							},
						},
					},
				},
			},
			Arena:      &upstream.Arena{ArenaName: "TD Garden", ArenaCity: "Boston"},
			Attendance: raw(`19156`),
		},
	}
}
