// Package transform maps raw upstream documents to canonical domain
// records. Mapping is pure and deterministic: the same document always
// produces the same record for a given timestamp.
package transform

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/preston-bernstein/nba-live-sync/internal/domain"
	"github.com/preston-bernstein/nba-live-sync/internal/upstream"
)

// ErrInvalidTeamData indicates a game arrived without a resolvable team.
// Such a game cannot be represented and is dropped from the cycle.
var ErrInvalidTeamData = errors.New("invalid team data")

// Raw status codes on the live feeds.
const (
	rawStatusLive  = 2
	rawStatusFinal = 3
)

// ToGameState normalizes one raw game. at becomes the record's
// LastUpdate timestamp.
func ToGameState(raw upstream.Game, at time.Time) (domain.GameState, error) {
	if raw.HomeTeam == nil || raw.AwayTeam == nil {
		return domain.GameState{}, fmt.Errorf("game %s: %w", raw.GameID, ErrInvalidTeamData)
	}

	return domain.GameState{
		GameID:     raw.GameID,
		Status:     mapStatus(coerceInt(raw.GameStatus)),
		Period:     coerceInt(raw.Period),
		Clock:      raw.GameClock,
		HomeTeam:   mapTeam(raw.HomeTeam),
		AwayTeam:   mapTeam(raw.AwayTeam),
		LastUpdate: at,
	}, nil
}

// ToBoxScore normalizes one raw box score document.
func ToBoxScore(raw upstream.BoxScore, at time.Time) (domain.BoxScore, error) {
	state, err := ToGameState(raw.Game.Game, at)
	if err != nil {
		return domain.BoxScore{}, err
	}

	box := domain.BoxScore{
		GameState:  state,
		HomeBox:    mapTeamBox(raw.Game.HomeTeam, state.HomeTeam),
		AwayBox:    mapTeamBox(raw.Game.AwayTeam, state.AwayTeam),
		Attendance: coerceInt(raw.Game.Attendance),
	}
	if raw.Game.Arena != nil {
		box.Arena = raw.Game.Arena.ArenaName
	}
	return box, nil
}

func mapStatus(code int) domain.GameStatus {
	switch code {
	case rawStatusLive:
		return domain.StatusLive
	case rawStatusFinal:
		return domain.StatusFinal
	default:
		return domain.StatusScheduled
	}
}

func mapTeam(t *upstream.Team) domain.TeamState {
	return domain.TeamState{
		TeamID:  coerceID(t.TeamID),
		Tricode: t.TeamTricode,
		Score:   coerceInt(t.Score),
		Stats:   mapTeamStats(t.Statistics),
	}
}

func mapTeamStats(s *upstream.TeamStatistics) domain.TeamStats {
	if s == nil {
		return domain.TeamStats{}
	}
	return domain.TeamStats{
		Rebounds: rebounds(s.ReboundsDefensive, s.ReboundsOffensive, s.ReboundsTotal),
		Assists:  coerceInt(s.Assists),
		Blocks:   coerceInt(s.Blocks),
	}
}

func mapTeamBox(t *upstream.Team, state domain.TeamState) domain.TeamBox {
	box := domain.TeamBox{
		TeamState: state,
		Totals:    state.Stats,
		Players:   make([]domain.PlayerStats, 0, len(t.Players)),
	}
	// Player order follows the upstream document.
	for _, p := range t.Players {
		box.Players = append(box.Players, domain.PlayerStats{
			PlayerID: coerceID(p.PersonID),
			Name:     p.Name,
			Points:   coerceInt(p.Statistics.Points),
			Rebounds: rebounds(p.Statistics.ReboundsDefensive, p.Statistics.ReboundsOffensive, p.Statistics.ReboundsTotal),
			Assists:  coerceInt(p.Statistics.Assists),
			Blocks:   coerceInt(p.Statistics.Blocks),
		})
	}
	return box
}

// rebounds resolves the upstream schema variance: some feeds split
// defensive/offensive rebounds, others only carry the combined total.
// The split fields win when present; otherwise the total is used as is.
func rebounds(def, off, total json.RawMessage) int {
	if present(def) || present(off) {
		return coerceInt(def) + coerceInt(off)
	}
	return coerceInt(total)
}
