package domain

import "time"

// GameStatus mirrors the shared contract for game lifecycle states.
type GameStatus string

const (
	StatusScheduled GameStatus = "scheduled"
	StatusLive      GameStatus = "live"
	StatusFinal     GameStatus = "final"
)

// TeamStats holds the team counters that participate in change detection.
type TeamStats struct {
	Rebounds int `json:"rebounds"`
	Assists  int `json:"assists"`
	Blocks   int `json:"blocks"`
}

// TeamState is the normalized per-team shape inside a GameState.
type TeamState struct {
	TeamID  string    `json:"teamId"`
	Tricode string    `json:"tricode"`
	Score   int       `json:"score"`
	Stats   TeamStats `json:"stats"`
}

// GameState is the canonical live-game shape exposed by the service.
// Counters are always non-negative; missing upstream values normalize
// to zero so every game produces a total fingerprint.
type GameState struct {
	GameID     string     `json:"gameId"`
	Status     GameStatus `json:"status"`
	Period     int        `json:"period"`
	Clock      string     `json:"clock"`
	HomeTeam   TeamState  `json:"homeTeam"`
	AwayTeam   TeamState  `json:"awayTeam"`
	LastUpdate time.Time  `json:"lastUpdate"`
}

// IsLive reports whether the game is currently in progress.
func (g GameState) IsLive() bool {
	return g.Status == StatusLive
}
