package domain

// PlayerStats is one player's line in a box score. Order of players
// follows the upstream document and is not stable across polls.
type PlayerStats struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Points   int    `json:"points"`
	Rebounds int    `json:"rebounds"`
	Assists  int    `json:"assists"`
	Blocks   int    `json:"blocks"`
}

// TeamBox extends the team shape with per-player detail and aggregates.
type TeamBox struct {
	TeamState
	Players []PlayerStats `json:"players"`
	Totals  TeamStats     `json:"totals"`
}

// BoxScore is the detailed per-player breakdown for one game, distinct
// from the lightweight running score.
type BoxScore struct {
	GameState
	HomeBox    TeamBox `json:"homeBox"`
	AwayBox    TeamBox `json:"awayBox"`
	Arena      string  `json:"arena,omitempty"`
	Attendance int     `json:"attendance,omitempty"`
}
