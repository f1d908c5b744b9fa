// Package upstream defines the raw document shapes returned by the NBA
// live-data feeds. Providers decode into these shapes verbatim; all
// normalization happens in the transform package.
package upstream

import "encoding/json"

// Scoreboard is the full upstream scoreboard document.
type Scoreboard struct {
	Scoreboard ScoreboardBody `json:"scoreboard"`
}

// ScoreboardBody carries the game list and the feed's date stamp.
type ScoreboardBody struct {
	GameDate string `json:"gameDate"`
	Games    []Game `json:"games"`
}

// Game is one raw game entry. Numeric fields arrive as loosely typed
// JSON values depending on which feed produced the document, so they
// are kept as raw messages and coerced during transformation.
type Game struct {
	GameID      string          `json:"gameId"`
	GameStatus  json.RawMessage `json:"gameStatus"`
	Period      json.RawMessage `json:"period"`
	GameClock   string          `json:"gameClock"`
	GameTimeUTC string          `json:"gameTimeUTC"`
	HomeTeam    *Team           `json:"homeTeam"`
	AwayTeam    *Team           `json:"awayTeam"`
}

// Team is one raw team entry inside a game or box score.
type Team struct {
	TeamID      json.RawMessage `json:"teamId"`
	TeamTricode string          `json:"teamTricode"`
	Score       json.RawMessage `json:"score"`
	Statistics  *TeamStatistics `json:"statistics"`
	Players     []Player        `json:"players"`
}

// TeamStatistics carries team counters. The rebound representation
// varies by feed: some documents split defensive/offensive, others only
// provide the combined total.
type TeamStatistics struct {
	ReboundsDefensive json.RawMessage `json:"reboundsDefensive"`
	ReboundsOffensive json.RawMessage `json:"reboundsOffensive"`
	ReboundsTotal     json.RawMessage `json:"reboundsTotal"`
	Assists           json.RawMessage `json:"assists"`
	Blocks            json.RawMessage `json:"blocks"`
}

// Player is one raw player line in a box score.
type Player struct {
	PersonID   json.RawMessage  `json:"personId"`
	Name       string           `json:"name"`
	Statistics PlayerStatistics `json:"statistics"`
}

// PlayerStatistics carries per-player counters.
type PlayerStatistics struct {
	Points            json.RawMessage `json:"points"`
	ReboundsDefensive json.RawMessage `json:"reboundsDefensive"`
	ReboundsOffensive json.RawMessage `json:"reboundsOffensive"`
	ReboundsTotal     json.RawMessage `json:"reboundsTotal"`
	Assists           json.RawMessage `json:"assists"`
	Blocks            json.RawMessage `json:"blocks"`
}

// BoxScore is the full upstream box score document for one game.
type BoxScore struct {
	Game BoxScoreGame `json:"game"`
}

// BoxScoreGame is the raw game entry inside a box score document.
type BoxScoreGame struct {
	Game
	Arena      *Arena          `json:"arena"`
	Attendance json.RawMessage `json:"attendance"`
}

// Arena is the venue block on a box score.
type Arena struct {
	ArenaName string `json:"arenaName"`
	ArenaCity string `json:"arenaCity"`
}
