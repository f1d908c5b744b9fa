package detector

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/preston-bernstein/nba-live-sync/internal/domain"
)

// fingerprintFields is the canonical change set: exactly the mutable
// fields that make two observations of a game meaningfully different.
// Arena, attendance, player detail, and timestamps are excluded on
// purpose. Marshaling a fixed struct keeps the serialization canonical
// regardless of how the source document ordered its fields.
type fingerprintFields struct {
	Status    domain.GameStatus `json:"status"`
	Period    int               `json:"period"`
	Clock     string            `json:"clock"`
	HomeScore int               `json:"homeScore"`
	HomeStats domain.TeamStats  `json:"homeStats"`
	AwayScore int               `json:"awayScore"`
	AwayStats domain.TeamStats  `json:"awayStats"`
}

// Fingerprint computes the canonical change fingerprint for a game.
func Fingerprint(g domain.GameState) string {
	fields := fingerprintFields{
		Status:    g.Status,
		Period:    g.Period,
		Clock:     g.Clock,
		HomeScore: g.HomeTeam.Score,
		HomeStats: g.HomeTeam.Stats,
		AwayScore: g.AwayTeam.Score,
		AwayStats: g.AwayTeam.Stats,
	}

	// Marshaling a struct with only basic fields cannot fail.
	data, _ := json.Marshal(fields)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
