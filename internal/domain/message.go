package domain

import "strconv"

// Attribute keys carried on every distribution message.
const (
	AttrGameID = "gameId"
	AttrStatus = "status"
	AttrPeriod = "period"
)

// DistributionMessage is the transient envelope published to the durable
// channel for each changed game. OrderingKey constrains delivery order to
// messages for the same game; DedupID is unique per publish attempt and
// lets the channel suppress re-delivery on retry.
type DistributionMessage struct {
	GameID      string            `json:"gameId"`
	Payload     []byte            `json:"payload"`
	OrderingKey string            `json:"orderingKey"`
	DedupID     string            `json:"dedupId"`
	Attributes  map[string]string `json:"attributes"`
}

// OrderingKeyFor builds the grouping key for a game's messages.
func OrderingKeyFor(gameID string) string {
	return "game" + gameID
}

// MessageAttributes builds the standard attribute set for a game state.
func MessageAttributes(g GameState) map[string]string {
	return map[string]string{
		AttrGameID: g.GameID,
		AttrStatus: string(g.Status),
		AttrPeriod: strconv.Itoa(g.Period),
	}
}
