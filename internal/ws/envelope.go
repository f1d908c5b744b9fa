package ws

import (
	"encoding/json"
	"time"

	"github.com/preston-bernstein/nba-live-sync/internal/domain"
	"github.com/preston-bernstein/nba-live-sync/internal/timeutil"
)

// Envelope message types on the socket.
const (
	TypeGameUpdate = "game-update"
	TypeAlert      = "alert"
	TypePing       = "ping"
)

// Envelope is the JSON frame sent to subscribers.
type Envelope struct {
	Type      string            `json:"type"`
	Game      *domain.GameState `json:"game,omitempty"`
	Alert     *domain.GameAlert `json:"alert,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

// clientMessage is the JSON frame received from subscribers.
type clientMessage struct {
	Type string `json:"type"`
}

// GameUpdateFrame marshals a game-update envelope.
func GameUpdateFrame(g domain.GameState, at time.Time) ([]byte, error) {
	return json.Marshal(Envelope{
		Type:      TypeGameUpdate,
		Game:      &g,
		Timestamp: timeutil.EpochMillis(at),
	})
}

// AlertFrame marshals an alert envelope.
func AlertFrame(a domain.GameAlert, at time.Time) ([]byte, error) {
	return json.Marshal(Envelope{
		Type:      TypeAlert,
		Alert:     &a,
		Timestamp: timeutil.EpochMillis(at),
	})
}
