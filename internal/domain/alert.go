package domain

// AlertKind classifies game alerts pushed to socket subscribers.
type AlertKind string

const (
	AlertGameStarted AlertKind = "game-started"
	AlertGameFinal   AlertKind = "game-final"
)

// GameAlert is a lightweight notification emitted on status transitions.
type GameAlert struct {
	GameID  string    `json:"gameId"`
	Kind    AlertKind `json:"kind"`
	Message string    `json:"message"`
}
