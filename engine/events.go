package engine

import "catan/game"

// EventType enumerates every notification a session emits.
type EventType string

const (
	EventGameCreated    EventType = "GameCreated"
	EventGameStarted    EventType = "GameStarted"
	EventGameEnded      EventType = "GameEnded"
	EventPlayerJoined   EventType = "PlayerJoined"
	EventPlayerLeft     EventType = "PlayerLeft"
	EventActionExecuted EventType = "ActionExecuted"
	EventStateChanged   EventType = "StateChanged"
	EventTurnChanged    EventType = "TurnChanged"
	EventDiceRolled     EventType = "DiceRolled"
	EventError          EventType = "Error"
)

// Event is one wire-serializable notification. Fields irrelevant to the
// type stay empty.
type Event struct {
	Type    EventType   `json:"type"`
	GameID  string      `json:"gameId,omitempty"`
	Color   *game.Color `json:"color,omitempty"`
	Action  string      `json:"action,omitempty"`
	Success bool        `json:"success,omitempty"`
	Message string      `json:"message,omitempty"`
	Winner  *game.Color `json:"winner,omitempty"`
	Dice    []uint8     `json:"dice,omitempty"`
}

// EventSink receives a session's events, in mutation order. Sinks are
// called outside the session lock and must not block for long.
type EventSink func(Event)

func colorPtr(c game.Color) *game.Color { return &c }
