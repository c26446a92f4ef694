package game

import "fmt"

// ErrorKind classifies engine failures so callers can map them to transport
// codes without parsing messages.
type ErrorKind uint8

const (
	ErrGameNotFound ErrorKind = iota
	ErrGameAlreadyExists
	ErrInvalidAction
	ErrNotPlayerTurn
	ErrGameNotInProgress
	ErrRuleViolation
	ErrInvalidStateTransition
	ErrMaxPlayersReached
	ErrMinPlayersNotMet
	ErrPlayerNotFound
	ErrPlayerNotInGame
	ErrInsufficientResources
	ErrStrategyError
)

var errorKindNames = map[ErrorKind]string{
	ErrGameNotFound:           "GameNotFound",
	ErrGameAlreadyExists:      "GameAlreadyExists",
	ErrInvalidAction:          "InvalidAction",
	ErrNotPlayerTurn:          "NotPlayerTurn",
	ErrGameNotInProgress:      "GameNotInProgress",
	ErrRuleViolation:          "RuleViolation",
	ErrInvalidStateTransition: "InvalidStateTransition",
	ErrMaxPlayersReached:      "MaxPlayersReached",
	ErrMinPlayersNotMet:       "MinPlayersNotMet",
	ErrPlayerNotFound:         "PlayerNotFound",
	ErrPlayerNotInGame:        "PlayerNotInGame",
	ErrInsufficientResources:  "InsufficientResources",
	ErrStrategyError:          "StrategyError",
}

func (k ErrorKind) String() string { return errorKindNames[k] }

// GameError carries a kind plus a human-readable message naming the rule
// that was violated.
type GameError struct {
	Kind    ErrorKind
	Message string
}

func (e *GameError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

func newError(kind ErrorKind, format string, args ...any) *GameError {
	return &GameError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the error kind, defaulting to RuleViolation for foreign
// errors.
func KindOf(err error) ErrorKind {
	if ge, ok := err.(*GameError); ok {
		return ge.Kind
	}
	return ErrRuleViolation
}
