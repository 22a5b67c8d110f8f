package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the engine wraps exactly one of these,
// so callers can branch with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidPhase        = errors.New("invalid action for current phase")
	ErrValidation          = errors.New("validation failed")
	ErrPlayerCountMismatch = errors.New("player count does not match role count")
	ErrCatalogExhausted    = errors.New("word catalog exhausted")
	ErrStorage             = errors.New("storage unavailable")
	ErrBusy                = errors.New("lobby busy")
)

// Error is a concrete engine error carrying one of the kinds above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Unwrap exposes the kind to errors.Is.
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Domain errors
var (
	ErrLobbyNotFound       = newError(ErrNotFound, "lobby not found")
	ErrPlayerNotFound      = newError(ErrNotFound, "player not found")
	ErrGuessNotApplicable  = newError(ErrNotFound, "no pending guess for this player")
	ErrNotHost             = newError(ErrForbidden, "only host can perform this action")
	ErrLobbyNotJoinable    = newError(ErrInvalidPhase, "lobby is not accepting players")
	ErrNotWaiting          = newError(ErrInvalidPhase, "lobby is not waiting for players")
	ErrNotInRound          = newError(ErrInvalidPhase, "no round in progress")
	ErrNoRoles             = newError(ErrValidation, "total roles must be greater than zero")
	ErrCannotKickHost      = newError(ErrValidation, "host cannot be removed from the lobby")
	ErrTooManyRoles        = newError(ErrValidation, fmt.Sprintf("at most %d roles can be dealt", MaxPlayers))
	ErrLobbyFull           = newError(ErrValidation, fmt.Sprintf("lobby is full (%d players)", MaxPlayers))
	ErrPairsExhausted      = newError(ErrCatalogExhausted, "this lobby has used every word pair")
	ErrLobbyBusy           = newError(ErrBusy, "lobby is being changed by someone else, try again")
)
