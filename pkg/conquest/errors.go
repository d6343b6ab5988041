package conquest

import (
	"errors"
	"fmt"
)

// Code identifies the kind of a rejected action. Codes are stable and safe to
// expose to clients.
type Code string

const (
	CodeInvalidPhase       Code = "invalid_phase"
	CodeInvalidPlayer      Code = "invalid_player"
	CodeInvalidOwner       Code = "invalid_owner"
	CodeInvalidAttacker    Code = "invalid_attacker"
	CodeInvalidDefender    Code = "invalid_defender"
	CodeInvalidAdjacency   Code = "invalid_adjacency"
	CodeInvalidDispatch    Code = "invalid_dispatch"
	CodeInsufficientSupply Code = "insufficient_supply"
	CodeInvalidMove        Code = "invalid_move"
	CodeInvalidSet         Code = "invalid_set"
	CodeInvalidCard        Code = "invalid_card"
	CodeGameOver           Code = "game_over"
	CodeGameNotStarted     Code = "game_not_started"
	CodeNotFound           Code = "not_found"

	CodeGameStarted    Code = "game_started"
	CodeGameFull       Code = "game_full"
	CodePlayerCount    Code = "player_count"
	CodeAlreadyJoined  Code = "already_joined"
	CodeNotHost        Code = "not_host"
	CodeStaleNonce     Code = "stale_nonce"
	CodeGameNotOver    Code = "game_not_over"
	CodeAlreadyClaimed Code = "already_claimed"
)

// Error is a rule violation. Two errors match under errors.Is when their codes
// are equal, so callers compare against the sentinels below regardless of the
// message attached.
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// Is reports whether target carries the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidPhase       = &Error{CodeInvalidPhase, "action not allowed in the current phase"}
	ErrInvalidPlayer      = &Error{CodeInvalidPlayer, "caller does not control the acting player"}
	ErrInvalidOwner       = &Error{CodeInvalidOwner, "tile is not owned by the acting player"}
	ErrInvalidAttacker    = &Error{CodeInvalidAttacker, "attacking tile is not owned by the acting player"}
	ErrInvalidDefender    = &Error{CodeInvalidDefender, "defending tile must belong to another player"}
	ErrInvalidAdjacency   = &Error{CodeInvalidAdjacency, "tiles are not connected"}
	ErrInvalidDispatch    = &Error{CodeInvalidDispatch, "invalid dispatched army"}
	ErrInsufficientSupply = &Error{CodeInsufficientSupply, "not enough supply"}
	ErrInvalidMove        = &Error{CodeInvalidMove, "invalid army movement"}
	ErrInvalidSet         = &Error{CodeInvalidSet, "cards do not form a set"}
	ErrInvalidCard        = &Error{CodeInvalidCard, "invalid card"}
	ErrGameOver           = &Error{CodeGameOver, "game is over"}
	ErrGameNotStarted     = &Error{CodeGameNotStarted, "game has not started"}
	ErrNotFound           = &Error{CodeNotFound, "not found"}

	ErrGameStarted    = &Error{CodeGameStarted, "game has already started"}
	ErrGameFull       = &Error{CodeGameFull, "game is full"}
	ErrPlayerCount    = &Error{CodePlayerCount, "player count out of range"}
	ErrAlreadyJoined  = &Error{CodeAlreadyJoined, "already joined this game"}
	ErrNotHost        = &Error{CodeNotHost, "only the host can do that"}
	ErrStaleNonce     = &Error{CodeStaleNonce, "action was issued against an outdated turn"}
	ErrGameNotOver    = &Error{CodeGameNotOver, "game is not over"}
	ErrAlreadyClaimed = &Error{CodeAlreadyClaimed, "prize already claimed"}
)

// errorf returns an error with the code of kind and a formatted message.
func errorf(kind *Error, format string, args ...any) error {
	return &Error{Code: kind.Code, Msg: fmt.Sprintf(format, args...)}
}

// CodeOf returns the rule code carried by err, or "" for infrastructure errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
