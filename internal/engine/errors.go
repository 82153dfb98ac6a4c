package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to test for them.
var (
	// ErrIllegalMove is returned when a requested move is not in the legal set.
	ErrIllegalMove = errors.New("illegal move")

	// ErrGameFinished is returned for any mutation attempted after a result is set.
	ErrGameFinished = errors.New("game is already finished")

	// ErrTimeout is returned when the clock ran out before a move or action.
	// The accompanying state carries the timeout result.
	ErrTimeout = errors.New("time is up")

	// ErrInvalidSquare indicates a malformed square name.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrInvalidFEN indicates a malformed or unplayable FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrInvalidSettings indicates an unknown side, time control or variant.
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrUnknownAction indicates an administrative action that does not exist.
	ErrUnknownAction = errors.New("unknown action")

	ErrSideRequired     = errors.New("side is required")
	ErrDrawOfferPending = errors.New("a draw offer is already pending")
	ErrNoDrawOffer      = errors.New("no draw offer")
)

// MoveError is the structured error handed back to the calling layer so it
// can present a field-level validation failure.
type MoveError struct {
	Err     error  // underlying sentinel
	Field   string // request field the failure belongs to
	Message string // human-readable message
}

func (e *MoveError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }

func fieldError(field string, err error, msg string) error {
	return &MoveError{Err: err, Field: field, Message: msg}
}
