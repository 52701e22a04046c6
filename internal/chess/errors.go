package chess

import (
	"errors"
	"fmt"
)

// Rejections of a candidate move, in the order ValidateMove checks them.
var (
	ErrMalformedMove      = errors.New("move has wrong format")
	ErrNullMove           = errors.New("move does not change square")
	ErrNoPieceOrWrongTurn = errors.New("no piece of the side to move at start square")
	ErrSelfCapture        = errors.New("cannot capture own piece")
	ErrIllegalShape       = errors.New("piece cannot move that way")
	ErrExposesKing        = errors.New("move leaves own king attacked")
)

var (
	ErrInvariantViolation = errors.New("chess invariant violation")
	ErrCorruptHistory     = errors.New("corrupt move history")
)

var rejections = [...]error{
	ErrMalformedMove,
	ErrNullMove,
	ErrNoPieceOrWrongTurn,
	ErrSelfCapture,
	ErrIllegalShape,
	ErrExposesKing,
}

// MoveError reports why a candidate move was rejected.
type MoveError struct {
	Move   Move
	Err    error
	Detail string
}

func (e *MoveError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("move %s: %v", e.Move, e.Err)
	}
	return fmt.Sprintf("move %s: %v: %s", e.Move, e.Err, e.Detail)
}

func (e *MoveError) Unwrap() error { return e.Err }

func reject(m Move, kind error, format string, args ...any) error {
	return &MoveError{Move: m, Err: kind, Detail: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is a user-input rejection rather than an
// internal failure. A rejection found while replaying stored history is a
// corrupt history, not a rejection.
func IsRejection(err error) bool {
	if errors.Is(err, ErrCorruptHistory) || errors.Is(err, ErrInvariantViolation) {
		return false
	}
	for _, kind := range rejections {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// RejectionCode is a stable short name for a rejection, "" for other errors.
func RejectionCode(err error) string {
	if !IsRejection(err) {
		return ""
	}
	switch {
	case errors.Is(err, ErrMalformedMove):
		return "malformed_move"
	case errors.Is(err, ErrNullMove):
		return "null_move"
	case errors.Is(err, ErrNoPieceOrWrongTurn):
		return "no_piece_or_wrong_turn"
	case errors.Is(err, ErrSelfCapture):
		return "self_capture"
	case errors.Is(err, ErrIllegalShape):
		return "illegal_shape"
	case errors.Is(err, ErrExposesKing):
		return "exposes_king"
	}
	return ""
}
