package game

import "errors"

var (
	ErrTurnViolation  = errors.New("move submitted out of turn")
	ErrIllegalMove    = errors.New("illegal move")
	ErrNoLegalMoves   = errors.New("no legal moves")
	ErrMalformedBoard = errors.New("malformed board")
)
