package engine

import "fmt"

// Kind classifies an Error per spec.md §7's taxonomy, so callers (the
// uci package in particular) can dispatch on the failure without
// string-matching.
type Kind int

const (
	ErrUnknown Kind = iota
	ErrBadFEN
	ErrIllegalMove
	ErrNullMoveInCheck
	ErrInvalidOption
	ErrMissingTimeFields
	ErrUnknownCommand
	ErrInvalidNNUEFile
)

func (k Kind) String() string {
	switch k {
	case ErrBadFEN:
		return "bad FEN"
	case ErrIllegalMove:
		return "illegal move"
	case ErrNullMoveInCheck:
		return "null move attempted while in check"
	case ErrInvalidOption:
		return "invalid option value"
	case ErrMissingTimeFields:
		return "missing wtime/btime for timed control"
	case ErrUnknownCommand:
		return "unknown command"
	case ErrInvalidNNUEFile:
		return "invalid NNUE file"
	default:
		return "unknown error"
	}
}

// Error is the single user-facing error type covering spec.md §7:
// parsing/setup failures are returned as values carrying enough context
// (the attempted move, the FEN) to render a diagnostic; search itself
// never returns an Error.
type Error struct {
	Kind   Kind
	Detail string
	Move   string
	FEN    string
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Move != "" {
		msg += fmt.Sprintf(" (move %s)", e.Move)
	}
	if e.FEN != "" {
		msg += fmt.Sprintf(" (fen %q)", e.FEN)
	}
	return msg
}

func illegalMoveError(move, fen string) error {
	return &Error{Kind: ErrIllegalMove, Move: move, FEN: fen}
}
