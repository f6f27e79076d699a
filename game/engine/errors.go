package engine

import "errors"

// Sentinel errors reported by the engine. Callers match them with errors.Is;
// none of them leave partially mutated state behind.
var (
	// ErrNoSeatedPlayers is returned when a round is started with an empty
	// seat list.
	ErrNoSeatedPlayers = errors.New("no seated players")

	// ErrNotPlayersTurn is returned when a seat acts out of turn.
	ErrNotPlayersTurn = errors.New("not this seat's turn")

	// ErrInvalidAction is returned when a player in a terminal state tries
	// to act.
	ErrInvalidAction = errors.New("player cannot act in current state")

	// ErrRoundEnded is returned for any action against an ended round.
	ErrRoundEnded = errors.New("round already ended")

	// ErrSeatNotFound is returned when the seat index does not belong to
	// the round.
	ErrSeatNotFound = errors.New("seat not found in round")

	// ErrDeckExhausted is returned when a deal is attempted against an
	// empty deck. Unreachable with a 52-card deck and at most 7 seats, but
	// handled defensively.
	ErrDeckExhausted = errors.New("deck exhausted")

	// ErrInvalidColor is returned when a color outside the room palette is
	// appended to a sequence.
	ErrInvalidColor = errors.New("color not in room palette")
)
