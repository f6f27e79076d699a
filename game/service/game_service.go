package service

import (
	"context"

	"gameroom/game/engine"
)

// GameService defines the orchestration operations for the 21-variant card
// game. Every mutation for a given game is serialized through the GameLocker.
type GameService interface {
	// Game lifecycle
	CreateGame(ctx context.Context, roomID string) (*Game, error)
	StartRound(ctx context.Context, gameID string) error
	CancelGame(ctx context.Context, gameID string) error

	// Player actions
	Hit(ctx context.Context, gameID, userID string) (*engine.TurnOutcome, error)
	Stand(ctx context.Context, gameID, userID string) (*engine.TurnOutcome, error)

	// Between rounds
	ContinueRound(ctx context.Context, gameID, userID string, decision bool) (engine.VoteOutcome, error)

	// State
	Current(ctx context.Context, gameID, userID string) (*RoundSnapshot, error)
}

// TurnService defines the memory color game's turn operations.
type TurnService interface {
	// CreateTurn validates a submitted sequence against the game's accepted
	// sequence. An invalid submission forfeits the game to the opponent.
	CreateTurn(ctx context.Context, gameID, playerID string, input []engine.Color) (*engine.SequenceTurn, error)

	// AddColor confirms the submitter's pending turn: it appends the new
	// tail color to the accepted sequence after checking it belongs to the
	// room's palette.
	AddColor(ctx context.Context, gameID, playerID string, color engine.Color) error

	ListTurns(ctx context.Context, gameID string) ([]*engine.SequenceTurn, error)
}

// RoomService defines the room boilerplate around both games.
type RoomService interface {
	CreateRoom(ctx context.Context, name, hostID, preset string) (*Room, error)
	JoinRoom(ctx context.Context, roomID, userID string) (*Room, error)
	WaitingRooms(ctx context.Context) ([]*Room, error)
	Room(ctx context.Context, roomID string) (*Room, error)

	// StartRoom begins a memory color game: it flips the room to playing,
	// creates the game with an empty accepted sequence and seeds turn #1.
	StartRoom(ctx context.Context, roomID, userID string) (*Game, error)
}
