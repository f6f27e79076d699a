package service

import (
	"context"
	"errors"
	"time"

	"gameroom/game/engine"
)

// Sentinel errors shared by service implementations and their storage
// backends. Storage backends return ErrNotFound for absent entities so the
// service layer can classify failures without knowing the backend.
var (
	ErrNotFound         = errors.New("not found")
	ErrGameNotActive    = errors.New("game is not accepting actions")
	ErrRoundInProgress  = errors.New("current round has not ended")
	ErrNotSeated        = errors.New("user is not seated in this game's room")
	ErrRoomFull         = errors.New("room has no free seats")
	ErrRoomNotJoinable  = errors.New("room is not accepting players")
	ErrNotHost          = errors.New("only the host can start the room")
	ErrNotEnoughPlayers = errors.New("room needs at least two seated players")
	ErrNoPendingTurn    = errors.New("no unfinished turn to confirm")
)

// GameStatus is the lifecycle state of a game across rounds.
type GameStatus string

const (
	GameInProgress    GameStatus = "in_progress"
	GameBetweenRounds GameStatus = "between_rounds"
	GameEnded         GameStatus = "ended"
)

// Game ties rounds (or sequence turns) to a room. For the memory color game
// it also owns the accepted sequence and the eventual winner.
type Game struct {
	ID        string         `json:"id"`
	RoomID    string         `json:"room_id"`
	Status    GameStatus     `json:"status"`
	WinnerID  string         `json:"winner_id,omitempty"`
	Sequence  []engine.Color `json:"sequence,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// RoomStatus is the lifecycle state of a room.
type RoomStatus string

const (
	RoomWaiting  RoomStatus = "waiting"
	RoomPlaying  RoomStatus = "playing"
	RoomFinished RoomStatus = "finished"
)

// Room is where players gather before and between games. The palette is only
// meaningful for memory-game rooms.
type Room struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	HostID    string         `json:"host_id"`
	Status    RoomStatus     `json:"status"`
	MaxSeats  int            `json:"max_seats"`
	Palette   []engine.Color `json:"palette,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// RoomPlayer records one user's seat in a room. Seat indexes are stable,
// 0-based and assigned in join order.
type RoomPlayer struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	SeatIndex int       `json:"seat_index"`
	CreatedAt time.Time `json:"created_at"`
}

// RoundSnapshot is the player-facing view of the current round. The deck's
// order is never exposed, only how many cards remain.
type RoundSnapshot struct {
	GameID        string                `json:"game_id"`
	GameStatus    GameStatus            `json:"game_status"`
	RoundID       string                `json:"round_id"`
	RoundStatus   engine.RoundStatus    `json:"round_status"`
	TurnSeatIndex int                   `json:"turn_seat_index"`
	DeckRemaining int                   `json:"deck_remaining"`
	Players       []*engine.RoundPlayer `json:"players"`
	You           *engine.RoundPlayer   `json:"you,omitempty"`
}

// Event names emitted through the Notifier. Payload shapes are documented on
// the Notifier interface.
const (
	EventRoomStarted     = "room:started"
	EventRoundEnded      = "round:ended"
	EventTurnNext        = "turn:next"
	EventGameEnded       = "game:ended"
	EventGameCanceled    = "game:canceled"
	EventContinueWaiting = "continue:waiting"
)

// Storage is the persistence collaborator. Every call is atomic per entity;
// cross-entity consistency comes from the per-game serialization the service
// performs, not from storage transactions.
type Storage interface {
	CreateRoom(ctx context.Context, room *Room) error
	LoadRoom(ctx context.Context, id string) (*Room, error)
	SaveRoom(ctx context.Context, room *Room) error
	ListWaitingRooms(ctx context.Context) ([]*Room, error)

	AddRoomPlayer(ctx context.Context, rp *RoomPlayer) error
	// LoadSeatedPlayers returns a room's players ordered by seat index.
	LoadSeatedPlayers(ctx context.Context, roomID string) ([]*RoomPlayer, error)

	CreateGame(ctx context.Context, game *Game) error
	LoadGame(ctx context.Context, id string) (*Game, error)
	SaveGame(ctx context.Context, game *Game) error

	CreateRound(ctx context.Context, round *engine.Round) error
	// LoadRound returns the game's most recent round.
	LoadRound(ctx context.Context, gameID string) (*engine.Round, error)
	SaveRound(ctx context.Context, round *engine.Round) error

	CreateRoundPlayer(ctx context.Context, rp *engine.RoundPlayer) error
	SaveRoundPlayer(ctx context.Context, rp *engine.RoundPlayer) error
	LoadRoundPlayers(ctx context.Context, roundID string) ([]*engine.RoundPlayer, error)

	AppendSequenceTurn(ctx context.Context, turn *engine.SequenceTurn) error
	SaveSequenceTurn(ctx context.Context, turn *engine.SequenceTurn) error
	ListSequenceTurns(ctx context.Context, gameID string) ([]*engine.SequenceTurn, error)
	LoadLastUnfinishedTurn(ctx context.Context, gameID, playerID string) (*engine.SequenceTurn, error)
}

// Notifier delivers fire-and-forget events to clients watching a game.
// Delivery and ordering guarantees belong to the implementation; the service
// never blocks on it.
type Notifier interface {
	Notify(gameID, event string, payload any)
}

// GameLocker serializes mutations per game: at most one in-flight mutation
// for a given game ID at a time.
type GameLocker interface {
	Do(gameID string, fn func() error) error
}

// TablePreset is a named room template loaded from the preset directory.
type TablePreset struct {
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description" json:"description"`
	MaxSeats    int           `yaml:"max_seats" json:"max_seats"`
	Palette     []PresetColor `yaml:"palette" json:"palette"`
}

// PresetColor mirrors engine.Color in preset files.
type PresetColor struct {
	X    int    `yaml:"x" json:"x"`
	Y    int    `yaml:"y" json:"y"`
	Code string `yaml:"code" json:"code"`
}

// Colors converts the preset palette to engine colors.
func (p *TablePreset) Colors() []engine.Color {
	out := make([]engine.Color, len(p.Palette))
	for i, c := range p.Palette {
		out[i] = engine.Color{X: c.X, Y: c.Y, Code: c.Code}
	}
	return out
}

// PresetInfo summarizes an available preset.
type PresetInfo struct {
	Filename    string `json:"filename"`
	PresetID    string `json:"preset_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxSeats    int    `json:"max_seats"`
	Colors      int    `json:"colors"`
}

// ConfigManager loads table presets.
type ConfigManager interface {
	Preset(name string) (*TablePreset, error)
	ListPresets() ([]*PresetInfo, error)
	Default() *TablePreset
}
