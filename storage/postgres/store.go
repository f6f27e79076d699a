package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"gameroom/game/engine"
	"gameroom/game/service"
)

// Store is the Postgres Storage backend. Decks, hands, palettes and color
// sequences are stored as jsonb; this package is the only place game state is
// ever JSON-encoded.
type Store struct {
	db *DB
}

// NewStore creates a Store on top of an established connection pool.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

var _ service.Storage = (*Store)(nil)

func (s *Store) CreateRoom(ctx context.Context, room *service.Room) error {
	palette, err := json.Marshal(room.Palette)
	if err != nil {
		return fmt.Errorf("encode palette: %w", err)
	}
	_, err = s.db.Pool.Exec(ctx,
		`INSERT INTO rooms (id, name, host_id, status, max_seats, palette, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		room.ID, room.Name, room.HostID, room.Status, room.MaxSeats, palette, room.CreatedAt, room.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

func (s *Store) LoadRoom(ctx context.Context, id string) (*service.Room, error) {
	var room service.Room
	var palette []byte
	err := s.db.Pool.QueryRow(ctx,
		`SELECT id, name, host_id, status, max_seats, palette, created_at, updated_at
		 FROM rooms WHERE id = $1`,
		id,
	).Scan(&room.ID, &room.Name, &room.HostID, &room.Status, &room.MaxSeats, &palette, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, fmt.Errorf("load room: %w", err)
	}
	if err := decodeColors(palette, &room.Palette); err != nil {
		return nil, fmt.Errorf("decode palette: %w", err)
	}
	return &room, nil
}

func (s *Store) SaveRoom(ctx context.Context, room *service.Room) error {
	palette, err := json.Marshal(room.Palette)
	if err != nil {
		return fmt.Errorf("encode palette: %w", err)
	}
	tag, err := s.db.Pool.Exec(ctx,
		`UPDATE rooms SET name = $2, host_id = $3, status = $4, max_seats = $5, palette = $6, updated_at = $7
		 WHERE id = $1`,
		room.ID, room.Name, room.HostID, room.Status, room.MaxSeats, palette, room.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *Store) ListWaitingRooms(ctx context.Context) ([]*service.Room, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT id, name, host_id, status, max_seats, palette, created_at, updated_at
		 FROM rooms WHERE status = $1 ORDER BY created_at`,
		service.RoomWaiting,
	)
	if err != nil {
		return nil, fmt.Errorf("list waiting rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*service.Room
	for rows.Next() {
		var room service.Room
		var palette []byte
		if err := rows.Scan(&room.ID, &room.Name, &room.HostID, &room.Status, &room.MaxSeats, &palette, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		if err := decodeColors(palette, &room.Palette); err != nil {
			return nil, fmt.Errorf("decode palette: %w", err)
		}
		rooms = append(rooms, &room)
	}
	return rooms, rows.Err()
}

func (s *Store) AddRoomPlayer(ctx context.Context, rp *service.RoomPlayer) error {
	_, err := s.db.Pool.Exec(ctx,
		`INSERT INTO room_players (id, room_id, user_id, seat_index, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		rp.ID, rp.RoomID, rp.UserID, rp.SeatIndex, rp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("add room player: %w", err)
	}
	return nil
}

func (s *Store) LoadSeatedPlayers(ctx context.Context, roomID string) ([]*service.RoomPlayer, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT id, room_id, user_id, seat_index, created_at
		 FROM room_players WHERE room_id = $1 ORDER BY seat_index`,
		roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("load seated players: %w", err)
	}
	defer rows.Close()

	var players []*service.RoomPlayer
	for rows.Next() {
		var p service.RoomPlayer
		if err := rows.Scan(&p.ID, &p.RoomID, &p.UserID, &p.SeatIndex, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan room player: %w", err)
		}
		players = append(players, &p)
	}
	return players, rows.Err()
}

func (s *Store) CreateGame(ctx context.Context, game *service.Game) error {
	sequence, err := json.Marshal(game.Sequence)
	if err != nil {
		return fmt.Errorf("encode sequence: %w", err)
	}
	_, err = s.db.Pool.Exec(ctx,
		`INSERT INTO games (id, room_id, status, winner_id, sequence, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		game.ID, game.RoomID, game.Status, game.WinnerID, sequence, game.CreatedAt, game.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	return nil
}

func (s *Store) LoadGame(ctx context.Context, id string) (*service.Game, error) {
	var game service.Game
	var sequence []byte
	err := s.db.Pool.QueryRow(ctx,
		`SELECT id, room_id, status, winner_id, sequence, created_at, updated_at
		 FROM games WHERE id = $1`,
		id,
	).Scan(&game.ID, &game.RoomID, &game.Status, &game.WinnerID, &sequence, &game.CreatedAt, &game.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, fmt.Errorf("load game: %w", err)
	}
	if err := decodeColors(sequence, &game.Sequence); err != nil {
		return nil, fmt.Errorf("decode sequence: %w", err)
	}
	return &game, nil
}

func (s *Store) SaveGame(ctx context.Context, game *service.Game) error {
	sequence, err := json.Marshal(game.Sequence)
	if err != nil {
		return fmt.Errorf("encode sequence: %w", err)
	}
	tag, err := s.db.Pool.Exec(ctx,
		`UPDATE games SET status = $2, winner_id = $3, sequence = $4, updated_at = $5
		 WHERE id = $1`,
		game.ID, game.Status, game.WinnerID, sequence, game.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *Store) CreateRound(ctx context.Context, round *engine.Round) error {
	deck, err := json.Marshal(round.Deck)
	if err != nil {
		return fmt.Errorf("encode deck: %w", err)
	}
	_, err = s.db.Pool.Exec(ctx,
		`INSERT INTO rounds (id, game_id, status, deck, turn_seat_index, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		round.ID, round.GameID, round.Status, deck, round.TurnSeatIndex, round.CreatedAt, round.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create round: %w", err)
	}
	return nil
}

func (s *Store) LoadRound(ctx context.Context, gameID string) (*engine.Round, error) {
	var round engine.Round
	var deck []byte
	err := s.db.Pool.QueryRow(ctx,
		`SELECT id, game_id, status, deck, turn_seat_index, created_at, updated_at
		 FROM rounds WHERE game_id = $1 ORDER BY created_at DESC LIMIT 1`,
		gameID,
	).Scan(&round.ID, &round.GameID, &round.Status, &deck, &round.TurnSeatIndex, &round.CreatedAt, &round.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, fmt.Errorf("load round: %w", err)
	}
	if err := json.Unmarshal(deck, &round.Deck); err != nil {
		return nil, fmt.Errorf("decode deck: %w", err)
	}
	return &round, nil
}

func (s *Store) SaveRound(ctx context.Context, round *engine.Round) error {
	deck, err := json.Marshal(round.Deck)
	if err != nil {
		return fmt.Errorf("encode deck: %w", err)
	}
	tag, err := s.db.Pool.Exec(ctx,
		`UPDATE rounds SET status = $2, deck = $3, turn_seat_index = $4, updated_at = $5
		 WHERE id = $1`,
		round.ID, round.Status, deck, round.TurnSeatIndex, round.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save round: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *Store) CreateRoundPlayer(ctx context.Context, rp *engine.RoundPlayer) error {
	hand, err := json.Marshal(rp.Hand)
	if err != nil {
		return fmt.Errorf("encode hand: %w", err)
	}
	_, err = s.db.Pool.Exec(ctx,
		`INSERT INTO round_players (id, round_id, user_id, seat_index, hand, state, points, winner)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rp.ID, rp.RoundID, rp.UserID, rp.SeatIndex, hand, rp.State, rp.Points, rp.Winner,
	)
	if err != nil {
		return fmt.Errorf("create round player: %w", err)
	}
	return nil
}

func (s *Store) SaveRoundPlayer(ctx context.Context, rp *engine.RoundPlayer) error {
	hand, err := json.Marshal(rp.Hand)
	if err != nil {
		return fmt.Errorf("encode hand: %w", err)
	}
	tag, err := s.db.Pool.Exec(ctx,
		`UPDATE round_players SET hand = $2, state = $3, points = $4, winner = $5
		 WHERE id = $1`,
		rp.ID, hand, rp.State, rp.Points, rp.Winner,
	)
	if err != nil {
		return fmt.Errorf("save round player: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *Store) LoadRoundPlayers(ctx context.Context, roundID string) ([]*engine.RoundPlayer, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT id, round_id, user_id, seat_index, hand, state, points, winner
		 FROM round_players WHERE round_id = $1 ORDER BY seat_index`,
		roundID,
	)
	if err != nil {
		return nil, fmt.Errorf("load round players: %w", err)
	}
	defer rows.Close()

	var players []*engine.RoundPlayer
	for rows.Next() {
		var p engine.RoundPlayer
		var hand []byte
		if err := rows.Scan(&p.ID, &p.RoundID, &p.UserID, &p.SeatIndex, &hand, &p.State, &p.Points, &p.Winner); err != nil {
			return nil, fmt.Errorf("scan round player: %w", err)
		}
		if err := json.Unmarshal(hand, &p.Hand); err != nil {
			return nil, fmt.Errorf("decode hand: %w", err)
		}
		players = append(players, &p)
	}
	return players, rows.Err()
}

func (s *Store) AppendSequenceTurn(ctx context.Context, turn *engine.SequenceTurn) error {
	input, err := json.Marshal(turn.Input)
	if err != nil {
		return fmt.Errorf("encode input: %w", err)
	}
	_, err = s.db.Pool.Exec(ctx,
		`INSERT INTO sequence_turns (id, game_id, player_id, turn_number, input, correct, finished, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		turn.ID, turn.GameID, turn.PlayerID, turn.TurnNumber, input, turn.Correct, turn.Finished, turn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append sequence turn: %w", err)
	}
	return nil
}

func (s *Store) SaveSequenceTurn(ctx context.Context, turn *engine.SequenceTurn) error {
	input, err := json.Marshal(turn.Input)
	if err != nil {
		return fmt.Errorf("encode input: %w", err)
	}
	tag, err := s.db.Pool.Exec(ctx,
		`UPDATE sequence_turns SET input = $2, correct = $3, finished = $4
		 WHERE id = $1`,
		turn.ID, input, turn.Correct, turn.Finished,
	)
	if err != nil {
		return fmt.Errorf("save sequence turn: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *Store) ListSequenceTurns(ctx context.Context, gameID string) ([]*engine.SequenceTurn, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT id, game_id, player_id, turn_number, input, correct, finished, created_at
		 FROM sequence_turns WHERE game_id = $1 ORDER BY turn_number`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sequence turns: %w", err)
	}
	defer rows.Close()

	var turns []*engine.SequenceTurn
	for rows.Next() {
		var t engine.SequenceTurn
		var input []byte
		if err := rows.Scan(&t.ID, &t.GameID, &t.PlayerID, &t.TurnNumber, &input, &t.Correct, &t.Finished, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sequence turn: %w", err)
		}
		if err := decodeColors(input, &t.Input); err != nil {
			return nil, fmt.Errorf("decode input: %w", err)
		}
		turns = append(turns, &t)
	}
	return turns, rows.Err()
}

func (s *Store) LoadLastUnfinishedTurn(ctx context.Context, gameID, playerID string) (*engine.SequenceTurn, error) {
	var t engine.SequenceTurn
	var input []byte
	err := s.db.Pool.QueryRow(ctx,
		`SELECT id, game_id, player_id, turn_number, input, correct, finished, created_at
		 FROM sequence_turns
		 WHERE game_id = $1 AND player_id = $2 AND finished = FALSE
		 ORDER BY turn_number DESC LIMIT 1`,
		gameID, playerID,
	).Scan(&t.ID, &t.GameID, &t.PlayerID, &t.TurnNumber, &input, &t.Correct, &t.Finished, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, fmt.Errorf("load last unfinished turn: %w", err)
	}
	if err := decodeColors(input, &t.Input); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	return &t, nil
}

// decodeColors tolerates NULL columns from rows written before the field
// existed.
func decodeColors(data []byte, dst *[]engine.Color) error {
	if len(data) == 0 {
		*dst = nil
		return nil
	}
	return json.Unmarshal(data, dst)
}
