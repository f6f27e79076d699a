package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gameroom/game/engine"
)

// roomServiceImpl implements RoomService. Rooms are created from named table
// presets which fix the seat limit and, for memory-game rooms, the palette.
type roomServiceImpl struct {
	storage Storage
	notify  Notifier
	presets ConfigManager
	log     *slog.Logger
}

// NewRoomService creates the room orchestrator.
func NewRoomService(storage Storage, notify Notifier, presets ConfigManager, log *slog.Logger) RoomService {
	if log == nil {
		log = slog.Default()
	}
	return &roomServiceImpl{storage: storage, notify: notify, presets: presets, log: log}
}

// CreateRoom creates a waiting room from a preset and seats the host at
// seat 0.
func (s *roomServiceImpl) CreateRoom(ctx context.Context, name, hostID, preset string) (*Room, error) {
	var tp *TablePreset
	if preset == "" {
		tp = s.presets.Default()
	} else {
		loaded, err := s.presets.Preset(preset)
		if err != nil {
			return nil, fmt.Errorf("load preset %s: %w", preset, err)
		}
		tp = loaded
	}

	now := time.Now()
	room := &Room{
		ID:        uuid.NewString(),
		Name:      name,
		HostID:    hostID,
		Status:    RoomWaiting,
		MaxSeats:  tp.MaxSeats,
		Palette:   tp.Colors(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.CreateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	if err := s.storage.AddRoomPlayer(ctx, &RoomPlayer{
		ID:        uuid.NewString(),
		RoomID:    room.ID,
		UserID:    hostID,
		SeatIndex: 0,
		CreatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("seat host: %w", err)
	}

	s.log.Info("room created", "room_id", room.ID, "host_id", hostID, "preset", tp.Name)
	return room, nil
}

// JoinRoom seats a user at the next free seat index.
func (s *roomServiceImpl) JoinRoom(ctx context.Context, roomID, userID string) (*Room, error) {
	room, err := s.storage.LoadRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("load room %s: %w", roomID, err)
	}
	if room.Status != RoomWaiting {
		return nil, ErrRoomNotJoinable
	}

	seated, err := s.storage.LoadSeatedPlayers(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("load seated players: %w", err)
	}
	for _, rp := range seated {
		if rp.UserID == userID {
			return room, nil // already seated, idempotent join
		}
	}
	if len(seated) >= room.MaxSeats {
		return nil, ErrRoomFull
	}

	if err := s.storage.AddRoomPlayer(ctx, &RoomPlayer{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		UserID:    userID,
		SeatIndex: len(seated),
		CreatedAt: time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("seat player: %w", err)
	}

	s.log.Info("player joined", "room_id", roomID, "user_id", userID, "seat", len(seated))
	return room, nil
}

// WaitingRooms lists rooms still accepting players.
func (s *roomServiceImpl) WaitingRooms(ctx context.Context) ([]*Room, error) {
	return s.storage.ListWaitingRooms(ctx)
}

// Room returns one room by ID.
func (s *roomServiceImpl) Room(ctx context.Context, roomID string) (*Room, error) {
	return s.storage.LoadRoom(ctx, roomID)
}

// StartRoom begins a memory color game in the room. Only the host may start,
// the room must still be waiting and needs at least two seated players. The
// game starts with an empty accepted sequence and a seeded first turn for
// the host.
func (s *roomServiceImpl) StartRoom(ctx context.Context, roomID, userID string) (*Game, error) {
	room, err := s.storage.LoadRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("load room %s: %w", roomID, err)
	}
	if room.HostID != userID {
		return nil, ErrNotHost
	}
	if room.Status != RoomWaiting {
		return nil, ErrRoomNotJoinable
	}

	seated, err := s.storage.LoadSeatedPlayers(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("load seated players: %w", err)
	}
	if len(seated) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	now := time.Now()
	room.Status = RoomPlaying
	room.UpdatedAt = now
	if err := s.storage.SaveRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("save room: %w", err)
	}

	game := &Game{
		ID:        uuid.NewString(),
		RoomID:    room.ID,
		Status:    GameInProgress,
		Sequence:  []engine.Color{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.CreateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	// Seed turn #1: the host opens with the empty sequence already
	// accepted and picks the first color through the confirmation step.
	if err := s.storage.AppendSequenceTurn(ctx, &engine.SequenceTurn{
		ID:         uuid.NewString(),
		GameID:     game.ID,
		PlayerID:   room.HostID,
		TurnNumber: 1,
		Input:      []engine.Color{},
		Correct:    true,
		Finished:   false,
		CreatedAt:  now,
	}); err != nil {
		return nil, fmt.Errorf("seed first turn: %w", err)
	}

	s.log.Info("room started", "room_id", room.ID, "game_id", game.ID)
	s.notify.Notify(game.ID, EventRoomStarted, map[string]string{"gameId": game.ID})
	return game, nil
}
