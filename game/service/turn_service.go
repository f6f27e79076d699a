package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gameroom/game/engine"
	"gameroom/metrics"
)

// turnServiceImpl implements TurnService for the memory color game. The
// accepted sequence lives on the Game entity; turns are an append-only log.
type turnServiceImpl struct {
	storage Storage
	notify  Notifier
	locks   GameLocker
	log     *slog.Logger
}

// NewTurnService creates the memory-game turn orchestrator.
func NewTurnService(storage Storage, notify Notifier, locks GameLocker, log *slog.Logger) TurnService {
	if log == nil {
		log = slog.Default()
	}
	return &turnServiceImpl{storage: storage, notify: notify, locks: locks, log: log}
}

// CreateTurn records one submission attempt. The submission must equal the
// accepted sequence plus exactly one trailing element; anything else forfeits
// the game to the opponent on the spot. The turn record is appended either
// way.
func (s *turnServiceImpl) CreateTurn(ctx context.Context, gameID, playerID string, input []engine.Color) (*engine.SequenceTurn, error) {
	var turn *engine.SequenceTurn
	err := s.locks.Do(gameID, func() error {
		game, err := s.storage.LoadGame(ctx, gameID)
		if err != nil {
			return fmt.Errorf("load game %s: %w", gameID, err)
		}
		if game.Status == GameEnded {
			return ErrGameNotActive
		}

		previous, err := s.storage.ListSequenceTurns(ctx, gameID)
		if err != nil {
			return fmt.Errorf("list turns: %w", err)
		}

		correct := engine.MatchesPrefix(game.Sequence, input)

		turn = &engine.SequenceTurn{
			ID:         uuid.NewString(),
			GameID:     gameID,
			PlayerID:   playerID,
			TurnNumber: len(previous) + 1,
			Input:      input,
			Correct:    correct,
			Finished:   false,
			CreatedAt:  time.Now(),
		}
		if err := s.storage.AppendSequenceTurn(ctx, turn); err != nil {
			return fmt.Errorf("append turn: %w", err)
		}

		if correct {
			metrics.SequenceTurns.WithLabelValues("correct").Inc()
			s.log.Info("sequence turn accepted",
				"game_id", gameID, "player_id", playerID, "turn", turn.TurnNumber)
			return nil
		}

		// Mismatch: the opponent wins immediately.
		winner, err := s.opponentOf(ctx, game, playerID)
		if err != nil {
			return err
		}
		game.Status = GameEnded
		game.WinnerID = winner
		game.UpdatedAt = time.Now()
		if err := s.storage.SaveGame(ctx, game); err != nil {
			return fmt.Errorf("save game: %w", err)
		}

		metrics.SequenceTurns.WithLabelValues("wrong").Inc()
		metrics.GamesEnded.WithLabelValues("forfeit").Inc()
		s.log.Info("sequence turn forfeited the game",
			"game_id", gameID, "player_id", playerID, "winner_id", winner)
		s.notify.Notify(gameID, EventGameEnded, map[string]string{"winnerId": winner})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return turn, nil
}

// AddColor confirms the submitter's pending turn. The new tail color must be
// part of the room's palette; on success it becomes the accepted sequence's
// last element and the turn is marked finished.
func (s *turnServiceImpl) AddColor(ctx context.Context, gameID, playerID string, color engine.Color) error {
	return s.locks.Do(gameID, func() error {
		pending, err := s.storage.LoadLastUnfinishedTurn(ctx, gameID, playerID)
		if err != nil {
			return ErrNoPendingTurn
		}

		game, err := s.storage.LoadGame(ctx, gameID)
		if err != nil {
			return fmt.Errorf("load game %s: %w", gameID, err)
		}
		room, err := s.storage.LoadRoom(ctx, game.RoomID)
		if err != nil {
			return fmt.Errorf("load room %s: %w", game.RoomID, err)
		}

		if !engine.PaletteContains(room.Palette, color) {
			return engine.ErrInvalidColor
		}

		game.Sequence = append(game.Sequence, color)
		game.UpdatedAt = time.Now()
		if err := s.storage.SaveGame(ctx, game); err != nil {
			return fmt.Errorf("save game: %w", err)
		}

		pending.Finished = true
		if err := s.storage.SaveSequenceTurn(ctx, pending); err != nil {
			return fmt.Errorf("save turn: %w", err)
		}

		s.log.Info("sequence extended",
			"game_id", gameID, "player_id", playerID, "length", len(game.Sequence))
		s.notify.Notify(gameID, EventTurnNext, map[string]int{"sequenceLength": len(game.Sequence)})
		return nil
	})
}

// ListTurns returns the game's full turn log in order.
func (s *turnServiceImpl) ListTurns(ctx context.Context, gameID string) ([]*engine.SequenceTurn, error) {
	return s.storage.ListSequenceTurns(ctx, gameID)
}

// opponentOf resolves the other seated player in a two-player room.
func (s *turnServiceImpl) opponentOf(ctx context.Context, game *Game, playerID string) (string, error) {
	seated, err := s.storage.LoadSeatedPlayers(ctx, game.RoomID)
	if err != nil {
		return "", fmt.Errorf("load seated players: %w", err)
	}
	for _, rp := range seated {
		if rp.UserID != playerID {
			return rp.UserID, nil
		}
	}
	return "", ErrNotSeated
}
