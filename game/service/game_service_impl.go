package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"gameroom/game/engine"
	"gameroom/metrics"
)

// gameServiceImpl implements GameService on top of the Storage and Notifier
// collaborators. All reads and writes for one game funnel through the
// per-game locker, so the engine always sees a consistent snapshot.
type gameServiceImpl struct {
	storage Storage
	notify  Notifier
	locks   GameLocker
	log     *slog.Logger

	// votes holds one barrier per game currently between rounds. Entries
	// are created on the first vote of a window and dropped as soon as the
	// barrier resolves, so the map never outlives its games.
	mu    sync.Mutex
	votes map[string]*engine.ContinuationVotes
}

// NewGameService creates the orchestrator for the 21-variant game.
func NewGameService(storage Storage, notify Notifier, locks GameLocker, log *slog.Logger) GameService {
	if log == nil {
		log = slog.Default()
	}
	return &gameServiceImpl{
		storage: storage,
		notify:  notify,
		locks:   locks,
		log:     log,
		votes:   make(map[string]*engine.ContinuationVotes),
	}
}

// CreateGame creates a game for a room and flips the room to playing.
func (s *gameServiceImpl) CreateGame(ctx context.Context, roomID string) (*Game, error) {
	room, err := s.storage.LoadRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("load room %s: %w", roomID, err)
	}

	now := time.Now()
	game := &Game{
		ID:        uuid.NewString(),
		RoomID:    room.ID,
		Status:    GameInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.CreateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	room.Status = RoomPlaying
	room.UpdatedAt = now
	if err := s.storage.SaveRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("save room: %w", err)
	}

	s.log.Info("game created", "game_id", game.ID, "room_id", room.ID)
	return game, nil
}

// StartRound deals a fresh round for the game's seated players.
func (s *gameServiceImpl) StartRound(ctx context.Context, gameID string) error {
	return s.locks.Do(gameID, func() error {
		game, err := s.storage.LoadGame(ctx, gameID)
		if err != nil {
			return fmt.Errorf("load game %s: %w", gameID, err)
		}
		if game.Status == GameEnded {
			return ErrGameNotActive
		}
		return s.startRoundLocked(ctx, game)
	})
}

// startRoundLocked deals and persists a new round. Callers must already hold
// the game's lock.
func (s *gameServiceImpl) startRoundLocked(ctx context.Context, game *Game) error {
	// At most one live round per game: the current round must resolve
	// before the next deal.
	if round, err := s.storage.LoadRound(ctx, game.ID); err == nil {
		if round.Status != engine.RoundEnded {
			return ErrRoundInProgress
		}
	} else if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("load round: %w", err)
	}

	seated, err := s.storage.LoadSeatedPlayers(ctx, game.RoomID)
	if err != nil {
		return fmt.Errorf("load seated players: %w", err)
	}

	order := make([]engine.SeatedPlayer, len(seated))
	for i, rp := range seated {
		order[i] = engine.SeatedPlayer{UserID: rp.UserID, SeatIndex: rp.SeatIndex}
	}

	eng, err := engine.StartRound(game.ID, order)
	if err != nil {
		return fmt.Errorf("start round: %w", err)
	}

	round := eng.Round()
	round.ID = uuid.NewString()
	if err := s.storage.CreateRound(ctx, round); err != nil {
		return fmt.Errorf("persist round: %w", err)
	}
	for _, p := range eng.Players() {
		p.ID = uuid.NewString()
		p.RoundID = round.ID
		if err := s.storage.CreateRoundPlayer(ctx, p); err != nil {
			return fmt.Errorf("persist round player: %w", err)
		}
	}

	game.Status = GameInProgress
	game.UpdatedAt = time.Now()

	// A new round always invalidates any votes left from the previous
	// between-rounds window.
	s.dropVotes(game.ID)

	metrics.RoundsStarted.Inc()
	s.log.Info("round started",
		"game_id", game.ID,
		"round_id", round.ID,
		"players", len(order),
		"ended_on_deal", eng.Ended())

	s.notify.Notify(game.ID, EventRoomStarted, map[string]string{"gameId": game.ID})

	if eng.Ended() {
		// Natural blackjack on the deal: the round resolved before
		// anyone acts.
		return s.finishRound(ctx, game, eng)
	}

	if err := s.storage.SaveGame(ctx, game); err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	s.notify.Notify(game.ID, EventTurnNext, map[string]int{"turnSeatIndex": round.TurnSeatIndex})
	return nil
}

// Hit deals one card to the acting player.
func (s *gameServiceImpl) Hit(ctx context.Context, gameID, userID string) (*engine.TurnOutcome, error) {
	return s.act(ctx, gameID, userID, func(eng *engine.RoundEngine, seat int) (*engine.TurnOutcome, error) {
		return eng.Hit(seat)
	})
}

// Stand marks the acting player as stood.
func (s *gameServiceImpl) Stand(ctx context.Context, gameID, userID string) (*engine.TurnOutcome, error) {
	return s.act(ctx, gameID, userID, func(eng *engine.RoundEngine, seat int) (*engine.TurnOutcome, error) {
		return eng.Stand(seat)
	})
}

// act loads the live round, resolves the user's seat, applies the action and
// persists the result. Rejected actions leave storage untouched.
func (s *gameServiceImpl) act(ctx context.Context, gameID, userID string,
	action func(*engine.RoundEngine, int) (*engine.TurnOutcome, error)) (*engine.TurnOutcome, error) {

	var outcome *engine.TurnOutcome
	err := s.locks.Do(gameID, func() error {
		game, err := s.storage.LoadGame(ctx, gameID)
		if err != nil {
			return fmt.Errorf("load game %s: %w", gameID, err)
		}
		if game.Status != GameInProgress {
			return ErrGameNotActive
		}

		eng, err := s.resumeRound(ctx, gameID)
		if err != nil {
			return err
		}
		player := eng.PlayerByUser(userID)
		if player == nil {
			return ErrNotSeated
		}

		outcome, err = action(eng, player.SeatIndex)
		if err != nil {
			return err
		}

		if err := s.storage.SaveRound(ctx, eng.Round()); err != nil {
			return fmt.Errorf("save round: %w", err)
		}
		if err := s.storage.SaveRoundPlayer(ctx, outcome.Player); err != nil {
			return fmt.Errorf("save round player: %w", err)
		}

		if outcome.RoundEnded {
			return s.finishRound(ctx, game, eng)
		}

		if err := s.storage.SaveGame(ctx, game); err != nil {
			return fmt.Errorf("save game: %w", err)
		}
		s.notify.Notify(gameID, EventTurnNext, map[string]int{"turnSeatIndex": outcome.NextSeat})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// finishRound persists every player's resolved hand, parks the game between
// rounds and announces the result. Must be called with the game lock held.
func (s *gameServiceImpl) finishRound(ctx context.Context, game *Game, eng *engine.RoundEngine) error {
	for _, p := range eng.Players() {
		if err := s.storage.SaveRoundPlayer(ctx, p); err != nil {
			return fmt.Errorf("save round player: %w", err)
		}
		metrics.HandOutcomes.WithLabelValues(string(p.State)).Inc()
	}
	if err := s.storage.SaveRound(ctx, eng.Round()); err != nil {
		return fmt.Errorf("save round: %w", err)
	}

	game.Status = GameBetweenRounds
	game.UpdatedAt = time.Now()
	if err := s.storage.SaveGame(ctx, game); err != nil {
		return fmt.Errorf("save game: %w", err)
	}

	metrics.RoundsEnded.Inc()
	s.log.Info("round ended",
		"game_id", game.ID,
		"round_id", eng.Round().ID,
		"winners", eng.Winners())

	s.notify.Notify(game.ID, EventRoundEnded, map[string]any{"winners": eng.Winners()})
	return nil
}

// ContinueRound records one player's vote in the continuation barrier and
// resolves it against the currently seated players.
func (s *gameServiceImpl) ContinueRound(ctx context.Context, gameID, userID string, decision bool) (engine.VoteOutcome, error) {
	var result engine.VoteOutcome
	err := s.locks.Do(gameID, func() error {
		game, err := s.storage.LoadGame(ctx, gameID)
		if err != nil {
			return fmt.Errorf("load game %s: %w", gameID, err)
		}
		if game.Status != GameBetweenRounds {
			return ErrGameNotActive
		}

		seated, err := s.storage.LoadSeatedPlayers(ctx, game.RoomID)
		if err != nil {
			return fmt.Errorf("load seated players: %w", err)
		}
		ids := make([]string, len(seated))
		voterSeated := false
		for i, rp := range seated {
			ids[i] = rp.UserID
			if rp.UserID == userID {
				voterSeated = true
			}
		}
		if !voterSeated {
			return ErrNotSeated
		}

		votes := s.votesFor(gameID)
		votes.Record(userID, decision)
		result = votes.Outcome(ids)

		metrics.VoteOutcomes.WithLabelValues(string(result)).Inc()
		s.log.Info("continuation vote",
			"game_id", gameID,
			"user_id", userID,
			"decision", decision,
			"outcome", string(result))

		switch result {
		case engine.VoteEnded:
			s.dropVotes(gameID)
			game.Status = GameEnded
			game.UpdatedAt = time.Now()
			if err := s.storage.SaveGame(ctx, game); err != nil {
				return fmt.Errorf("save game: %w", err)
			}
			metrics.GamesEnded.WithLabelValues("vote").Inc()
			s.notify.Notify(gameID, EventGameEnded, map[string]any{})

		case engine.VoteStarted:
			s.dropVotes(gameID)
			return s.startRoundLocked(ctx, game)

		case engine.VoteWaiting:
			s.notify.Notify(gameID, EventContinueWaiting, map[string]int{"votes": votes.Len()})
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

// CancelGame ends a game outright and discards any pending votes.
func (s *gameServiceImpl) CancelGame(ctx context.Context, gameID string) error {
	return s.locks.Do(gameID, func() error {
		game, err := s.storage.LoadGame(ctx, gameID)
		if err != nil {
			return fmt.Errorf("load game %s: %w", gameID, err)
		}
		if game.Status == GameEnded {
			return ErrGameNotActive
		}

		s.dropVotes(gameID)
		game.Status = GameEnded
		game.UpdatedAt = time.Now()
		if err := s.storage.SaveGame(ctx, game); err != nil {
			return fmt.Errorf("save game: %w", err)
		}

		metrics.GamesEnded.WithLabelValues("canceled").Inc()
		s.log.Info("game canceled", "game_id", gameID)
		s.notify.Notify(gameID, EventGameCanceled, map[string]any{})
		return nil
	})
}

// Current returns the player-facing view of the game's latest round.
func (s *gameServiceImpl) Current(ctx context.Context, gameID, userID string) (*RoundSnapshot, error) {
	var snap *RoundSnapshot
	err := s.locks.Do(gameID, func() error {
		game, err := s.storage.LoadGame(ctx, gameID)
		if err != nil {
			return fmt.Errorf("load game %s: %w", gameID, err)
		}

		snap = &RoundSnapshot{
			GameID:     game.ID,
			GameStatus: game.Status,
		}

		round, err := s.storage.LoadRound(ctx, gameID)
		if errors.Is(err, ErrNotFound) {
			// No round dealt yet; the game-level view is still useful.
			return nil
		}
		if err != nil {
			return fmt.Errorf("load round: %w", err)
		}
		players, err := s.storage.LoadRoundPlayers(ctx, round.ID)
		if err != nil {
			return fmt.Errorf("load round players: %w", err)
		}

		snap.RoundID = round.ID
		snap.RoundStatus = round.Status
		snap.TurnSeatIndex = round.TurnSeatIndex
		snap.DeckRemaining = len(round.Deck)
		snap.Players = players
		for _, p := range players {
			if p.UserID == userID {
				snap.You = p
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// resumeRound rebuilds the engine for the game's latest round.
func (s *gameServiceImpl) resumeRound(ctx context.Context, gameID string) (*engine.RoundEngine, error) {
	round, err := s.storage.LoadRound(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load round: %w", err)
	}
	players, err := s.storage.LoadRoundPlayers(ctx, round.ID)
	if err != nil {
		return nil, fmt.Errorf("load round players: %w", err)
	}
	return engine.Resume(round, players)
}

// votesFor returns the game's live vote barrier, creating it on first use.
func (s *gameServiceImpl) votesFor(gameID string) *engine.ContinuationVotes {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.votes[gameID]
	if !ok {
		v = engine.NewContinuationVotes()
		s.votes[gameID] = v
	}
	return v
}

// dropVotes discards a game's vote window, if any.
func (s *gameServiceImpl) dropVotes(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.votes, gameID)
}
