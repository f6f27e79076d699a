package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"gameroom/game/engine"
	"gameroom/game/service"
	"gameroom/game/session"
	"gameroom/storage/memory"
)

// eventRecorder is a Notifier that remembers every event for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	GameID  string
	Event   string
	Payload any
}

func (r *eventRecorder) Notify(gameID, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{GameID: gameID, Event: event, Payload: payload})
}

func (r *eventRecorder) has(event string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Event == event {
			return true
		}
	}
	return false
}

func (r *eventRecorder) last() *recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return nil
	}
	e := r.events[len(r.events)-1]
	return &e
}

// fakePresets is a ConfigManager with two fixed presets.
type fakePresets struct{}

func (fakePresets) Default() *service.TablePreset {
	return &service.TablePreset{
		Name:     "classic",
		MaxSeats: 4,
		Palette: []service.PresetColor{
			{X: 0, Y: 0, Code: "#FF0000"},
			{X: 1, Y: 0, Code: "#00FF00"},
			{X: 0, Y: 1, Code: "#0000FF"},
		},
	}
}

func (f fakePresets) Preset(name string) (*service.TablePreset, error) {
	switch name {
	case "classic":
		return f.Default(), nil
	case "duo":
		return &service.TablePreset{
			Name:     "duo",
			MaxSeats: 2,
			Palette: []service.PresetColor{
				{X: 0, Y: 0, Code: "#FF0000"},
				{X: 1, Y: 0, Code: "#00FF00"},
			},
		}, nil
	default:
		return nil, fmt.Errorf("load preset %s: %w", name, service.ErrNotFound)
	}
}

func (f fakePresets) ListPresets() ([]*service.PresetInfo, error) {
	return []*service.PresetInfo{
		{PresetID: "classic", Name: "classic", MaxSeats: 4, Colors: 3},
		{PresetID: "duo", Name: "duo", MaxSeats: 2, Colors: 2},
	}, nil
}

// fixture wires the three services onto an in-memory store.
type fixture struct {
	store  *memory.Store
	events *eventRecorder
	games  service.GameService
	turns  service.TurnService
	rooms  service.RoomService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	events := &eventRecorder{}
	locks := session.NewManager()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		store:  store,
		events: events,
		games:  service.NewGameService(store, events, locks, logger),
		turns:  service.NewTurnService(store, events, locks, logger),
		rooms:  service.NewRoomService(store, events, fakePresets{}, logger),
	}
}

// newCardGame creates a room, seats the given users (the first is host) and
// creates a game for it.
func newCardGame(t *testing.T, f *fixture, users ...string) (roomID, gameID string) {
	t.Helper()
	ctx := context.Background()

	room, err := f.rooms.CreateRoom(ctx, "table", users[0], "")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	for _, u := range users[1:] {
		if _, err := f.rooms.JoinRoom(ctx, room.ID, u); err != nil {
			t.Fatalf("JoinRoom(%s): %v", u, err)
		}
	}

	game, err := f.games.CreateGame(ctx, room.ID)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	return room.ID, game.ID
}

// standOutRound makes each acting player stand until the round resolves.
func standOutRound(t *testing.T, f *fixture, gameID string) {
	t.Helper()
	ctx := context.Background()

	for i := 0; i < engine.MaxSeats+1; i++ {
		game, err := f.store.LoadGame(ctx, gameID)
		if err != nil {
			t.Fatalf("LoadGame: %v", err)
		}
		if game.Status != service.GameInProgress {
			return
		}

		snap, err := f.games.Current(ctx, gameID, "")
		if err != nil {
			t.Fatalf("Current: %v", err)
		}
		var actor string
		for _, p := range snap.Players {
			if p.SeatIndex == snap.TurnSeatIndex {
				actor = p.UserID
				break
			}
		}
		if actor == "" {
			t.Fatalf("no player at turn seat %d", snap.TurnSeatIndex)
		}
		if _, err := f.games.Stand(ctx, gameID, actor); err != nil {
			t.Fatalf("Stand(%s): %v", actor, err)
		}
	}
	t.Fatal("round did not resolve after everyone stood")
}

func TestCreateGameFlipsRoomToPlaying(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	roomID, gameID := newCardGame(t, f, "alice", "bob")

	game, err := f.store.LoadGame(ctx, gameID)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if game.Status != service.GameInProgress {
		t.Errorf("expected game in_progress, got %s", game.Status)
	}
	if game.RoomID != roomID {
		t.Errorf("expected game bound to room %s, got %s", roomID, game.RoomID)
	}

	room, err := f.store.LoadRoom(ctx, roomID)
	if err != nil {
		t.Fatalf("LoadRoom: %v", err)
	}
	if room.Status != service.RoomPlaying {
		t.Errorf("expected room playing, got %s", room.Status)
	}
}

func TestStartRoundDealsTwoCardsEach(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, gameID := newCardGame(t, f, "alice", "bob", "carol")

	if err := f.games.StartRound(ctx, gameID); err != nil {
		t.Fatalf("StartRound: %v", err)
	}

	round, err := f.store.LoadRound(ctx, gameID)
	if err != nil {
		t.Fatalf("LoadRound: %v", err)
	}
	if len(round.Deck) != 52-2*3 {
		t.Errorf("expected 46 cards left in deck, got %d", len(round.Deck))
	}

	players, err := f.store.LoadRoundPlayers(ctx, round.ID)
	if err != nil {
		t.Fatalf("LoadRoundPlayers: %v", err)
	}
	if len(players) != 3 {
		t.Fatalf("expected 3 round players, got %d", len(players))
	}
	for _, p := range players {
		if len(p.Hand) != 2 {
			t.Errorf("seat %d: expected 2 cards on deal, got %d", p.SeatIndex, len(p.Hand))
		}
	}

	if !f.events.has(service.EventRoomStarted) {
		t.Error("expected room:started event")
	}
	// A natural 21 on the deal resolves the round before anyone acts.
	if round.Status == engine.RoundEnded {
		if !f.events.has(service.EventRoundEnded) {
			t.Error("expected round:ended event for a round resolved on the deal")
		}
	} else if !f.events.has(service.EventTurnNext) {
		t.Error("expected turn:next event")
	}
}

func TestStartRoundRejectedWhileRoundLive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, gameID := newCardGame(t, f, "alice", "bob")

	if err := f.games.StartRound(ctx, gameID); err != nil {
		t.Fatalf("StartRound: %v", err)
	}

	before, err := f.store.LoadRound(ctx, gameID)
	if err != nil {
		t.Fatalf("LoadRound: %v", err)
	}
	if before.Status != engine.RoundInProgress {
		t.Skip("round resolved on the deal")
	}

	// Dealing over a live round would abandon it and hand everyone fresh
	// cards mid-round.
	if err := f.games.StartRound(ctx, gameID); !errors.Is(err, service.ErrRoundInProgress) {
		t.Fatalf("expected ErrRoundInProgress, got %v", err)
	}

	after, err := f.store.LoadRound(ctx, gameID)
	if err != nil {
		t.Fatalf("LoadRound: %v", err)
	}
	if after.ID != before.ID {
		t.Errorf("live round %s was replaced by %s", before.ID, after.ID)
	}
}

func TestStartRoundAllowedBetweenRounds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, gameID := newCardGame(t, f, "alice", "bob")

	if err := f.games.StartRound(ctx, gameID); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	standOutRound(t, f, gameID)

	if err := f.games.StartRound(ctx, gameID); err != nil {
		t.Fatalf("expected redeal after the round ended, got %v", err)
	}
}

func TestActionsRejectOutOfTurnAndUnseated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, gameID := newCardGame(t, f, "alice", "bob")

	if err := f.games.StartRound(ctx, gameID); err != nil {
		t.Fatalf("StartRound: %v", err)
	}

	game, err := f.store.LoadGame(ctx, gameID)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if game.Status != service.GameInProgress {
		t.Skip("round resolved on the deal")
	}

	snap, err := f.games.Current(ctx, gameID, "alice")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	var offTurn string
	for _, p := range snap.Players {
		if p.SeatIndex != snap.TurnSeatIndex {
			offTurn = p.UserID
			break
		}
	}

	if _, err := f.games.Hit(ctx, gameID, offTurn); !errors.Is(err, engine.ErrNotPlayersTurn) {
		t.Errorf("expected ErrNotPlayersTurn for %s, got %v", offTurn, err)
	}
	if _, err := f.games.Hit(ctx, gameID, "mallory"); !errors.Is(err, service.ErrNotSeated) {
		t.Errorf("expected ErrNotSeated for mallory, got %v", err)
	}
}

func TestStandingOutEndsRound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, gameID := newCardGame(t, f, "alice", "bob")

	if err := f.games.StartRound(ctx, gameID); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	standOutRound(t, f, gameID)

	game, err := f.store.LoadGame(ctx, gameID)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if game.Status != service.GameBetweenRounds {
		t.Errorf("expected game between_rounds, got %s", game.Status)
	}
	if !f.events.has(service.EventRoundEnded) {
		t.Error("expected round:ended event")
	}

	round, err := f.store.LoadRound(ctx, gameID)
	if err != nil {
		t.Fatalf("LoadRound: %v", err)
	}
	if round.Status != engine.RoundEnded {
		t.Errorf("expected round ended, got %s", round.Status)
	}
	players, err := f.store.LoadRoundPlayers(ctx, round.ID)
	if err != nil {
		t.Fatalf("LoadRoundPlayers: %v", err)
	}
	winners := 0
	for _, p := range players {
		if p.Winner {
			winners++
		}
	}
	if winners == 0 {
		t.Error("expected at least one winner when nobody busts")
	}
}

func TestContinueRoundUnanimousStartsNextRound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, gameID := newCardGame(t, f, "alice", "bob")

	if err := f.games.StartRound(ctx, gameID); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	standOutRound(t, f, gameID)

	outcome, err := f.games.ContinueRound(ctx, gameID, "alice", true)
	if err != nil {
		t.Fatalf("ContinueRound(alice): %v", err)
	}
	if outcome != engine.VoteWaiting {
		t.Errorf("expected waiting after first vote, got %s", outcome)
	}
	if !f.events.has(service.EventContinueWaiting) {
		t.Error("expected continue:waiting event")
	}

	outcome, err = f.games.ContinueRound(ctx, gameID, "bob", true)
	if err != nil {
		t.Fatalf("ContinueRound(bob): %v", err)
	}
	if outcome != engine.VoteStarted {
		t.Errorf("expected started after unanimous vote, got %s", outcome)
	}

	// A fresh round was dealt; it may already have resolved on the deal.
	game, err := f.store.LoadGame(ctx, gameID)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if game.Status == service.GameEnded {
		t.Errorf("game should not end on a unanimous continue vote, got %s", game.Status)
	}
}

func TestContinueRoundVetoEndsGame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, gameID := newCardGame(t, f, "alice", "bob")

	if err := f.games.StartRound(ctx, gameID); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	standOutRound(t, f, gameID)

	outcome, err := f.games.ContinueRound(ctx, gameID, "bob", false)
	if err != nil {
		t.Fatalf("ContinueRound: %v", err)
	}
	if outcome != engine.VoteEnded {
		t.Errorf("expected ended after veto, got %s", outcome)
	}

	game, err := f.store.LoadGame(ctx, gameID)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if game.Status != service.GameEnded {
		t.Errorf("expected game ended, got %s", game.Status)
	}
	if !f.events.has(service.EventGameEnded) {
		t.Error("expected game:ended event")
	}

	if _, err := f.games.ContinueRound(ctx, gameID, "alice", true); !errors.Is(err, service.ErrGameNotActive) {
		t.Errorf("expected ErrGameNotActive after game ended, got %v", err)
	}
}

func TestContinueRoundRejectsUnseatedVoter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, gameID := newCardGame(t, f, "alice", "bob")

	if err := f.games.StartRound(ctx, gameID); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	standOutRound(t, f, gameID)

	// A stranger's veto must not end the game for the seated players.
	if _, err := f.games.ContinueRound(ctx, gameID, "mallory", false); !errors.Is(err, service.ErrNotSeated) {
		t.Fatalf("expected ErrNotSeated for mallory, got %v", err)
	}

	game, err := f.store.LoadGame(ctx, gameID)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if game.Status != service.GameBetweenRounds {
		t.Errorf("expected game between_rounds after rejected vote, got %s", game.Status)
	}

	// The seated players' barrier is untouched by the rejected vote.
	outcome, err := f.games.ContinueRound(ctx, gameID, "alice", true)
	if err != nil {
		t.Fatalf("ContinueRound(alice): %v", err)
	}
	if outcome != engine.VoteWaiting {
		t.Errorf("expected waiting after the first seated vote, got %s", outcome)
	}
}

func TestContinueRoundRejectedMidRound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, gameID := newCardGame(t, f, "alice", "bob")

	if err := f.games.StartRound(ctx, gameID); err != nil {
		t.Fatalf("StartRound: %v", err)
	}

	game, err := f.store.LoadGame(ctx, gameID)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if game.Status != service.GameInProgress {
		t.Skip("round resolved on the deal")
	}

	if _, err := f.games.ContinueRound(ctx, gameID, "alice", true); !errors.Is(err, service.ErrGameNotActive) {
		t.Errorf("expected ErrGameNotActive mid-round, got %v", err)
	}
}

func TestCancelGame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, gameID := newCardGame(t, f, "alice", "bob")

	if err := f.games.CancelGame(ctx, gameID); err != nil {
		t.Fatalf("CancelGame: %v", err)
	}

	game, err := f.store.LoadGame(ctx, gameID)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if game.Status != service.GameEnded {
		t.Errorf("expected game ended, got %s", game.Status)
	}
	if !f.events.has(service.EventGameCanceled) {
		t.Error("expected game:canceled event")
	}

	if err := f.games.CancelGame(ctx, gameID); !errors.Is(err, service.ErrGameNotActive) {
		t.Errorf("expected ErrGameNotActive on double cancel, got %v", err)
	}
}

func TestCurrentBeforeFirstRound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, gameID := newCardGame(t, f, "alice", "bob")

	snap, err := f.games.Current(ctx, gameID, "alice")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if snap.GameID != gameID {
		t.Errorf("expected game ID %s, got %s", gameID, snap.GameID)
	}
	if snap.RoundID != "" {
		t.Errorf("expected empty round ID before the first deal, got %s", snap.RoundID)
	}
}

func TestCurrentIdentifiesYou(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, gameID := newCardGame(t, f, "alice", "bob")

	if err := f.games.StartRound(ctx, gameID); err != nil {
		t.Fatalf("StartRound: %v", err)
	}

	snap, err := f.games.Current(ctx, gameID, "bob")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if snap.You == nil || snap.You.UserID != "bob" {
		t.Errorf("expected You to be bob, got %+v", snap.You)
	}
	if snap.DeckRemaining != 52-2*2 {
		t.Errorf("expected 48 cards remaining, got %d", snap.DeckRemaining)
	}
}
