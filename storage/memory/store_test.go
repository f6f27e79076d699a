package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"gameroom/game/engine"
	"gameroom/game/service"
)

func TestRoomRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	room := &service.Room{
		ID:       "r1",
		Name:     "table one",
		HostID:   "alice",
		Status:   service.RoomWaiting,
		MaxSeats: 4,
	}
	if err := s.CreateRoom(ctx, room); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	loaded, err := s.LoadRoom(ctx, "r1")
	if err != nil {
		t.Fatalf("LoadRoom failed: %v", err)
	}
	if loaded.Name != "table one" || loaded.HostID != "alice" {
		t.Errorf("unexpected room: %+v", loaded)
	}

	// Mutating the loaded copy must not affect stored state.
	loaded.Name = "mutated"
	again, _ := s.LoadRoom(ctx, "r1")
	if again.Name != "table one" {
		t.Error("store returned aliased room state")
	}
}

func TestLoadRoomNotFound(t *testing.T) {
	s := New()
	if _, err := s.LoadRoom(context.Background(), "missing"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveRoomRequiresExisting(t *testing.T) {
	s := New()
	err := s.SaveRoom(context.Background(), &service.Room{ID: "ghost"})
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListWaitingRooms(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.CreateRoom(ctx, &service.Room{ID: "w1", Status: service.RoomWaiting})
	s.CreateRoom(ctx, &service.Room{ID: "p1", Status: service.RoomPlaying})
	s.CreateRoom(ctx, &service.Room{ID: "w2", Status: service.RoomWaiting})

	rooms, err := s.ListWaitingRooms(ctx)
	if err != nil {
		t.Fatalf("ListWaitingRooms failed: %v", err)
	}
	if len(rooms) != 2 {
		t.Errorf("expected 2 waiting rooms, got %d", len(rooms))
	}
	for _, r := range rooms {
		if r.Status != service.RoomWaiting {
			t.Errorf("non-waiting room returned: %+v", r)
		}
	}
}

func TestSeatedPlayersPreserveJoinOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i, user := range []string{"alice", "bob", "carol"} {
		err := s.AddRoomPlayer(ctx, &service.RoomPlayer{
			ID:        user + "-seat",
			RoomID:    "r1",
			UserID:    user,
			SeatIndex: i,
		})
		if err != nil {
			t.Fatalf("AddRoomPlayer failed: %v", err)
		}
	}

	seated, err := s.LoadSeatedPlayers(ctx, "r1")
	if err != nil {
		t.Fatalf("LoadSeatedPlayers failed: %v", err)
	}
	if len(seated) != 3 {
		t.Fatalf("expected 3 players, got %d", len(seated))
	}
	for i, p := range seated {
		if p.SeatIndex != i {
			t.Errorf("seat %d out of order: %+v", i, p)
		}
	}
}

func TestLoadRoundReturnsLatest(t *testing.T) {
	s := New()
	ctx := context.Background()

	first := &engine.Round{ID: "round-1", GameID: "g1", Status: engine.RoundEnded, CreatedAt: time.Now()}
	second := &engine.Round{ID: "round-2", GameID: "g1", Status: engine.RoundInProgress, CreatedAt: time.Now()}
	s.CreateRound(ctx, first)
	s.CreateRound(ctx, second)

	current, err := s.LoadRound(ctx, "g1")
	if err != nil {
		t.Fatalf("LoadRound failed: %v", err)
	}
	if current.ID != "round-2" {
		t.Errorf("expected latest round, got %s", current.ID)
	}
}

func TestSaveRoundUpdatesInPlace(t *testing.T) {
	s := New()
	ctx := context.Background()

	round := &engine.Round{ID: "round-1", GameID: "g1", Status: engine.RoundInProgress, TurnSeatIndex: 0}
	s.CreateRound(ctx, round)

	round.TurnSeatIndex = 2
	round.Status = engine.RoundEnded
	if err := s.SaveRound(ctx, round); err != nil {
		t.Fatalf("SaveRound failed: %v", err)
	}

	loaded, _ := s.LoadRound(ctx, "g1")
	if loaded.TurnSeatIndex != 2 || loaded.Status != engine.RoundEnded {
		t.Errorf("round not updated: %+v", loaded)
	}
}

func TestRoundPlayerRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	rp := &engine.RoundPlayer{
		ID:      "rp1",
		RoundID: "round-1",
		UserID:  "alice",
		Hand:    []engine.Card{{Rank: "A", Value: 1, Suit: engine.Spades}},
		State:   engine.StatePlaying,
		Points:  1,
	}
	s.CreateRoundPlayer(ctx, rp)

	rp.Hand = append(rp.Hand, engine.Card{Rank: "K", Value: 13, Suit: engine.Hearts})
	rp.Points = 14
	if err := s.SaveRoundPlayer(ctx, rp); err != nil {
		t.Fatalf("SaveRoundPlayer failed: %v", err)
	}

	players, err := s.LoadRoundPlayers(ctx, "round-1")
	if err != nil {
		t.Fatalf("LoadRoundPlayers failed: %v", err)
	}
	if len(players) != 1 || players[0].Points != 14 || len(players[0].Hand) != 2 {
		t.Errorf("unexpected round players: %+v", players)
	}
}

func TestLoadLastUnfinishedTurn(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.AppendSequenceTurn(ctx, &engine.SequenceTurn{ID: "t1", GameID: "g1", PlayerID: "alice", TurnNumber: 1, Finished: true})
	s.AppendSequenceTurn(ctx, &engine.SequenceTurn{ID: "t2", GameID: "g1", PlayerID: "bob", TurnNumber: 2, Finished: false})
	s.AppendSequenceTurn(ctx, &engine.SequenceTurn{ID: "t3", GameID: "g1", PlayerID: "alice", TurnNumber: 3, Finished: false})

	turn, err := s.LoadLastUnfinishedTurn(ctx, "g1", "alice")
	if err != nil {
		t.Fatalf("LoadLastUnfinishedTurn failed: %v", err)
	}
	if turn.ID != "t3" {
		t.Errorf("expected t3, got %s", turn.ID)
	}

	if _, err := s.LoadLastUnfinishedTurn(ctx, "g1", "carol"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound for player with no turns, got %v", err)
	}
}

func TestSequenceTurnsListedInOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		s.AppendSequenceTurn(ctx, &engine.SequenceTurn{
			ID:         string(rune('a' + i)),
			GameID:     "g1",
			TurnNumber: i,
		})
	}

	turns, err := s.ListSequenceTurns(ctx, "g1")
	if err != nil {
		t.Fatalf("ListSequenceTurns failed: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	for i, turn := range turns {
		if turn.TurnNumber != i+1 {
			t.Errorf("turn %d out of order: %+v", i, turn)
		}
	}
}
