package memory

import (
	"context"
	"sync"

	"gameroom/game/engine"
	"gameroom/game/service"
)

// Store is an in-memory Storage backend. It is the default backend for
// development and tests; nothing survives a restart.
//
// Entities are copied on the way in and out so callers can't mutate stored
// state behind the store's back.
type Store struct {
	mu sync.RWMutex

	rooms       map[string]*service.Room
	roomPlayers map[string][]*service.RoomPlayer
	games       map[string]*service.Game
	// rounds are kept per game in creation order; the last one is current.
	rounds       map[string][]*engine.Round
	roundPlayers map[string][]*engine.RoundPlayer
	turns        map[string][]*engine.SequenceTurn
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		rooms:        make(map[string]*service.Room),
		roomPlayers:  make(map[string][]*service.RoomPlayer),
		games:        make(map[string]*service.Game),
		rounds:       make(map[string][]*engine.Round),
		roundPlayers: make(map[string][]*engine.RoundPlayer),
		turns:        make(map[string][]*engine.SequenceTurn),
	}
}

var _ service.Storage = (*Store)(nil)

func (s *Store) CreateRoom(_ context.Context, room *service.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = cloneRoom(room)
	return nil
}

func (s *Store) LoadRoom(_ context.Context, id string) (*service.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return cloneRoom(room), nil
}

func (s *Store) SaveRoom(_ context.Context, room *service.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID]; !ok {
		return service.ErrNotFound
	}
	s.rooms[room.ID] = cloneRoom(room)
	return nil
}

func (s *Store) ListWaitingRooms(_ context.Context) ([]*service.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*service.Room
	for _, room := range s.rooms {
		if room.Status == service.RoomWaiting {
			out = append(out, cloneRoom(room))
		}
	}
	return out, nil
}

func (s *Store) AddRoomPlayer(_ context.Context, rp *service.RoomPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *rp
	s.roomPlayers[rp.RoomID] = append(s.roomPlayers[rp.RoomID], &c)
	return nil
}

func (s *Store) LoadSeatedPlayers(_ context.Context, roomID string) ([]*service.RoomPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := s.roomPlayers[roomID]
	out := make([]*service.RoomPlayer, len(players))
	for i, p := range players {
		c := *p
		out[i] = &c
	}
	// Players are appended in join order, which is seat order.
	return out, nil
}

func (s *Store) CreateGame(_ context.Context, game *service.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = cloneGame(game)
	return nil
}

func (s *Store) LoadGame(_ context.Context, id string) (*service.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return cloneGame(game), nil
}

func (s *Store) SaveGame(_ context.Context, game *service.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[game.ID]; !ok {
		return service.ErrNotFound
	}
	s.games[game.ID] = cloneGame(game)
	return nil
}

func (s *Store) CreateRound(_ context.Context, round *engine.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[round.GameID] = append(s.rounds[round.GameID], cloneRound(round))
	return nil
}

func (s *Store) LoadRound(_ context.Context, gameID string) (*engine.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rounds := s.rounds[gameID]
	if len(rounds) == 0 {
		return nil, service.ErrNotFound
	}
	return cloneRound(rounds[len(rounds)-1]), nil
}

func (s *Store) SaveRound(_ context.Context, round *engine.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rounds := s.rounds[round.GameID]
	for i, r := range rounds {
		if r.ID == round.ID {
			rounds[i] = cloneRound(round)
			return nil
		}
	}
	return service.ErrNotFound
}

func (s *Store) CreateRoundPlayer(_ context.Context, rp *engine.RoundPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roundPlayers[rp.RoundID] = append(s.roundPlayers[rp.RoundID], cloneRoundPlayer(rp))
	return nil
}

func (s *Store) SaveRoundPlayer(_ context.Context, rp *engine.RoundPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	players := s.roundPlayers[rp.RoundID]
	for i, p := range players {
		if p.ID == rp.ID {
			players[i] = cloneRoundPlayer(rp)
			return nil
		}
	}
	return service.ErrNotFound
}

func (s *Store) LoadRoundPlayers(_ context.Context, roundID string) ([]*engine.RoundPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := s.roundPlayers[roundID]
	out := make([]*engine.RoundPlayer, len(players))
	for i, p := range players {
		out[i] = cloneRoundPlayer(p)
	}
	return out, nil
}

func (s *Store) AppendSequenceTurn(_ context.Context, turn *engine.SequenceTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns[turn.GameID] = append(s.turns[turn.GameID], cloneTurn(turn))
	return nil
}

func (s *Store) SaveSequenceTurn(_ context.Context, turn *engine.SequenceTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := s.turns[turn.GameID]
	for i, t := range turns {
		if t.ID == turn.ID {
			turns[i] = cloneTurn(turn)
			return nil
		}
	}
	return service.ErrNotFound
}

func (s *Store) ListSequenceTurns(_ context.Context, gameID string) ([]*engine.SequenceTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := s.turns[gameID]
	out := make([]*engine.SequenceTurn, len(turns))
	for i, t := range turns {
		out[i] = cloneTurn(t)
	}
	return out, nil
}

func (s *Store) LoadLastUnfinishedTurn(_ context.Context, gameID, playerID string) (*engine.SequenceTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := s.turns[gameID]
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].PlayerID == playerID && !turns[i].Finished {
			return cloneTurn(turns[i]), nil
		}
	}
	return nil, service.ErrNotFound
}

func cloneRoom(r *service.Room) *service.Room {
	c := *r
	c.Palette = append([]engine.Color(nil), r.Palette...)
	return &c
}

func cloneGame(g *service.Game) *service.Game {
	c := *g
	c.Sequence = append([]engine.Color(nil), g.Sequence...)
	return &c
}

func cloneRound(r *engine.Round) *engine.Round {
	c := *r
	c.Deck = append([]engine.Card(nil), r.Deck...)
	return &c
}

func cloneRoundPlayer(p *engine.RoundPlayer) *engine.RoundPlayer {
	c := *p
	c.Hand = append([]engine.Card(nil), p.Hand...)
	return &c
}

func cloneTurn(t *engine.SequenceTurn) *engine.SequenceTurn {
	c := *t
	c.Input = append([]engine.Color(nil), t.Input...)
	return &c
}
