package engine

import (
	"fmt"
	"sort"
	"time"
)

// BlackjackTarget is the score a hand aims for. Going past it busts the hand.
const BlackjackTarget = 21

// MaxSeats caps how many players one round can deal to. Two cards each for
// seven players still leaves most of the deck.
const MaxSeats = 7

// RoundStatus is the lifecycle state of a round.
type RoundStatus string

const (
	RoundInProgress RoundStatus = "in_progress"
	RoundEnded      RoundStatus = "ended"
)

// PlayerState is the state of one hand within a round. Transitions are
// one-way: playing may repeat (further hits), the other states are terminal.
type PlayerState string

const (
	StatePlaying   PlayerState = "playing"
	StateStood     PlayerState = "stood"
	StateBust      PlayerState = "bust"
	StateBlackjack PlayerState = "blackjack"
)

// Terminal reports whether the state admits no further actions.
func (s PlayerState) Terminal() bool {
	return s == StateStood || s == StateBust || s == StateBlackjack
}

// Round holds one round's authoritative state. The deck is owned exclusively
// by the active round and only ever shrinks from the front.
type Round struct {
	ID            string      `json:"id"`
	GameID        string      `json:"game_id"`
	Status        RoundStatus `json:"status"`
	Deck          []Card      `json:"deck"`
	TurnSeatIndex int         `json:"turn_seat_index"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// RoundPlayer is one seated player's hand and outcome within a round.
// Points is always Score(Hand); both are updated in the same operation.
type RoundPlayer struct {
	ID        string      `json:"id"`
	RoundID   string      `json:"round_id"`
	UserID    string      `json:"user_id"`
	SeatIndex int         `json:"seat_index"`
	Hand      []Card      `json:"hand"`
	State     PlayerState `json:"state"`
	Points    int         `json:"points"`
	Winner    bool        `json:"winner"`
}

// SeatedPlayer identifies a player occupying a seat when a round starts.
type SeatedPlayer struct {
	UserID    string `json:"user_id"`
	SeatIndex int    `json:"seat_index"`
}

// TurnOutcome describes what a single hit or stand did to the round.
type TurnOutcome struct {
	Dealt      *Card        `json:"dealt,omitempty"`
	Player     *RoundPlayer `json:"player"`
	RoundEnded bool         `json:"round_ended"`
	NextSeat   int          `json:"next_seat"` // -1 once the round has ended
	Winners    []string     `json:"winners,omitempty"`
}

// RoundEngine drives one round from deal to resolution. It is purely
// in-memory; persisting the round and its players is the caller's concern.
// Calls for the same game must be serialized by the caller.
type RoundEngine struct {
	round   *Round
	players []*RoundPlayer // ascending seat order
}

// newDeck builds the round's deck. Swapped in tests to deal known hands.
var newDeck = ShuffledDeck

// StartRound builds a shuffled deck and deals two full passes in seat order:
// one card to every seat, then a second card to every seat. Hands are scored
// immediately after the second pass. A two-card 21 is a natural blackjack and
// short-circuits the round: blackjack players win, everyone else is forced to
// stand and nobody takes a turn.
func StartRound(gameID string, seated []SeatedPlayer) (*RoundEngine, error) {
	if len(seated) == 0 {
		return nil, ErrNoSeatedPlayers
	}
	if len(seated) > MaxSeats {
		return nil, fmt.Errorf("round supports at most %d seats, got %d", MaxSeats, len(seated))
	}

	order := make([]SeatedPlayer, len(seated))
	copy(order, seated)
	sort.Slice(order, func(i, j int) bool { return order[i].SeatIndex < order[j].SeatIndex })

	now := time.Now()
	e := &RoundEngine{
		round: &Round{
			GameID:    gameID,
			Status:    RoundInProgress,
			Deck:      newDeck(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	for _, sp := range order {
		e.players = append(e.players, &RoundPlayer{
			UserID:    sp.UserID,
			SeatIndex: sp.SeatIndex,
			State:     StatePlaying,
		})
	}

	// Two full passes, never both cards to one player at once.
	for pass := 0; pass < 2; pass++ {
		for _, p := range e.players {
			card, err := e.draw()
			if err != nil {
				return nil, err
			}
			p.Hand = append(p.Hand, *card)
		}
	}

	// Initial resolution: score every hand once both cards are down.
	naturals := false
	for _, p := range e.players {
		p.Points = Score(p.Hand)
		switch {
		case p.Points == BlackjackTarget:
			p.State = StateBlackjack
			p.Winner = true
			naturals = true
		case p.Points > BlackjackTarget:
			p.State = StateBust
		}
	}

	if naturals {
		// Natural blackjack ends the round before anyone acts.
		for _, p := range e.players {
			if p.State == StatePlaying {
				p.State = StateStood
			}
		}
		e.endRound(true)
		return e, nil
	}

	first := e.firstPlayingFrom(0)
	if first == nil {
		e.endRound(false)
		return e, nil
	}
	e.round.TurnSeatIndex = first.SeatIndex
	return e, nil
}

// Resume rebuilds an engine from persisted snapshots of an in-flight round.
func Resume(round *Round, players []*RoundPlayer) (*RoundEngine, error) {
	if round == nil {
		return nil, fmt.Errorf("resume: round is nil")
	}
	if len(players) == 0 {
		return nil, ErrNoSeatedPlayers
	}
	ordered := make([]*RoundPlayer, len(players))
	copy(ordered, players)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].SeatIndex < ordered[j].SeatIndex })
	return &RoundEngine{round: round, players: ordered}, nil
}

// Round returns the round snapshot the engine mutates.
func (e *RoundEngine) Round() *Round { return e.round }

// Players returns the round's players in ascending seat order.
func (e *RoundEngine) Players() []*RoundPlayer { return e.players }

// Player returns the player occupying seatIndex, or nil.
func (e *RoundEngine) Player(seatIndex int) *RoundPlayer {
	for _, p := range e.players {
		if p.SeatIndex == seatIndex {
			return p
		}
	}
	return nil
}

// PlayerByUser returns the player for userID, or nil.
func (e *RoundEngine) PlayerByUser(userID string) *RoundPlayer {
	for _, p := range e.players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// Ended reports whether the round has been resolved.
func (e *RoundEngine) Ended() bool { return e.round.Status == RoundEnded }

// Winners returns the user IDs marked as winners, in seat order.
func (e *RoundEngine) Winners() []string {
	var out []string
	for _, p := range e.players {
		if p.Winner {
			out = append(out, p.UserID)
		}
	}
	return out
}

// Hit deals one card from the deck front to the acting seat, rescores the
// hand and advances the turn. A score over 21 busts; exactly 21 on a
// two-card hand is a blackjack and wins outright; exactly 21 on three or
// more cards auto-stands without an automatic win.
func (e *RoundEngine) Hit(seatIndex int) (*TurnOutcome, error) {
	p, err := e.actingPlayer(seatIndex)
	if err != nil {
		return nil, err
	}
	if len(e.round.Deck) == 0 {
		return nil, ErrDeckExhausted
	}

	card, err := e.draw()
	if err != nil {
		return nil, err
	}
	p.Hand = append(p.Hand, *card)
	p.Points = Score(p.Hand)

	switch {
	case p.Points > BlackjackTarget:
		p.State = StateBust
	case p.Points == BlackjackTarget && len(p.Hand) == 2:
		p.State = StateBlackjack
		p.Winner = true
	case p.Points == BlackjackTarget:
		p.State = StateStood
	}

	outcome := &TurnOutcome{Dealt: card, Player: p}
	e.advanceTurnOrEndRound(seatIndex, outcome)
	return outcome, nil
}

// Stand marks the acting seat as stood and advances the turn.
func (e *RoundEngine) Stand(seatIndex int) (*TurnOutcome, error) {
	p, err := e.actingPlayer(seatIndex)
	if err != nil {
		return nil, err
	}
	p.State = StateStood

	outcome := &TurnOutcome{Player: p}
	e.advanceTurnOrEndRound(seatIndex, outcome)
	return outcome, nil
}

// actingPlayer validates the turn-ownership preconditions shared by Hit and
// Stand. It rejects without mutating anything.
func (e *RoundEngine) actingPlayer(seatIndex int) (*RoundPlayer, error) {
	if e.round.Status == RoundEnded {
		return nil, ErrRoundEnded
	}
	p := e.Player(seatIndex)
	if p == nil {
		return nil, ErrSeatNotFound
	}
	if seatIndex != e.round.TurnSeatIndex {
		return nil, ErrNotPlayersTurn
	}
	if p.State != StatePlaying {
		return nil, ErrInvalidAction
	}
	return p, nil
}

// draw removes and returns the deck's front card.
func (e *RoundEngine) draw() (*Card, error) {
	if len(e.round.Deck) == 0 {
		return nil, ErrDeckExhausted
	}
	card := e.round.Deck[0]
	e.round.Deck = e.round.Deck[1:]
	return &card, nil
}

// advanceTurnOrEndRound moves the turn to the next seat still playing, in
// ascending-seat order wrapping around the seated-player count. When nobody
// is left playing it resolves the round instead.
func (e *RoundEngine) advanceTurnOrEndRound(fromSeat int, outcome *TurnOutcome) {
	e.round.UpdatedAt = time.Now()

	next := e.nextPlayingAfter(fromSeat)
	if next == nil {
		e.endRound(false)
		outcome.RoundEnded = true
		outcome.NextSeat = -1
		outcome.Winners = e.Winners()
		return
	}
	e.round.TurnSeatIndex = next.SeatIndex
	outcome.NextSeat = next.SeatIndex
}

// nextPlayingAfter scans seats above fromSeat, wrapping modulo the seated
// player count, and returns the first player still playing.
func (e *RoundEngine) nextPlayingAfter(fromSeat int) *RoundPlayer {
	start := 0
	for i, p := range e.players {
		if p.SeatIndex == fromSeat {
			start = i
			break
		}
	}
	for off := 1; off <= len(e.players); off++ {
		p := e.players[(start+off)%len(e.players)]
		if p.State == StatePlaying {
			return p
		}
	}
	return nil
}

// firstPlayingFrom returns the first playing player at or after the given
// slice position.
func (e *RoundEngine) firstPlayingFrom(pos int) *RoundPlayer {
	for i := pos; i < len(e.players); i++ {
		if e.players[i].State == StatePlaying {
			return e.players[i]
		}
	}
	return nil
}

// endRound resolves winners and closes the round. With naturals the winners
// were already flagged during the deal; otherwise every non-bust player tied
// at the maximum non-bust score wins. All-bust rounds have no winner.
func (e *RoundEngine) endRound(naturals bool) {
	if !naturals {
		best := -1
		for _, p := range e.players {
			if p.State == StateBust {
				continue
			}
			if p.Points > best {
				best = p.Points
			}
		}
		if best >= 0 {
			for _, p := range e.players {
				if p.State != StateBust && p.Points == best {
					p.Winner = true
				}
			}
		}
	}
	e.round.Status = RoundEnded
	e.round.UpdatedAt = time.Now()
}
