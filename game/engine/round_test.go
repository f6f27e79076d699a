package engine

import (
	"errors"
	"testing"
)

// stackDeck makes StartRound deal from a deck with the given cards up front.
// Remaining cards follow in canonical order. Returns a restore func.
func stackDeck(t *testing.T, front ...Card) func() {
	t.Helper()

	seen := make(map[Card]bool)
	for _, f := range front {
		if seen[f] {
			t.Fatalf("stacked deck repeats card %+v", f)
		}
		seen[f] = true
	}

	prev := newDeck
	newDeck = func() []Card {
		deck := append([]Card{}, front...)
		for _, c := range NewDeck() {
			if !seen[c] {
				deck = append(deck, c)
			}
		}
		return deck
	}
	return func() { newDeck = prev }
}

func seats(userIDs ...string) []SeatedPlayer {
	out := make([]SeatedPlayer, len(userIDs))
	for i, id := range userIDs {
		out[i] = SeatedPlayer{UserID: id, SeatIndex: i}
	}
	return out
}

// cardsInPlay sums the deck and every hand, which must always equal 52.
func cardsInPlay(e *RoundEngine) int {
	n := len(e.Round().Deck)
	for _, p := range e.Players() {
		n += len(p.Hand)
	}
	return n
}

func TestStartRoundRequiresPlayers(t *testing.T) {
	if _, err := StartRound("g1", nil); !errors.Is(err, ErrNoSeatedPlayers) {
		t.Fatalf("expected ErrNoSeatedPlayers, got %v", err)
	}
}

func TestStartRoundDealsTwoFullPasses(t *testing.T) {
	// Pass one deals cards 0 and 1, pass two deals cards 2 and 3.
	restore := stackDeck(t,
		card("2", Spades), card("3", Hearts),
		card("4", Clubs), card("5", Diamonds),
	)
	defer restore()

	eng, err := StartRound("g1", seats("alice", "bob"))
	if err != nil {
		t.Fatalf("StartRound failed: %v", err)
	}

	alice := eng.Player(0)
	if alice.Hand[0] != card("2", Spades) || alice.Hand[1] != card("4", Clubs) {
		t.Errorf("seat 0 got wrong cards: %+v", alice.Hand)
	}
	bob := eng.Player(1)
	if bob.Hand[0] != card("3", Hearts) || bob.Hand[1] != card("5", Diamonds) {
		t.Errorf("seat 1 got wrong cards: %+v", bob.Hand)
	}

	if alice.Points != 6 || bob.Points != 8 {
		t.Errorf("expected points 6 and 8, got %d and %d", alice.Points, bob.Points)
	}
	if eng.Round().TurnSeatIndex != 0 {
		t.Errorf("expected first turn at seat 0, got %d", eng.Round().TurnSeatIndex)
	}
	if got := cardsInPlay(eng); got != DeckSize {
		t.Errorf("card conservation broken: %d cards in play", got)
	}
}

func TestNaturalBlackjackShortCircuitsRound(t *testing.T) {
	// Alice is dealt 8+K = 21; Bob gets 2+3 and never acts.
	restore := stackDeck(t,
		card("8", Spades), card("2", Hearts),
		card("K", Clubs), card("3", Diamonds),
	)
	defer restore()

	eng, err := StartRound("g1", seats("alice", "bob"))
	if err != nil {
		t.Fatalf("StartRound failed: %v", err)
	}

	if !eng.Ended() {
		t.Fatal("round should end immediately on a natural blackjack")
	}
	alice, bob := eng.Player(0), eng.Player(1)
	if alice.State != StateBlackjack || !alice.Winner {
		t.Errorf("expected blackjack winner at seat 0, got state=%s winner=%v", alice.State, alice.Winner)
	}
	if bob.State != StateStood || bob.Winner {
		t.Errorf("expected seat 1 forced to stand without winning, got state=%s winner=%v", bob.State, bob.Winner)
	}

	// Nobody gets to act once the round is resolved.
	if _, err := eng.Hit(1); !errors.Is(err, ErrRoundEnded) {
		t.Errorf("expected ErrRoundEnded, got %v", err)
	}
}

func TestHitOutOfTurnIsRejectedWithoutMutation(t *testing.T) {
	restore := stackDeck(t,
		card("2", Spades), card("3", Hearts),
		card("4", Clubs), card("5", Diamonds),
	)
	defer restore()

	eng, _ := StartRound("g1", seats("alice", "bob"))

	deckBefore := len(eng.Round().Deck)
	if _, err := eng.Hit(1); !errors.Is(err, ErrNotPlayersTurn) {
		t.Fatalf("expected ErrNotPlayersTurn, got %v", err)
	}
	if len(eng.Round().Deck) != deckBefore {
		t.Error("rejected hit must not touch the deck")
	}
	if len(eng.Player(1).Hand) != 2 {
		t.Error("rejected hit must not touch the hand")
	}
	if eng.Round().TurnSeatIndex != 0 {
		t.Error("rejected hit must not advance the turn")
	}
}

func TestHitBustsOverTwentyOne(t *testing.T) {
	// Alice: Q+J = 23? No — deal must stay under 21. Q+8 = 20, then K busts.
	restore := stackDeck(t,
		card("Q", Spades), card("2", Hearts),
		card("8", Clubs), card("3", Diamonds),
		card("K", Spades),
	)
	defer restore()

	eng, _ := StartRound("g1", seats("alice", "bob"))

	outcome, err := eng.Hit(0)
	if err != nil {
		t.Fatalf("Hit failed: %v", err)
	}
	if outcome.Player.State != StateBust {
		t.Errorf("expected bust, got %s", outcome.Player.State)
	}
	if outcome.Player.Winner {
		t.Error("a bust hand must never win")
	}
	if outcome.NextSeat != 1 {
		t.Errorf("expected turn to pass to seat 1, got %d", outcome.NextSeat)
	}
	if got := cardsInPlay(eng); got != DeckSize {
		t.Errorf("card conservation broken after hit: %d cards in play", got)
	}
}

func TestReachingTwentyOneWithThreeCardsAutoStands(t *testing.T) {
	// Alice: 8+9 = 17, hits a 4 for exactly 21 on three cards.
	restore := stackDeck(t,
		card("8", Spades), card("2", Hearts),
		card("9", Clubs), card("3", Diamonds),
		card("4", Spades),
	)
	defer restore()

	eng, _ := StartRound("g1", seats("alice", "bob"))

	outcome, err := eng.Hit(0)
	if err != nil {
		t.Fatalf("Hit failed: %v", err)
	}
	if outcome.Player.State != StateStood {
		t.Errorf("21 on three cards should auto-stand, got %s", outcome.Player.State)
	}
	if outcome.Player.Winner {
		t.Error("auto-stand at 21 must not grant an automatic win")
	}
}

func TestStandAdvancesTurnAndEndsRound(t *testing.T) {
	restore := stackDeck(t,
		card("10", Spades), card("9", Hearts),
		card("10", Clubs), card("9", Diamonds),
	)
	defer restore()

	eng, _ := StartRound("g1", seats("alice", "bob"))

	outcome, err := eng.Stand(0)
	if err != nil {
		t.Fatalf("Stand failed: %v", err)
	}
	if outcome.RoundEnded {
		t.Fatal("round should continue while seat 1 is still playing")
	}
	if outcome.NextSeat != 1 {
		t.Fatalf("expected next seat 1, got %d", outcome.NextSeat)
	}

	outcome, err = eng.Stand(1)
	if err != nil {
		t.Fatalf("Stand failed: %v", err)
	}
	if !outcome.RoundEnded || !eng.Ended() {
		t.Fatal("round should end once nobody is playing")
	}

	// Alice stood at 20, Bob at 18: only Alice wins.
	if ws := eng.Winners(); len(ws) != 1 || ws[0] != "alice" {
		t.Errorf("expected alice as sole winner, got %v", ws)
	}
}

func TestTiedMaxScoresAllWin(t *testing.T) {
	// Both players stand at 20.
	restore := stackDeck(t,
		card("10", Spades), card("10", Hearts),
		card("10", Clubs), card("10", Diamonds),
	)
	defer restore()

	eng, _ := StartRound("g1", seats("alice", "bob"))
	eng.Stand(0)
	outcome, _ := eng.Stand(1)

	if len(outcome.Winners) != 2 {
		t.Fatalf("expected both tied players to win, got %v", outcome.Winners)
	}
}

func TestAllBustLeavesNoWinner(t *testing.T) {
	// Both deal to 20, both hit kings and bust.
	restore := stackDeck(t,
		card("10", Spades), card("10", Hearts),
		card("10", Clubs), card("10", Diamonds),
		card("K", Spades), card("K", Hearts),
	)
	defer restore()

	eng, _ := StartRound("g1", seats("alice", "bob"))
	eng.Hit(0)
	outcome, err := eng.Hit(1)
	if err != nil {
		t.Fatalf("Hit failed: %v", err)
	}
	if !outcome.RoundEnded {
		t.Fatal("round should end when every player has busted")
	}
	if len(outcome.Winners) != 0 {
		t.Errorf("all-bust round must have no winner, got %v", outcome.Winners)
	}
}

func TestTurnWrapsAroundSkippingStoodSeats(t *testing.T) {
	// Four seats, everyone deals low. Seats 1 and 2 stand; a hit from seat 0
	// must then skip straight to seat 3.
	restore := stackDeck(t,
		card("2", Spades), card("2", Hearts), card("2", Clubs), card("2", Diamonds),
		card("3", Spades), card("3", Hearts), card("3", Clubs), card("3", Diamonds),
		card("4", Spades), card("4", Hearts), card("4", Clubs),
	)
	defer restore()

	eng, _ := StartRound("g1", seats("a", "b", "c", "d"))

	if _, err := eng.Hit(0); err != nil { // seat 0 at 9, still playing
		t.Fatalf("Hit failed: %v", err)
	}
	eng.Stand(1)
	eng.Stand(2)
	if eng.Round().TurnSeatIndex != 3 {
		t.Fatalf("expected seat 3 to act, got %d", eng.Round().TurnSeatIndex)
	}
	if _, err := eng.Hit(3); err != nil { // seat 3 at 9, still playing
		t.Fatalf("Hit failed: %v", err)
	}
	if eng.Round().TurnSeatIndex != 0 {
		t.Fatalf("expected wraparound to seat 0, got %d", eng.Round().TurnSeatIndex)
	}

	// Seats 1 and 2 stood: a hit from seat 0 must advance straight to 3.
	outcome, err := eng.Hit(0)
	if err != nil {
		t.Fatalf("Hit failed: %v", err)
	}
	if outcome.RoundEnded {
		t.Fatal("round should continue while seat 3 is still playing")
	}
	if outcome.NextSeat != 3 {
		t.Errorf("expected turn to skip stood seats 1 and 2 and land on 3, got %d", outcome.NextSeat)
	}
}

func TestTurnModulusFollowsSeatCountNotLobbySize(t *testing.T) {
	// Three seats: the scan must wrap modulo 3, not any fixed lobby size.
	restore := stackDeck(t,
		card("2", Spades), card("2", Hearts), card("2", Clubs),
		card("3", Spades), card("3", Hearts), card("3", Clubs),
		card("4", Spades), card("4", Hearts),
	)
	defer restore()

	eng, _ := StartRound("g1", seats("a", "b", "c"))

	eng.Hit(0)
	eng.Hit(1)
	eng.Stand(2)

	// Wrap from seat 2 back to seat 0.
	if eng.Round().TurnSeatIndex != 0 {
		t.Fatalf("expected wrap to seat 0 with a 3-player lobby, got %d", eng.Round().TurnSeatIndex)
	}
}

func TestActingInTerminalStateRejected(t *testing.T) {
	restore := stackDeck(t,
		card("2", Spades), card("3", Hearts),
		card("4", Clubs), card("5", Diamonds),
	)
	defer restore()

	eng, _ := StartRound("g1", seats("alice", "bob"))
	eng.Stand(0)

	// Seat 0 already stood; even if the caller forged the turn index the
	// terminal state rejects the action.
	if _, err := eng.Stand(0); err == nil {
		t.Fatal("expected an error for acting after standing")
	}
}

func TestResumeRebuildsSeatOrder(t *testing.T) {
	restore := stackDeck(t,
		card("2", Spades), card("3", Hearts),
		card("4", Clubs), card("5", Diamonds),
	)
	defer restore()

	eng, _ := StartRound("g1", seats("alice", "bob"))
	round, players := eng.Round(), eng.Players()

	// Hand the players over in reverse to verify Resume re-sorts by seat.
	resumed, err := Resume(round, []*RoundPlayer{players[1], players[0]})
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if resumed.Players()[0].SeatIndex != 0 {
		t.Error("Resume should order players by ascending seat")
	}

	if _, err := resumed.Hit(0); err != nil {
		t.Errorf("resumed round should accept the active seat's action: %v", err)
	}
}

func TestDeckConservationAcrossRound(t *testing.T) {
	eng, err := StartRound("g1", seats("a", "b", "c", "d", "e"))
	if err != nil {
		t.Fatalf("StartRound failed: %v", err)
	}

	for !eng.Ended() {
		if got := cardsInPlay(eng); got != DeckSize {
			t.Fatalf("card conservation broken mid-round: %d cards in play", got)
		}
		seat := eng.Round().TurnSeatIndex
		p := eng.Player(seat)
		if p.Points >= 17 {
			if _, err := eng.Stand(seat); err != nil {
				t.Fatalf("Stand failed: %v", err)
			}
		} else {
			if _, err := eng.Hit(seat); err != nil {
				t.Fatalf("Hit failed: %v", err)
			}
		}
	}

	if got := cardsInPlay(eng); got != DeckSize {
		t.Errorf("card conservation broken at round end: %d cards in play", got)
	}
	for _, p := range eng.Players() {
		if p.State == StateBust && p.Winner {
			t.Errorf("bust player %s marked winner", p.UserID)
		}
	}
}
