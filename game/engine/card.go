package engine

import "math/rand"

// Suit identifies one of the four card suits.
type Suit string

const (
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
)

// Suits lists all suits in canonical deck order.
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// Card is a single playing card. Cards are immutable values; a dealt card is
// removed from the deck and appended to a hand, never modified.
type Card struct {
	Rank  string `json:"rank"`  // "A", "2".."10", "J", "Q", "K"
	Value int    `json:"value"` // 1..13, the amount the card scores
	Suit  Suit   `json:"suit"`
}

// ranks maps symbolic ranks to their scoring value. The ace is always worth 1
// under the house rule; J, Q, K score 11, 12 and 13.
var ranks = []struct {
	Symbol string
	Value  int
}{
	{"A", 1}, {"2", 2}, {"3", 3}, {"4", 4}, {"5", 5}, {"6", 6}, {"7", 7},
	{"8", 8}, {"9", 9}, {"10", 10}, {"J", 11}, {"Q", 12}, {"K", 13},
}

// DeckSize is the number of cards in a fresh deck.
const DeckSize = 52

// NewDeck returns the full 52-card deck in canonical order (by suit, then
// rank).
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for _, r := range ranks {
			deck = append(deck, Card{Rank: r.Symbol, Value: r.Value, Suit: s})
		}
	}
	return deck
}

// ShuffledDeck builds a fresh deck and returns it in uniformly random order.
// Called exactly once per round start.
func ShuffledDeck() []Card {
	deck := NewDeck()
	rand.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}

// Score computes a hand's point total: the sum of each card's value with the
// ace fixed at 1. There is no alternate ace value in this variant.
func Score(hand []Card) int {
	total := 0
	for _, c := range hand {
		total += c.Value
	}
	return total
}
