// Package engine provides the core game logic for the card-table server.
//
// The engine package implements the authoritative state machines for both
// games the server hosts:
//   - Deck building and scoring for the house-ruled 21 variant (ace always 1)
//   - The round lifecycle: dealing, per-seat turns, bust/stand/blackjack
//     resolution and winner computation
//   - The continuation barrier that gates the next round on a unanimous vote
//   - The sequence-turn validator for the memory color game
//
// Core Types:
//
// RoundEngine drives one round from deal to resolution and owns the round's
// deck. ContinuationVotes collects between-round votes. MatchesPrefix and
// PaletteContains validate memory-game submissions.
//
// Usage:
//
//	eng, err := engine.StartRound(gameID, seated)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outcome, err := eng.Hit(seatIndex)
//	round, players := eng.Round(), eng.Players()
//
// The engine performs no I/O. Callers load snapshots, mutate through the
// engine, then persist the results; calls for the same game must be
// serialized by the caller (see game/session).
package engine
