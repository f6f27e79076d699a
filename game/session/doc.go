// Package session provides per-game serialization for the card-table server.
//
// Each game's state is a single logical resource: two concurrent hits on the
// same seat must never both pass the turn-ownership check. The Manager hands
// out one mutex per game ID so the service layer can funnel every mutation
// for a game through a single critical section, while different games stay
// fully concurrent.
//
// Usage:
//
//	locks := session.NewManager()
//
//	err := locks.Do(gameID, func() error {
//		// load, mutate, persist
//		return nil
//	})
//
// Idle entries are pruned periodically by the server's cleanup routine so
// finished games do not accumulate locks.
package session
