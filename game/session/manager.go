package session

import (
	"sync"
	"time"
)

// entry is one game's serialization lock plus its last-use timestamp.
type entry struct {
	mu       sync.Mutex
	lastUsed time.Time
}

// Manager hands out one lock per game so every mutation for a game runs
// alone. It implements service.GameLocker.
type Manager struct {
	mu    sync.Mutex
	games map[string]*entry
}

// NewManager creates an empty lock manager.
func NewManager() *Manager {
	return &Manager{games: make(map[string]*entry)}
}

// Do runs fn while holding the game's lock. Calls for different games run
// concurrently; calls for the same game queue up in arrival order.
//
// After acquiring, the entry is checked against the map: CleanupIdle may have
// dropped it while this caller was between lookup and lock, in which case the
// acquired lock no longer serializes anything and the caller retries on the
// fresh entry.
func (m *Manager) Do(gameID string, fn func() error) error {
	for {
		e := m.entryFor(gameID)

		e.mu.Lock()
		if m.current(gameID) == e {
			defer e.mu.Unlock()
			return fn()
		}
		e.mu.Unlock()
	}
}

// current returns the game's live entry, or nil if none exists.
func (m *Manager) current(gameID string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.games[gameID]
}

// entryFor returns the game's lock entry, creating it on first use.
func (m *Manager) entryFor(gameID string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.games[gameID]
	if !ok {
		e = &entry{}
		m.games[gameID] = e
	}
	e.lastUsed = time.Now()
	return e
}

// Len returns how many games currently hold a lock entry.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.games)
}

// CleanupIdle drops lock entries unused for longer than maxIdle and returns
// how many were removed. An entry whose lock is held or contended fails the
// TryLock and survives the sweep; an entry deleted just before a caller
// acquires it is caught by Do's revalidation.
func (m *Manager) CleanupIdle(maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	removed := 0
	for id, e := range m.games {
		if !e.lastUsed.Before(cutoff) {
			continue
		}
		if !e.mu.TryLock() {
			continue
		}
		delete(m.games, id)
		e.mu.Unlock()
		removed++
	}
	return removed
}
