package api

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// userLimiter applies a token bucket per user and periodically evicts idle
// entries.
type userLimiter struct {
	limit   rate.Limit
	burst   int
	mu      sync.Mutex
	byUser  map[string]*limiterEntry
	hits    uint64
	idleTTL time.Duration
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newUserLimiter creates a per-user limiter; returns nil if args are invalid.
// A nil limiter allows everything.
func newUserLimiter(rps float64, burst int, idleTTL time.Duration) *userLimiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &userLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		byUser:  make(map[string]*limiterEntry),
		idleTTL: idleTTL,
	}
}

// allow reports whether one token can be consumed for the user at now.
func (l *userLimiter) allow(userID string, now time.Time) bool {
	if l == nil {
		return true
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byUser[userID]
	if !ok {
		e = &limiterEntry{
			limiter:  rate.NewLimiter(l.limit, l.burst),
			lastSeen: now,
		}
		l.byUser[userID] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%512 == 0 {
		cutoff := now.Add(-l.idleTTL)
		for k, v := range l.byUser {
			if v.lastSeen.Before(cutoff) {
				delete(l.byUser, k)
			}
		}
	}

	return allowed
}
