package main

// target is the 21-variant's winning score; any hand above it busts.
const target = 21

// CountingStrategy decides hit-or-stand by estimating the probability that
// the next card busts the acting hand. Every visible hand contributes to the
// count, so the estimate sharpens as the round progresses.
type CountingStrategy struct {
	risk float64
}

// NewCountingStrategy returns a strategy that hits while the estimated bust
// probability stays below risk.
func NewCountingStrategy(risk float64) *CountingStrategy {
	return &CountingStrategy{risk: risk}
}

// ShouldHit reports whether the actor should draw another card.
func (s *CountingStrategy) ShouldHit(snap *Snapshot, actor *RoundPlayer) bool {
	if actor.Points >= target {
		return false
	}
	// A hand of 8 or less can never bust on one card (max value 13).
	if actor.Points+13 <= target {
		return true
	}
	return s.BustProbability(snap, actor) < s.risk
}

// BustProbability estimates the chance the next draw pushes the actor over
// the target, counting cards already visible in every hand out of the deck.
func (s *CountingStrategy) BustProbability(snap *Snapshot, actor *RoundPlayer) float64 {
	// Four cards of each value 1..13 in a fresh deck.
	var remaining [14]int
	for v := 1; v <= 13; v++ {
		remaining[v] = 4
	}

	unseen := 52
	for _, p := range snap.Players {
		for _, c := range p.Hand {
			if c.Value >= 1 && c.Value <= 13 && remaining[c.Value] > 0 {
				remaining[c.Value]--
				unseen--
			}
		}
	}
	if unseen <= 0 {
		return 1
	}

	busting := 0
	for v := 1; v <= 13; v++ {
		if actor.Points+v > target {
			busting += remaining[v]
		}
	}
	return float64(busting) / float64(unseen)
}
