package engine

// VoteOutcome is the continuation barrier's decision after a vote lands.
type VoteOutcome string

const (
	// VoteWaiting means not every seated player has agreed yet.
	VoteWaiting VoteOutcome = "waiting"
	// VoteStarted means every seated player agreed; the next round starts.
	VoteStarted VoteOutcome = "started"
	// VoteEnded means at least one player declined; the game ends.
	VoteEnded VoteOutcome = "ended"
)

// ContinuationVotes collects one yes/no decision per player between rounds.
// It is a unanimity barrier with early exit on veto: any false decision ends
// the game regardless of votes already cast or still outstanding. A repeat
// vote from the same player overwrites the earlier one (last write wins).
//
// The value is ephemeral. It lives only for one between-rounds window and is
// discarded whenever a round starts or the game ends. Callers must serialize
// access per game.
type ContinuationVotes struct {
	decisions map[string]bool
}

// NewContinuationVotes returns an empty vote collector.
func NewContinuationVotes() *ContinuationVotes {
	return &ContinuationVotes{decisions: make(map[string]bool)}
}

// Record stores or overwrites userID's decision.
func (v *ContinuationVotes) Record(userID string, decision bool) {
	v.decisions[userID] = decision
}

// Outcome resolves the barrier against the current seated-player list.
// Vote order and timing never change the result.
func (v *ContinuationVotes) Outcome(seatedUserIDs []string) VoteOutcome {
	for _, d := range v.decisions {
		if !d {
			return VoteEnded
		}
	}
	for _, id := range seatedUserIDs {
		if _, ok := v.decisions[id]; !ok {
			return VoteWaiting
		}
	}
	return VoteStarted
}

// Len returns how many players have voted.
func (v *ContinuationVotes) Len() int { return len(v.decisions) }
