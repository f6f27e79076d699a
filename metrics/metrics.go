// Package metrics exposes Prometheus collectors for the server's state
// transitions: round starts and ends, hand outcomes, continuation votes and
// sequence turns. Collectors register on the default registry and are served
// from /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RoundsStarted counts rounds dealt.
	RoundsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gameroom_rounds_started_total",
		Help: "Rounds dealt across all games.",
	})

	// RoundsEnded counts resolved rounds.
	RoundsEnded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gameroom_rounds_ended_total",
		Help: "Rounds resolved across all games.",
	})

	// HandOutcomes counts terminal hand states per round resolution.
	HandOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameroom_hand_outcomes_total",
		Help: "Terminal hand states at round end.",
	}, []string{"state"})

	// VoteOutcomes counts continuation barrier resolutions.
	VoteOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameroom_vote_outcomes_total",
		Help: "Continuation vote results (waiting, started, ended).",
	}, []string{"outcome"})

	// SequenceTurns counts memory-game submissions by validity.
	SequenceTurns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameroom_sequence_turns_total",
		Help: "Memory game turn submissions by result.",
	}, []string{"result"})

	// GamesEnded counts games reaching a terminal status, by cause.
	GamesEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameroom_games_ended_total",
		Help: "Games ended, labeled by cause (vote, forfeit, canceled).",
	}, []string{"cause"})
)
