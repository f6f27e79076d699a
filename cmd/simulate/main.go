// Command simulate plays rounds of the card game against itself and prints
// the outcome distribution. It drives the pure engine directly, so it is a
// quick way to sanity-check rule changes: how often naturals happen, how
// often everyone busts, how long rounds run with a given stand threshold.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"gameroom/game/engine"
)

func main() {
	cmd := &cli.Command{
		Name:  "simulate",
		Usage: "simulate rounds of the card game and report outcomes",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "rounds",
				Value: 1000,
				Usage: "number of rounds to simulate",
			},
			&cli.IntFlag{
				Name:  "players",
				Value: 4,
				Usage: "seated players per round (2-7)",
			},
			&cli.IntFlag{
				Name:  "stand-at",
				Value: 17,
				Usage: "players hit while below this score",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

type tally struct {
	rounds        int
	naturals      int
	allBust       int
	sharedWins    int
	totalActions  int
	winnerHands   int
	totalWinScore int
	handStates    map[engine.PlayerState]int
}

func run(ctx context.Context, cmd *cli.Command) error {
	rounds := int(cmd.Int("rounds"))
	players := int(cmd.Int("players"))
	standAt := int(cmd.Int("stand-at"))

	if players < 2 || players > engine.MaxSeats {
		return fmt.Errorf("players must be between 2 and %d, got %d", engine.MaxSeats, players)
	}
	if standAt < 2 || standAt > engine.BlackjackTarget {
		return fmt.Errorf("stand-at must be between 2 and %d, got %d", engine.BlackjackTarget, standAt)
	}

	seated := make([]engine.SeatedPlayer, players)
	for i := range seated {
		seated[i] = engine.SeatedPlayer{UserID: fmt.Sprintf("sim-%d", i), SeatIndex: i}
	}

	t := tally{handStates: make(map[engine.PlayerState]int)}

	for i := 0; i < rounds; i++ {
		if err := playRound(seated, standAt, &t); err != nil {
			return fmt.Errorf("round %d: %w", i+1, err)
		}
	}

	report(cmd.Writer, players, standAt, &t)
	return nil
}

// playRound runs one round with every player hitting below the threshold.
func playRound(seated []engine.SeatedPlayer, standAt int, t *tally) error {
	eng, err := engine.StartRound("sim", seated)
	if err != nil {
		return err
	}

	if eng.Ended() {
		t.naturals++
	}

	for !eng.Ended() {
		seat := eng.Round().TurnSeatIndex
		player := eng.Player(seat)

		if player.Points < standAt {
			_, err = eng.Hit(seat)
		} else {
			_, err = eng.Stand(seat)
		}
		if err != nil {
			return err
		}
		t.totalActions++
	}

	t.rounds++
	winners := eng.Winners()
	switch {
	case len(winners) == 0:
		t.allBust++
	case len(winners) > 1:
		t.sharedWins++
	}
	for _, p := range eng.Players() {
		t.handStates[p.State]++
		if p.Winner {
			t.winnerHands++
			t.totalWinScore += p.Points
		}
	}
	return nil
}

func report(w io.Writer, players, standAt int, t *tally) {
	fmt.Fprintf(w, "Simulated %d rounds, %d players, hitting below %d\n\n", t.rounds, players, standAt)
	fmt.Fprintf(w, "Rounds decided on the deal (naturals): %d (%.1f%%)\n", t.naturals, pct(t.naturals, t.rounds))
	fmt.Fprintf(w, "Rounds everyone busted:                %d (%.1f%%)\n", t.allBust, pct(t.allBust, t.rounds))
	fmt.Fprintf(w, "Rounds with shared wins:               %d (%.1f%%)\n", t.sharedWins, pct(t.sharedWins, t.rounds))
	if t.rounds > 0 {
		fmt.Fprintf(w, "Average actions per round:             %.2f\n", float64(t.totalActions)/float64(t.rounds))
	}
	if t.winnerHands > 0 {
		fmt.Fprintf(w, "Average winning score:                 %.2f\n", float64(t.totalWinScore)/float64(t.winnerHands))
	}

	fmt.Fprintf(w, "\nHand outcomes:\n")
	for _, state := range []engine.PlayerState{engine.StateBlackjack, engine.StateStood, engine.StateBust} {
		if n := t.handStates[state]; n > 0 {
			fmt.Fprintf(w, "  %-10s %d (%.1f%%)\n", state, n, pct(n, t.rounds*players))
		}
	}
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}
