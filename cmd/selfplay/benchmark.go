package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"crowdchess/internal/chess"
	"crowdchess/internal/tally"
)

// runBenchmark plays random games and reports how long legal-move
// generation, tallying and a full history rebuild take.
func runBenchmark(games, maxPlies int) {
	var (
		genTime, tallyTime, rebuildTime time.Duration
		genCalls, plies, rebuilds       int
	)

	for g := 0; g < games; g++ {
		e := chess.NewEngine()
		var history []chess.RecordedMove
		for ply := 0; ply < maxPlies; ply++ {
			start := time.Now()
			legal, err := e.LegalMoves()
			genTime += time.Since(start)
			genCalls++
			if err != nil {
				fmt.Printf("game %d: %v\n", g+1, err)
				return
			}
			moves := flatten(legal)
			if len(moves) == 0 {
				break
			}

			ballots := make([]chess.Move, 25)
			for i := range ballots {
				ballots[i] = moves[rand.IntN(len(moves))]
			}
			start = time.Now()
			m, err := tally.Winner(ballots, tally.Random)
			tallyTime += time.Since(start)
			if err != nil {
				fmt.Printf("game %d: %v\n", g+1, err)
				return
			}

			if err := e.Play(m); err != nil {
				fmt.Printf("game %d: %v\n", g+1, err)
				return
			}
			history = append(history, chess.RecordedMove{Position: ply + 1, Move: m})
			plies++
			if out, _ := e.Outcome(); out.Status.Terminal() {
				break
			}
		}

		start := time.Now()
		replay := chess.NewEngine()
		if err := replay.Rebuild(history); err != nil {
			fmt.Printf("game %d: %v\n", g+1, err)
			return
		}
		rebuildTime += time.Since(start)
		rebuilds++
		if replay.Hash() != e.Hash() {
			fmt.Printf("game %d: rebuilt position differs from played position\n", g+1)
			return
		}
	}

	fmt.Printf("games: %d, plies: %d\n", games, plies)
	if genCalls > 0 {
		fmt.Printf("legal moves: %d calls, %v avg\n", genCalls, genTime/time.Duration(genCalls))
	}
	if plies > 0 {
		fmt.Printf("tally (25 ballots): %v avg\n", tallyTime/time.Duration(plies))
	}
	if rebuilds > 0 {
		fmt.Printf("rebuild: %d games, %v avg\n", rebuilds, rebuildTime/time.Duration(rebuilds))
	}
}
