package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"slices"

	"crowdchess/internal/chess"
	"crowdchess/internal/server/game"
	"crowdchess/internal/store/memory"
)

func main() {
	voters := flag.Int("voters", 5, "ballots cast per round")
	maxRounds := flag.Int("maxrounds", 300, "rounds before giving up on a game")
	games := flag.Int("games", 1, "number of games to play")
	bench := flag.Bool("bench", false, "time move generation and rebuild instead of playing")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *voters < 1 {
		*voters = 1
	}
	if *bench {
		runBenchmark(*games, *maxRounds)
		return
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()
	manager := game.NewManager(memory.NewStore(), game.WithLogger(logger))

	results := map[string]int{}
	for g := 0; g < *games; g++ {
		out, rounds, err := playCrowdGame(ctx, manager, *voters, *maxRounds)
		if err != nil {
			log.Fatalf("game %d: %v", g+1, err)
		}
		fmt.Printf("=== Game %d: %s after %d rounds ===\n", g+1, out, rounds)
		results[out.String()]++
	}

	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Printf("%-32s %d\n", k, results[k])
	}
}

// playCrowdGame lets a crowd of random voters play one game to the end.
func playCrowdGame(ctx context.Context, manager *game.Manager, voters, maxRounds int) (chess.Outcome, int, error) {
	g, err := manager.NewGame(ctx)
	if err != nil {
		return chess.Outcome{}, 0, err
	}
	for round := 1; round <= maxRounds; round++ {
		snap, err := manager.Snapshot(ctx, g.ID)
		if err != nil {
			return chess.Outcome{}, round, err
		}
		candidates := flatten(snap.Legal)
		for i := 0; i < voters; i++ {
			if _, err := manager.SubmitVote(ctx, g.ID, candidates[rand.IntN(len(candidates))]); err != nil {
				return chess.Outcome{}, round, err
			}
		}

		res, err := manager.ResolveRound(ctx, g.ID)
		if err != nil {
			return chess.Outcome{}, round, err
		}
		if res.Skipped || len(res.Votes) == 0 {
			fmt.Printf("%3d. %-8s skipped\n", round, snap.ToMove())
			continue
		}
		fmt.Printf("%3d. %-8s %-10s (%d/%d votes)\n",
			round, snap.ToMove(), res.Winner.Move, res.Votes[0].Count, voters)
		if res.Outcome.Status.Terminal() {
			return res.Outcome, round, nil
		}
	}
	snap, err := manager.Snapshot(ctx, g.ID)
	return snap.Outcome, maxRounds, err
}

func flatten(legal map[chess.Square][]chess.Square) []chess.Move {
	var moves []chess.Move
	for from, dests := range legal {
		for _, to := range dests {
			moves = append(moves, chess.Move{Start: from, End: to})
		}
	}
	slices.SortFunc(moves, func(a, b chess.Move) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.End, b.End)
	})
	return moves
}
