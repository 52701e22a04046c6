package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"slices"

	"crowdchess/internal/chess"
)

// Fixture is one position reached in a random game with everything a client
// or another rules implementation needs to check against.
type Fixture struct {
	History    []chess.RecordedMove            `json:"history"`
	Board      []string                        `json:"board"`
	ToMove     chess.Color                     `json:"to_move"`
	LegalMoves map[chess.Square][]chess.Square `json:"legal_moves"`
	Outcome    chess.Outcome                   `json:"outcome"`
	Hash       string                          `json:"hash"`
}

func main() {
	games := flag.Int("games", 10, "number of random games")
	maxPlies := flag.Int("plies", 200, "maximum half-moves per game")
	seed := flag.Uint64("seed", 1, "random seed")
	out := flag.String("out", "move_gen_fixtures.json", "output file")
	flag.Parse()

	rng := rand.New(rand.NewPCG(*seed, *seed^0x5deece66d))
	var fixtures []Fixture

	for g := 0; g < *games; g++ {
		e := chess.NewEngine()
		var history []chess.RecordedMove
		for ply := 0; ply < *maxPlies; ply++ {
			legal, err := e.LegalMoves()
			if err != nil {
				log.Fatalf("game %d ply %d: %v", g, ply, err)
			}
			outcome, err := e.Outcome()
			if err != nil {
				log.Fatalf("game %d ply %d: %v", g, ply, err)
			}
			fixtures = append(fixtures, Fixture{
				History:    slices.Clone(history),
				Board:      e.Board().Lines(),
				ToMove:     e.ColorToMove(),
				LegalMoves: legal,
				Outcome:    outcome,
				Hash:       fmt.Sprintf("%016x", e.Hash()),
			})
			if outcome.Status.Terminal() {
				break
			}

			m := pickMove(rng, legal)
			if err := e.Play(m); err != nil {
				log.Fatalf("game %d ply %d: %v", g, ply, err)
			}
			history = append(history, chess.RecordedMove{Position: ply + 1, Move: m})
		}
	}

	data, err := json.MarshalIndent(fixtures, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Generated %d fixtures from %d random games to %s\n", len(fixtures), *games, *out)
}

// pickMove draws uniformly over all legal moves; map order is not used.
func pickMove(rng *rand.Rand, legal map[chess.Square][]chess.Square) chess.Move {
	starts := make([]chess.Square, 0, len(legal))
	total := 0
	for sq, dests := range legal {
		starts = append(starts, sq)
		total += len(dests)
	}
	slices.Sort(starts)
	n := rng.IntN(total)
	for _, sq := range starts {
		if n < len(legal[sq]) {
			return chess.Move{Start: sq, End: legal[sq][n]}
		}
		n -= len(legal[sq])
	}
	panic("unreachable")
}
