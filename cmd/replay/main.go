// Command replay rebuilds a game from a move list and prints the board, the
// legal moves and the outcome.
//
//	replay -moves "f2-f3 e7-e5 g2-g4 d8-h4"
//	replay -file history.json   # [{"position":1,"move":{"start":"e2","end":"e4"}}, ...]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"slices"
	"strings"

	"crowdchess/internal/chess"
)

func main() {
	movesFlag := flag.String("moves", "", "space separated moves such as e2-e4 or a7-a8=n")
	file := flag.String("file", "", "JSON history file, - for stdin")
	verbose := flag.Bool("v", false, "log every applied move")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	history, err := loadHistory(*movesFlag, *file)
	if err != nil {
		log.Fatal(err)
	}

	e := chess.NewEngine(chess.WithLogger(logger))
	if *verbose {
		for _, rec := range history {
			if err := e.Play(rec.Move); err != nil {
				log.Fatalf("position %d: %v", rec.Position, err)
			}
		}
	} else if err := e.Rebuild(history); err != nil {
		log.Fatal(err)
	}

	fmt.Println(e.Board().Diagram())
	fmt.Println()

	out, err := e.Outcome()
	if err != nil {
		log.Fatal(err)
	}
	check, _ := e.InCheck()
	fmt.Printf("move %d, %s to move, in check: %v\n", e.MoveNumber(), e.ColorToMove(), check)
	fmt.Printf("outcome: %s\n", out)
	fmt.Printf("hash: %016x\n", e.Hash())

	legal, err := e.LegalMoves()
	if err != nil {
		log.Fatal(err)
	}
	starts := make([]chess.Square, 0, len(legal))
	for sq := range legal {
		starts = append(starts, sq)
	}
	slices.Sort(starts)
	for _, sq := range starts {
		dests := make([]string, len(legal[sq]))
		for i, d := range legal[sq] {
			dests[i] = string(d)
		}
		fmt.Printf("  %s: %s\n", sq, strings.Join(dests, " "))
	}
}

func loadHistory(moves, file string) ([]chess.RecordedMove, error) {
	if file != "" {
		var r io.Reader = os.Stdin
		if file != "-" {
			f, err := os.Open(file)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		var history []chess.RecordedMove
		if err := json.NewDecoder(r).Decode(&history); err != nil {
			return nil, fmt.Errorf("decode %s: %w", file, err)
		}
		return history, nil
	}

	var history []chess.RecordedMove
	for i, field := range strings.Fields(moves) {
		m, err := parseMove(field)
		if err != nil {
			return nil, err
		}
		history = append(history, chess.RecordedMove{Position: i + 1, Move: m})
	}
	return history, nil
}

// parseMove reads "e2-e4", "e2e4" or "a7-a8=n".
func parseMove(s string) (chess.Move, error) {
	var m chess.Move
	body, promo, _ := strings.Cut(s, "=")
	body = strings.ReplaceAll(body, "-", "")
	if len(body) != 4 {
		return m, fmt.Errorf("cannot parse move %q", s)
	}
	m.Start = chess.Square(body[:2])
	m.End = chess.Square(body[2:])
	m.Promotion = chess.ParsePieceKind(promo)
	return m, nil
}
