package main

import (
	"context"
	"log/slog"
	"testing"

	"crowdchess/internal/chess"
	"crowdchess/internal/server/game"
	"crowdchess/internal/store/memory"
)

func TestCrowdGamePlaysRounds(t *testing.T) {
	ctx := context.Background()
	manager := game.NewManager(memory.NewStore(), game.WithLogger(slog.New(slog.DiscardHandler)))

	_, rounds, err := playCrowdGame(ctx, manager, 3, 12)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if rounds < 1 || rounds > 12 {
		t.Fatalf("unexpected round count %d", rounds)
	}
}

func TestFlattenIsSorted(t *testing.T) {
	moves := flatten(map[chess.Square][]chess.Square{
		"g1": {"f3", "h3"},
		"b1": {"a3", "c3"},
	})
	want := []chess.Move{
		{Start: "b1", End: "a3"}, {Start: "b1", End: "c3"},
		{Start: "g1", End: "f3"}, {Start: "g1", End: "h3"},
	}
	if len(moves) != len(want) {
		t.Fatalf("got %v", moves)
	}
	for i := range want {
		if moves[i] != want[i] {
			t.Fatalf("move %d: got %v want %v", i, moves[i], want[i])
		}
	}
}
