package chess

import (
	"errors"
	"math/rand/v2"
	"testing"
)

// setup builds an engine from a diagram with no castling rights and no
// en-passant target.
func setup(t *testing.T, layout string, toMove Color) *Engine {
	t.Helper()
	b, err := parseBoard(layout)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	e := NewEngine()
	e.state = GameState{
		Board:      b,
		MoveNumber: 1,
		EnPassant:  [2]int{NoFile, NoFile},
	}
	if toMove == Black {
		e.state.MoveNumber = 2
	}
	return e
}

func mv(start, end Square) Move { return Move{Start: start, End: end} }

func playAll(t *testing.T, e *Engine, moves ...Move) {
	t.Helper()
	for _, m := range moves {
		if err := e.Play(m); err != nil {
			t.Fatalf("play %s: %v", m, err)
		}
	}
}

func TestInitialPosition(t *testing.T) {
	e := NewEngine()
	st := e.State()
	if st.MoveNumber != 1 || e.ColorToMove() != White {
		t.Fatalf("move number %d, to move %s", st.MoveNumber, e.ColorToMove())
	}
	if st.Castling != [2][2]bool{{true, true}, {true, true}} {
		t.Fatalf("castling rights: %v", st.Castling)
	}
	if st.EnPassant != [2]int{NoFile, NoFile} || st.HalfMoveClock != 0 {
		t.Fatalf("en passant %v half-move clock %d", st.EnPassant, st.HalfMoveClock)
	}
	if got := e.PieceAt("e1"); got != MakePiece(White, King) {
		t.Fatalf("e1 holds %v", got)
	}
	if got := e.PieceAt("d8"); got != MakePiece(Black, Queen) {
		t.Fatalf("d8 holds %v", got)
	}

	legal, err := e.LegalMoves()
	if err != nil {
		t.Fatalf("legal moves: %v", err)
	}
	total := 0
	for _, dests := range legal {
		total += len(dests)
	}
	if total != 20 || len(legal) != 10 {
		t.Fatalf("expected 20 moves from 10 pieces, got %d from %d", total, len(legal))
	}
	if got := legal["g1"]; len(got) != 2 || got[0] != "f3" || got[1] != "h3" {
		t.Fatalf("g1 knight moves: %v", got)
	}
}

func TestOpeningMoveAndWrongTurn(t *testing.T) {
	e := NewEngine()
	if err := e.ValidateMove(mv("e2", "e4")); err != nil {
		t.Fatalf("e2-e4 should be legal: %v", err)
	}
	err := e.ValidateMove(mv("e7", "e5"))
	if !errors.Is(err, ErrNoPieceOrWrongTurn) {
		t.Fatalf("e7-e5 for white: got %v", err)
	}
	var me *MoveError
	if !errors.As(err, &me) || me.Move != mv("e7", "e5") {
		t.Fatalf("expected *MoveError carrying the move, got %#v", err)
	}
}

func TestValidateMoveRejectionKinds(t *testing.T) {
	cases := []struct {
		name string
		move Move
		want error
	}{
		{"off board", mv("e2", "e9"), ErrMalformedMove},
		{"garbage", mv("zz", "e4"), ErrMalformedMove},
		{"null", mv("e2", "e2"), ErrNullMove},
		{"empty start", mv("e4", "e5"), ErrNoPieceOrWrongTurn},
		{"own capture", mv("a1", "a2"), ErrSelfCapture},
		{"knight shape", mv("b1", "b3"), ErrIllegalShape},
		{"pawn triple", mv("e2", "e5"), ErrIllegalShape},
		{"bishop blocked", mv("c1", "e3"), ErrIllegalShape},
	}
	for _, tc := range cases {
		e := NewEngine()
		err := e.ValidateMove(tc.move)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, err, tc.want)
		}
		if !IsRejection(err) || RejectionCode(err) == "" {
			t.Fatalf("%s: %v should be a rejection", tc.name, err)
		}
	}
}

func TestValidateMoveLeavesStateUntouched(t *testing.T) {
	e := NewEngine()
	before := e.State()
	for _, m := range []Move{mv("e2", "e4"), mv("g1", "f3"), mv("a1", "a3")} {
		_ = e.ValidateMove(m)
	}
	if _, err := e.LegalMoves(); err != nil {
		t.Fatalf("legal moves: %v", err)
	}
	if e.State() != before {
		t.Fatalf("validation mutated the position")
	}
}

func TestPinnedPieceExposesKing(t *testing.T) {
	e := setup(t, `
k...r...
........
........
........
........
........
....B...
....K...`, White)
	err := e.ValidateMove(mv("e2", "d3"))
	if !errors.Is(err, ErrExposesKing) {
		t.Fatalf("pinned bishop: got %v", err)
	}
	legal, err := e.LegalMoves()
	if err != nil {
		t.Fatalf("legal moves: %v", err)
	}
	if _, ok := legal["e2"]; ok {
		t.Fatalf("pinned bishop should have no legal moves: %v", legal["e2"])
	}
}

func TestRebuildIsIdempotent(t *testing.T) {
	history := []RecordedMove{
		{Position: 3, Move: mv("g1", "f3")},
		{Position: 1, Move: mv("e2", "e4")},
		{Position: 2, Move: mv("c7", "c5")},
		{Position: 4, Move: mv("d7", "d6")},
	}
	a, b := NewEngine(), NewEngine()
	if err := a.Rebuild(history); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if err := b.Rebuild(history); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if a.State() != b.State() || a.Hash() != b.Hash() {
		t.Fatalf("rebuilding the same history gave different states")
	}
	if err := a.Rebuild(history); err != nil {
		t.Fatalf("second rebuild: %v", err)
	}
	if a.State() != b.State() {
		t.Fatalf("rebuilding twice on one engine changed the state")
	}
	if a.MoveNumber() != 5 || a.PieceAt("f3") != MakePiece(White, Knight) {
		t.Fatalf("unexpected position after replay:\n%s", a.Board())
	}
}

func TestRebuildRejectsCorruptHistory(t *testing.T) {
	e := NewEngine()
	err := e.Rebuild([]RecordedMove{
		{Position: 1, Move: mv("e2", "e4")},
		{Position: 2, Move: mv("e4", "e5")},
	})
	if !errors.Is(err, ErrCorruptHistory) || !errors.Is(err, ErrNoPieceOrWrongTurn) {
		t.Fatalf("expected corrupt history wrapping the rejection, got %v", err)
	}

	err = e.Rebuild([]RecordedMove{
		{Position: 1, Move: mv("e2", "e4")},
		{Position: 1, Move: mv("e7", "e5")},
	})
	if !errors.Is(err, ErrCorruptHistory) {
		t.Fatalf("duplicate positions: got %v", err)
	}
}

func TestLegalMovesNeverExposeKing(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for game := 0; game < 8; game++ {
		e := NewEngine()
		for ply := 0; ply < 60; ply++ {
			legal, err := e.LegalMoves()
			if err != nil {
				t.Fatalf("game %d ply %d: %v", game, ply, err)
			}
			if len(legal) == 0 {
				break
			}
			side := e.ColorToMove()
			var all []Move
			for start, dests := range legal {
				for _, end := range dests {
					m := mv(start, end)
					scratch := e.State()
					if err := scratch.apply(m); err != nil {
						t.Fatalf("apply %s: %v", m, err)
					}
					if check, _ := scratch.InCheck(side); check {
						t.Fatalf("legal move %s leaves %s in check:\n%s", m, side, scratch.Board)
					}
					if err := e.ValidateMove(m); err != nil {
						t.Fatalf("legal move %s fails validation: %v", m, err)
					}
					all = append(all, m)
				}
			}
			if err := e.Play(all[rng.IntN(len(all))]); err != nil {
				t.Fatalf("play: %v", err)
			}
		}
	}
}

func TestCorruptHistoryIsNotARejection(t *testing.T) {
	e := NewEngine()
	err := e.Rebuild([]RecordedMove{{Position: 1, Move: mv("e2", "e5")}})
	if !errors.Is(err, ErrIllegalShape) {
		t.Fatalf("expected the underlying rejection to be wrapped, got %v", err)
	}
	if IsRejection(err) || RejectionCode(err) != "" {
		t.Fatalf("corrupt history reported as a rejection: %v", err)
	}
}
