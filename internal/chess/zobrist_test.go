package chess

import "testing"

func TestHashStableAcrossEngines(t *testing.T) {
	a, b := NewEngine(), NewEngine()
	if a.Hash() != b.Hash() {
		t.Fatalf("initial hash mismatch: %d vs %d", a.Hash(), b.Hash())
	}
	if a.Hash() == 0 {
		t.Fatalf("initial hash is zero")
	}
}

func TestHashTransposition(t *testing.T) {
	a, b := NewEngine(), NewEngine()
	playAll(t, a, mv("g1", "f3"), mv("g8", "f6"), mv("b1", "c3"))
	playAll(t, b, mv("b1", "c3"), mv("g8", "f6"), mv("g1", "f3"))
	if a.Hash() != b.Hash() {
		t.Fatalf("transposed positions hash differently: %d vs %d", a.Hash(), b.Hash())
	}
	if a.Hash() == NewEngine().Hash() {
		t.Fatalf("hash did not change after three moves")
	}
}

func TestHashTracksSideRightsAndEnPassant(t *testing.T) {
	base := NewGameState()

	flipped := base
	flipped.MoveNumber++
	if flipped.Hash() == base.Hash() {
		t.Fatalf("side to move not hashed")
	}

	noRights := base
	noRights.Castling[White][QueenSide] = false
	if noRights.Hash() == base.Hash() {
		t.Fatalf("castling rights not hashed")
	}

	ep := base
	ep.EnPassant[White] = 4
	if ep.Hash() == base.Hash() {
		t.Fatalf("en-passant file not hashed")
	}

	clock := base
	clock.HalfMoveClock = 30
	clock.MoveNumber += 2
	if clock.Hash() != base.Hash() {
		t.Fatalf("half-move clock or move count leaked into the hash")
	}
}

func TestHashAlongRandomGame(t *testing.T) {
	e := NewEngine()
	seen := map[uint64]int{e.Hash(): 0}
	for ply := 1; ply <= 24; ply++ {
		legal, err := e.LegalMoves()
		if err != nil {
			t.Fatalf("legal moves: %v", err)
		}
		var m Move
		for start, dests := range legal {
			if m.Start == "" || start < m.Start {
				m = mv(start, dests[len(dests)/2])
			}
		}
		if m.Start == "" {
			return
		}
		playAll(t, e, m)
		st := e.State()
		if st.Hash() != e.Hash() {
			t.Fatalf("engine hash differs from state hash at ply %d", ply)
		}
		seen[e.Hash()] = ply
	}
	if len(seen) < 2 {
		t.Fatalf("hash never changed over the game")
	}
}
