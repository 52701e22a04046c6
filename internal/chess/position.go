package chess

import "fmt"

// GameState is the full position: board plus the auxiliary state the rules
// need. It is a plain value; copying it yields an independent position.
type GameState struct {
	Board         Board
	MoveNumber    int
	Castling      [2][2]bool // [Color][CastlingSide]
	EnPassant     [2]int     // file of a pawn that just advanced two squares, or NoFile
	HalfMoveClock int
}

func NewGameState() GameState {
	return GameState{
		Board:      initialBoard(),
		MoveNumber: 1,
		Castling:   [2][2]bool{{true, true}, {true, true}},
		EnPassant:  [2]int{NoFile, NoFile},
	}
}

// ColorToMove: odd move numbers are white's, even are black's.
func (s *GameState) ColorToMove() Color {
	if s.MoveNumber%2 == 0 {
		return Black
	}
	return White
}

func (s *GameState) KingSquare(side Color) (Coord, bool) {
	king := MakePiece(side, King)
	for sq, pc := range s.Board.Squares {
		if pc == king {
			return coordOf(sq), true
		}
	}
	return Coord{}, false
}

func (s *GameState) KingExists(side Color) bool {
	_, ok := s.KingSquare(side)
	return ok
}

// checkKings enforces exactly one king per color.
func (s *GameState) checkKings() error {
	var count [2]int
	for _, pc := range s.Board.Squares {
		if pc.Kind() == King {
			count[pc.Color()]++
		}
	}
	for _, side := range [2]Color{White, Black} {
		if count[side] != 1 {
			return fmt.Errorf("%w: %d %s kings on the board", ErrInvariantViolation, count[side], side)
		}
	}
	return nil
}
