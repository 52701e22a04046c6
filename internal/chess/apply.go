package chess

import "fmt"

// apply plays m on the position without checking legality. m must already
// be canonical. Castling moves the rook along with the king, en passant
// removes the passed pawn, and a pawn reaching the last row is replaced by
// its promotion piece.
func (s *GameState) apply(m Move) error {
	from, ok1 := m.Start.Coord()
	to, ok2 := m.End.Coord()
	if !ok1 || !ok2 {
		return fmt.Errorf("%w: malformed move %s", ErrInvariantViolation, m)
	}
	pc := s.Board.At(from)
	if pc == Empty {
		return fmt.Errorf("%w: no piece on %s for move %s", ErrInvariantViolation, m.Start, m)
	}
	side := pc.Color()
	opp := side.Opposite()

	captured := s.Board.At(to)
	capture := captured != Empty

	if pc.Kind() == Pawn && from.X != to.X && captured == Empty {
		victim := Coord{X: to.X, Y: from.Y}
		if s.EnPassant[opp] == to.X && s.Board.At(victim) == MakePiece(opp, Pawn) {
			s.Board.set(victim, Empty)
			capture = true
		}
	}
	if captured.Kind() == Rook {
		s.revokeRookRight(opp, to)
	}

	placed := pc
	if pc.Kind() == Pawn && to.Y == lastRow(side) {
		placed = MakePiece(side, promotionKind(m.Promotion))
	}
	s.Board.set(from, Empty)
	s.Board.set(to, placed)

	switch pc.Kind() {
	case King:
		if rookFrom, rookTo, ok := castlingRookMove(side, from, to); ok {
			s.Board.set(rookTo, s.Board.At(rookFrom))
			s.Board.set(rookFrom, Empty)
		}
		s.Castling[side] = [2]bool{}
	case Rook:
		s.revokeRookRight(side, from)
	}

	if capture || pc.Kind() == Pawn {
		s.HalfMoveClock = 0
	} else {
		s.HalfMoveClock++
	}

	// the opponent's window closes with this move whether or not it was used
	s.EnPassant[opp] = NoFile
	s.EnPassant[side] = NoFile
	if pc.Kind() == Pawn && abs(to.Y-from.Y) == 2 {
		s.EnPassant[side] = from.X
	}

	s.MoveNumber++
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
