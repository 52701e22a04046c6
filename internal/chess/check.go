package chess

import "fmt"

// IsSquareAttacked reports whether any piece of bySide could land on target.
// It uses raw attack generation: pawn diagonals count whatever stands on them,
// kings never castle, and nothing is filtered for check, so castling
// validation can call it without recursing.
func (s *GameState) IsSquareAttacked(target Coord, bySide Color) bool {
	if !target.Valid() {
		return false
	}
	var moves []Coord
	for sq := 0; sq < NumSquares; sq++ {
		pc := s.Board.Squares[sq]
		if pc == Empty || pc.Color() != bySide {
			continue
		}
		from := coordOf(sq)
		moves = moves[:0]
		switch pc.Kind() {
		case Pawn:
			genPawnAttacks(s, from, &moves)
		case Knight:
			genKnightMoves(s, from, &moves)
		case Bishop:
			genBishopMoves(s, from, &moves)
		case Rook:
			genRookMoves(s, from, &moves)
		case Queen:
			genQueenMoves(s, from, &moves)
		case King:
			genKingMoves(s, from, &moves)
		}
		for _, to := range moves {
			if to == target {
				return true
			}
		}
	}
	return false
}

// InCheck reports whether side's king is attacked.
func (s *GameState) InCheck(side Color) (bool, error) {
	king, ok := s.KingSquare(side)
	if !ok {
		return false, fmt.Errorf("%w: %s king missing", ErrInvariantViolation, side)
	}
	return s.IsSquareAttacked(king, side.Opposite()), nil
}
