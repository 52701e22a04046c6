package chess

import (
	"fmt"
	"slices"
)

// pseudoMoves lists the destinations of the piece on from, ignoring whether
// the move exposes its own king. Castling is included for kings.
func (s *GameState) pseudoMoves(from Coord) []Coord {
	pc := s.Board.At(from)
	if pc == Empty {
		return nil
	}
	var moves []Coord
	switch pc.Kind() {
	case Pawn:
		genPawnMoves(s, from, &moves)
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
		genCastlingMoves(s, from, &moves)
	}
	return moves
}

// exposesKing applies m to a scratch copy and reports whether the mover's
// king is attacked afterwards. The receiver is never modified.
func (s *GameState) exposesKing(m Move) (bool, error) {
	scratch := *s
	side := scratch.ColorToMove()
	if err := scratch.apply(m); err != nil {
		return false, err
	}
	return scratch.InCheck(side)
}

// LegalMoves maps every start square of the side to move to its legal
// destinations, sorted. Squares without a legal destination are omitted.
func (s *GameState) LegalMoves() (map[Square][]Square, error) {
	side := s.ColorToMove()
	if !s.KingExists(side) {
		return nil, fmt.Errorf("%w: %s king missing", ErrInvariantViolation, side)
	}
	legal := make(map[Square][]Square)
	for sq := 0; sq < NumSquares; sq++ {
		pc := s.Board.Squares[sq]
		if pc == Empty || pc.Color() != side {
			continue
		}
		from := coordOf(sq)
		var dests []Square
		for _, to := range s.pseudoMoves(from) {
			exposed, err := s.exposesKing(Move{Start: from.Square(), End: to.Square()})
			if err != nil {
				return nil, err
			}
			if !exposed {
				dests = append(dests, to.Square())
			}
		}
		if len(dests) == 0 {
			continue
		}
		slices.Sort(dests)
		legal[from.Square()] = dests
	}
	return legal, nil
}

func (s *GameState) hasLegalMove() (bool, error) {
	side := s.ColorToMove()
	for sq := 0; sq < NumSquares; sq++ {
		pc := s.Board.Squares[sq]
		if pc == Empty || pc.Color() != side {
			continue
		}
		from := coordOf(sq)
		for _, to := range s.pseudoMoves(from) {
			exposed, err := s.exposesKing(Move{Start: from.Square(), End: to.Square()})
			if err != nil {
				return false, err
			}
			if !exposed {
				return true, nil
			}
		}
	}
	return false, nil
}
