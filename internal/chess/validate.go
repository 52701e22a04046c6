package chess

import "slices"

// validate runs the six move checks in order and stops at the first failure.
// m must already be canonical.
func (s *GameState) validate(m Move) error {
	from, ok1 := m.Start.Coord()
	to, ok2 := m.End.Coord()
	if !ok1 || !ok2 {
		return reject(m, ErrMalformedMove, "coordinates must be within a1..h8")
	}
	if from == to {
		return reject(m, ErrNullMove, "start and end are both %s", m.Start)
	}

	side := s.ColorToMove()
	pc := s.Board.At(from)
	if pc == Empty {
		return reject(m, ErrNoPieceOrWrongTurn, "no piece on %s", m.Start)
	}
	if pc.Color() != side {
		return reject(m, ErrNoPieceOrWrongTurn, "%s to move", side)
	}

	if target := s.Board.At(to); target != Empty && target.Color() == side {
		return reject(m, ErrSelfCapture, "%s holds a %s %s", m.End, side, target.Kind())
	}

	if !slices.Contains(s.pseudoMoves(from), to) {
		return reject(m, ErrIllegalShape, "%s on %s cannot reach %s", pc.Kind(), m.Start, m.End)
	}

	exposed, err := s.exposesKing(m)
	if err != nil {
		return err
	}
	if exposed {
		return reject(m, ErrExposesKing, "%s king would be attacked", side)
	}
	return nil
}
