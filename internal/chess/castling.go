package chess

type CastlingSide int8

const (
	KingSide CastlingSide = iota
	QueenSide
)

func (cs CastlingSide) String() string {
	if cs == QueenSide {
		return "queenside"
	}
	return "kingside"
}

const kingHomeFile = 4

// castling geometry per side: direction the king travels and the rook's file.
func castlingGeometry(side CastlingSide) (dir, rookFile int) {
	if side == KingSide {
		return +1, Cols - 1
	}
	return -1, 0
}

// genCastlingMoves appends the king's two-square destinations for every side
// whose right is still held and whose path is clear and unattacked.
func genCastlingMoves(s *GameState, from Coord, moves *[]Coord) {
	pc := s.Board.At(from)
	side := pc.Color()
	if pc.Kind() != King || from != (Coord{X: kingHomeFile, Y: homeRow(side)}) {
		return
	}
	opp := side.Opposite()
	for _, cs := range [2]CastlingSide{KingSide, QueenSide} {
		if !s.Castling[side][cs] {
			continue
		}
		dir, rookFile := castlingGeometry(cs)
		if !s.rookReachable(from, dir, rookFile) {
			continue
		}
		transit := from.add(dir, 0)
		dest := from.add(2*dir, 0)
		if s.IsSquareAttacked(from, opp) || s.IsSquareAttacked(transit, opp) || s.IsSquareAttacked(dest, opp) {
			continue
		}
		*moves = append(*moves, dest)
	}
}

// rookReachable walks from the king toward the corner; every square on the way
// must be vacant and the corner must hold the king's own rook.
func (s *GameState) rookReachable(king Coord, dir, rookFile int) bool {
	side := s.Board.At(king).Color()
	sq := king.add(dir, 0)
	for sq.X != rookFile {
		if s.Board.At(sq) != Empty {
			return false
		}
		sq = sq.add(dir, 0)
	}
	return s.Board.At(sq) == MakePiece(side, Rook)
}

// revokeRookRight clears the castling right tied to a rook corner.
func (s *GameState) revokeRookRight(side Color, c Coord) {
	if side == NoColor || c.Y != homeRow(side) {
		return
	}
	switch c.X {
	case 0:
		s.Castling[side][QueenSide] = false
	case Cols - 1:
		s.Castling[side][KingSide] = false
	}
}

// castlingRookMove returns the rook's companion leg for a king moving two
// files from its home square.
func castlingRookMove(side Color, from, to Coord) (rookFrom, rookTo Coord, ok bool) {
	if from != (Coord{X: kingHomeFile, Y: homeRow(side)}) || to.Y != from.Y {
		return Coord{}, Coord{}, false
	}
	switch to.X - from.X {
	case 2:
		return Coord{X: Cols - 1, Y: from.Y}, Coord{X: from.X + 1, Y: from.Y}, true
	case -2:
		return Coord{X: 0, Y: from.Y}, Coord{X: from.X - 1, Y: from.Y}, true
	}
	return Coord{}, Coord{}, false
}
