package chess

func genPawnMoves(s *GameState, from Coord, moves *[]Coord) {
	pc := s.Board.At(from)
	if pc == Empty {
		return
	}
	side := pc.Color()
	dir := pawnDir(side)

	one := from.add(0, dir)
	if !one.Valid() {
		return
	}

	// pushes
	if s.Board.At(one) == Empty {
		*moves = append(*moves, one)
		if from.Y == pawnStartRow(side) {
			two := one.add(0, dir)
			if s.Board.At(two) == Empty {
				*moves = append(*moves, two)
			}
		}
	}

	// captures, including en passant onto the square behind a pawn that has
	// just advanced two squares
	epFile := s.EnPassant[side.Opposite()]
	for _, dx := range [2]int{-1, +1} {
		to := from.add(dx, dir)
		if !to.Valid() {
			continue
		}
		dst := s.Board.At(to)
		if dst != Empty && dst.Color() != side {
			*moves = append(*moves, to)
			continue
		}
		if dst == Empty && epFile == to.X && from.Y == enPassantRow(side) {
			*moves = append(*moves, to)
		}
	}
}

// genPawnAttacks lists both forward diagonals whatever stands on them.
func genPawnAttacks(s *GameState, from Coord, moves *[]Coord) {
	dir := pawnDir(s.Board.At(from).Color())
	for _, dx := range [2]int{-1, +1} {
		to := from.add(dx, dir)
		if to.Valid() {
			*moves = append(*moves, to)
		}
	}
}

// enPassantRow is the row a pawn of side must stand on to capture en passant:
// rank 5 for white, rank 4 for black.
func enPassantRow(side Color) int {
	if side == White {
		return 3
	}
	return 4
}
