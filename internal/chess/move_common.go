package chess

var (
	rookDirs   = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = [][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	queenDirs  = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {-1, 1}, {1, -1}, {-1, -1}}

	kingOffsets = [][2]int{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}
)

// genRayMoves extends each direction until the edge, an own piece, or the
// first opponent piece (which is included).
func genRayMoves(s *GameState, from Coord, dirs [][2]int, moves *[]Coord) {
	side := s.Board.At(from).Color()
	for _, d := range dirs {
		to := from.add(d[0], d[1])
		for to.Valid() {
			pc := s.Board.At(to)
			if pc == Empty {
				*moves = append(*moves, to)
			} else {
				if pc.Color() != side {
					*moves = append(*moves, to)
				}
				break
			}
			to = to.add(d[0], d[1])
		}
	}
}

// genStepMoves keeps each fixed offset that lands on the board and not on an
// own piece.
func genStepMoves(s *GameState, from Coord, offsets [][2]int, moves *[]Coord) {
	side := s.Board.At(from).Color()
	for _, d := range offsets {
		to := from.add(d[0], d[1])
		if !to.Valid() {
			continue
		}
		dst := s.Board.At(to)
		if dst == Empty || dst.Color() != side {
			*moves = append(*moves, to)
		}
	}
}

func genRookMoves(s *GameState, from Coord, moves *[]Coord) {
	genRayMoves(s, from, rookDirs, moves)
}

func genBishopMoves(s *GameState, from Coord, moves *[]Coord) {
	genRayMoves(s, from, bishopDirs, moves)
}

func genQueenMoves(s *GameState, from Coord, moves *[]Coord) {
	genRayMoves(s, from, queenDirs, moves)
}

func genKingMoves(s *GameState, from Coord, moves *[]Coord) {
	genStepMoves(s, from, kingOffsets, moves)
}
