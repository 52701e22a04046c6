package chess

var knightOffsets = [][2]int{
	{2, 1}, {1, 2}, {-2, 1}, {-1, 2},
	{2, -1}, {1, -2}, {-2, -1}, {-1, -2},
}

func genKnightMoves(s *GameState, from Coord, moves *[]Coord) {
	genStepMoves(s, from, knightOffsets, moves)
}
