package chess

import "sync"

const zobristPieceKinds = 7 // PieceKind 1..6, 0 unused

var (
	zobristOnce sync.Once

	zobristPieces    [2][zobristPieceKinds][NumSquares]uint64
	zobristSide      uint64
	zobristCastling  [2][2]uint64
	zobristEnPassant [2][Cols]uint64
)

func initZobrist() {
	zobristOnce.Do(func() {
		seed := uint64(0x9E3779B97F4A7C15)
		next := func() uint64 {
			seed += 0x9E3779B97F4A7C15
			z := seed
			z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
			z = (z ^ (z >> 27)) * 0x94D049BB133111EB
			return z ^ (z >> 31)
		}

		for side := 0; side < 2; side++ {
			for k := 1; k < zobristPieceKinds; k++ {
				for sq := 0; sq < NumSquares; sq++ {
					zobristPieces[side][k][sq] = next()
				}
			}
		}
		zobristSide = next()
		for side := 0; side < 2; side++ {
			for cs := 0; cs < 2; cs++ {
				zobristCastling[side][cs] = next()
			}
			for f := 0; f < Cols; f++ {
				zobristEnPassant[side][f] = next()
			}
		}
	})
}

func pieceHashKey(pc Piece, sq int) uint64 {
	if pc == Empty || sq < 0 || sq >= NumSquares {
		return 0
	}
	k := int(pc.Kind())
	if k <= 0 || k >= zobristPieceKinds {
		return 0
	}
	return zobristPieces[pc.Color()][k][sq]
}

// Hash is a Zobrist hash of everything that affects future play: pieces, side
// to move, castling rights and en-passant files. The move number and half-move
// clock are left out.
func (s *GameState) Hash() uint64 {
	initZobrist()

	var h uint64
	for sq, pc := range s.Board.Squares {
		h ^= pieceHashKey(pc, sq)
	}
	if s.ColorToMove() == Black {
		h ^= zobristSide
	}
	for side := 0; side < 2; side++ {
		for cs := 0; cs < 2; cs++ {
			if s.Castling[side][cs] {
				h ^= zobristCastling[side][cs]
			}
		}
		if f := s.EnPassant[side]; f >= 0 && f < Cols {
			h ^= zobristEnPassant[side][f]
		}
	}
	return h
}
