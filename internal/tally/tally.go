// Package tally counts crowd votes for the next move and picks the winner.
package tally

import (
	"cmp"
	"errors"
	"math/rand/v2"
	"slices"

	"crowdchess/internal/chess"
)

var ErrNoVotes = errors.New("no votes to tally")

// Mode selects how ties on count and start square are broken.
type Mode int

const (
	// Random breaks remaining ties uniformly at random.
	Random Mode = iota
	// Deterministic breaks remaining ties by end square, then promotion,
	// both descending, so the order is reproducible.
	Deterministic
)

func (m Mode) String() string {
	if m == Deterministic {
		return "deterministic"
	}
	return "random"
}

type VoteRecord struct {
	Move  chess.Move `json:"move"`
	Count int        `json:"count"`
}

// Tally groups moves by their canonical form, counts them and returns the
// groups ordered best first: count descending, then start square descending,
// then by mode.
func Tally(moves []chess.Move, mode Mode) ([]VoteRecord, error) {
	return tally(moves, mode, rand.Uint64)
}

// Winner returns the move of the first record of Tally.
func Winner(moves []chess.Move, mode Mode) (chess.Move, error) {
	records, err := Tally(moves, mode)
	if err != nil {
		return chess.Move{}, err
	}
	return records[0].Move, nil
}

type group struct {
	VoteRecord
	id       chess.Move
	promoted bool
	key      uint64
}

// ballotKey names the move a ballot stands for. A castle counts as the king's
// move. A promotion piece only matters on a last-rank destination, where an
// omitted or invalid piece means a queen.
func ballotKey(m chess.Move) chess.Move {
	m = m.Canonical()
	if r := m.End; len(r) != 2 || (r[1] != '1' && r[1] != '8') {
		m.Promotion = chess.NoKind
		return m
	}
	switch m.Promotion {
	case chess.Knight, chess.Bishop, chess.Rook, chess.Queen:
	default:
		m.Promotion = chess.Queen
	}
	return m
}

func tally(moves []chess.Move, mode Mode, randKey func() uint64) ([]VoteRecord, error) {
	if len(moves) == 0 {
		return nil, ErrNoVotes
	}

	index := make(map[chess.Move]int, len(moves))
	groups := make([]group, 0, len(moves))
	for _, m := range moves {
		id := ballotKey(m)
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, group{id: id})
		}
		groups[i].Count++
		groups[i].promoted = groups[i].promoted || m.Promotion != chess.NoKind
	}

	// keys are fixed before sorting so the comparator stays consistent
	if mode == Random {
		for i := range groups {
			groups[i].key = randKey()
		}
	}

	slices.SortStableFunc(groups, func(a, b group) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if c := cmp.Compare(b.id.Start, a.id.Start); c != 0 {
			return c
		}
		if mode == Random {
			return cmp.Compare(a.key, b.key)
		}
		if c := cmp.Compare(b.id.End, a.id.End); c != 0 {
			return c
		}
		return cmp.Compare(b.id.Promotion, a.id.Promotion)
	})

	out := make([]VoteRecord, len(groups))
	for i, g := range groups {
		g.Move = g.id
		if !g.promoted {
			// nobody named a piece: report the move as it was cast
			g.Move.Promotion = chess.NoKind
		}
		out[i] = g.VoteRecord
	}
	return out, nil
}
