package tally

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdchess/internal/chess"
)

func mv(start, end chess.Square) chess.Move { return chess.Move{Start: start, End: end} }

func TestTallyMajorityWins(t *testing.T) {
	votes := []chess.Move{mv("e2", "e4"), mv("d2", "d4"), mv("e2", "e4"), mv("e2", "e4")}
	for _, mode := range []Mode{Random, Deterministic} {
		records, err := Tally(votes, mode)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, VoteRecord{Move: mv("e2", "e4"), Count: 3}, records[0])
		assert.Equal(t, VoteRecord{Move: mv("d2", "d4"), Count: 1}, records[1])

		winner, err := Winner(votes, mode)
		require.NoError(t, err)
		assert.Equal(t, mv("e2", "e4"), winner, mode.String())
	}
}

func TestTallyDeterministicTieIsStable(t *testing.T) {
	votes := []chess.Move{mv("g1", "f3"), mv("g1", "h3"), mv("g1", "h3"), mv("g1", "f3")}
	first, err := Tally(votes, Deterministic)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, mv("g1", "h3"), first[0].Move)

	reversed := []chess.Move{votes[3], votes[2], votes[1], votes[0]}
	for i := 0; i < 20; i++ {
		again, err := Tally(reversed, Deterministic)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTallyStartSquareBreaksTies(t *testing.T) {
	votes := []chess.Move{mv("a2", "a3"), mv("h2", "h3")}
	for _, mode := range []Mode{Random, Deterministic} {
		records, err := Tally(votes, mode)
		require.NoError(t, err)
		assert.Equal(t, chess.Square("h2"), records[0].Move.Start)
	}
}

func TestTallyRandomTieUsesKeys(t *testing.T) {
	votes := []chess.Move{mv("g1", "f3"), mv("g1", "h3")}

	keys := []uint64{9, 1}
	records, err := tally(votes, Random, func() uint64 {
		k := keys[0]
		keys = keys[1:]
		return k
	})
	require.NoError(t, err)
	assert.Equal(t, mv("g1", "h3"), records[0].Move)

	seen := map[chess.Square]bool{}
	for i := 0; i < 200 && len(seen) < 2; i++ {
		w, err := Winner(votes, Random)
		require.NoError(t, err)
		seen[w.End] = true
	}
	assert.Len(t, seen, 2, "random tie-break never picked both moves")
}

func TestTallyCastlingFormsCountTogether(t *testing.T) {
	votes := []chess.Move{
		mv("e1", "g1"),
		{Start: "h1", End: "f1", Tag: chess.TagCastling},
		mv("d2", "d4"),
		mv("d2", "d4"),
		{Start: "h1", End: "f1", Tag: chess.TagCastling},
	}
	records, err := Tally(votes, Deterministic)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, VoteRecord{Move: mv("e1", "g1"), Count: 3}, records[0])
}

func TestTallyPromotionSeparatesGroups(t *testing.T) {
	votes := []chess.Move{
		{Start: "a7", End: "a8", Promotion: chess.Knight},
		{Start: "a7", End: "a8", Promotion: chess.Queen},
		{Start: "a7", End: "a8", Promotion: chess.Queen},
	}
	records, err := Tally(votes, Deterministic)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, chess.Queen, records[0].Move.Promotion)
	assert.Equal(t, 2, records[0].Count)
}

func TestTallyPromotionFormsCountTogether(t *testing.T) {
	promote := chess.Move{Start: "a7", End: "a8"}
	queen := chess.Move{Start: "a7", End: "a8", Promotion: chess.Queen}
	votes := []chess.Move{
		promote, promote, queen, queen,
		mv("h2", "h3"), mv("h2", "h3"), mv("h2", "h3"),
	}
	records, err := Tally(votes, Deterministic)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, VoteRecord{Move: queen, Count: 4}, records[0])

	records, err = Tally([]chess.Move{promote, promote}, Deterministic)
	require.NoError(t, err)
	assert.Equal(t, []VoteRecord{{Move: promote, Count: 2}}, records)
}

func TestTallyIgnoresPromotionOffTheLastRank(t *testing.T) {
	votes := []chess.Move{
		{Start: "e2", End: "e4", Promotion: chess.Rook},
		mv("e2", "e4"),
		mv("d2", "d4"),
	}
	records, err := Tally(votes, Deterministic)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, VoteRecord{Move: mv("e2", "e4"), Count: 2}, records[0])
}

func TestTallyEmpty(t *testing.T) {
	_, err := Tally(nil, Random)
	require.ErrorIs(t, err, ErrNoVotes)
	_, err = Winner([]chess.Move{}, Deterministic)
	require.ErrorIs(t, err, ErrNoVotes)
}
