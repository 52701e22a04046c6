package game_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdchess/internal/chess"
	"crowdchess/internal/server/game"
	"crowdchess/internal/store/memory"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func mv(start, end chess.Square) chess.Move { return chess.Move{Start: start, End: end} }

func newManager(t *testing.T) (*game.Manager, *memory.Store, *fakeClock) {
	t.Helper()
	store := memory.NewStore()
	clock := newClock()
	m := game.NewManager(store, game.WithClock(clock.Now), game.WithVoteWindow(time.Minute))
	return m, store, clock
}

func TestNewGameSnapshot(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(t)

	g, err := m.NewGame(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, time.Minute, g.VoteWindow)

	snap, err := m.Snapshot(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, chess.White, snap.ToMove())
	assert.Equal(t, chess.Ongoing, snap.Outcome.Status)
	assert.Equal(t, chess.NewEngine().Hash(), snap.Hash)
	assert.Len(t, snap.Legal, 10)
	assert.Empty(t, snap.History)
}

func TestUnknownGame(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(t)
	_, err := m.Snapshot(ctx, "nope")
	require.ErrorIs(t, err, game.ErrGameNotFound)
	_, err = m.SubmitVote(ctx, "nope", mv("e2", "e4"))
	require.ErrorIs(t, err, game.ErrGameNotFound)
	_, err = m.Snapshot(ctx, "  ")
	require.ErrorIs(t, err, game.ErrInvalidInput)
}

func TestSubmitVoteRejectsIllegalMove(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newManager(t)
	g, err := m.NewGame(ctx)
	require.NoError(t, err)

	_, err = m.SubmitVote(ctx, g.ID, mv("e7", "e5"))
	require.ErrorIs(t, err, chess.ErrNoPieceOrWrongTurn)
	assert.True(t, chess.IsRejection(err))

	votes, err := store.ListVotes(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, votes)
}

func TestResolveRoundPlaysMajority(t *testing.T) {
	ctx := context.Background()
	m, store, clock := newManager(t)
	g, err := m.NewGame(ctx)
	require.NoError(t, err)

	for _, v := range []chess.Move{mv("e2", "e4"), mv("d2", "d4"), mv("e2", "e4"), mv("e2", "e4")} {
		_, err := m.SubmitVote(ctx, g.ID, v)
		require.NoError(t, err)
	}
	records, err := m.Votes(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 3, records[0].Count)

	clock.Advance(time.Minute)
	res, err := m.ResolveRound(ctx, g.ID)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, chess.RecordedMove{Position: 1, Move: mv("e2", "e4")}, res.Winner)
	assert.Equal(t, chess.Ongoing, res.Outcome.Status)

	votes, err := store.ListVotes(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, votes, "ballots are cleared after a round")

	snap, err := m.Snapshot(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, chess.Black, snap.ToMove())
	assert.Equal(t, clock.Now(), snap.Game.LastPlayed)
	assert.Equal(t, chess.MakePiece(chess.White, chess.Pawn), snap.State.Board.At(chess.Coord{X: 4, Y: 4}))
}

func TestResolveRoundWithoutVotes(t *testing.T) {
	ctx := context.Background()
	m, _, clock := newManager(t)
	g, err := m.NewGame(ctx)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	res, err := m.ResolveRound(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	snap, err := m.Snapshot(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, clock.Now(), snap.Game.LastPlayed)
	assert.Empty(t, snap.History)
}

func TestCastlingVotesCountTogether(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(t)
	g, err := m.NewGame(ctx)
	require.NoError(t, err)
	for _, step := range []chess.Move{
		mv("e2", "e4"), mv("e7", "e5"),
		mv("g1", "f3"), mv("b8", "c6"),
		mv("f1", "c4"), mv("g8", "f6"),
	} {
		_, err := m.PlayMove(ctx, g.ID, step)
		require.NoError(t, err)
	}

	for _, v := range []chess.Move{
		mv("e1", "g1"),
		{Start: "h1", End: "f1", Tag: chess.TagCastling},
		mv("d2", "d3"),
		mv("d2", "d3"),
		{Start: "h1", End: "f1", Tag: chess.TagCastling},
	} {
		_, err := m.SubmitVote(ctx, g.ID, v)
		require.NoError(t, err)
	}
	res, err := m.ResolveRound(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, mv("e1", "g1"), res.Winner.Move)

	snap, err := m.Snapshot(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, chess.MakePiece(chess.White, chess.Rook), snap.State.Board.At(chess.Coord{X: 5, Y: 7}))
}

func TestFoolsMateEndsGame(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(t)
	g, err := m.NewGame(ctx)
	require.NoError(t, err)

	var res game.RoundResult
	for _, step := range []chess.Move{mv("f2", "f3"), mv("e7", "e5"), mv("g2", "g4"), mv("d8", "h4")} {
		res, err = m.PlayMove(ctx, g.ID, step)
		require.NoError(t, err)
	}
	assert.Equal(t, chess.Checkmate, res.Outcome.Status)
	assert.Equal(t, chess.Black, res.Outcome.Winner)
	assert.Equal(t, chess.White, res.Outcome.Loser())

	snap, err := m.Snapshot(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, snap.Game.Over)
	assert.Equal(t, res.Outcome, snap.Game.Result)

	_, err = m.SubmitVote(ctx, g.ID, mv("a2", "a3"))
	require.ErrorIs(t, err, game.ErrGameOver)
	_, err = m.PlayMove(ctx, g.ID, mv("a2", "a3"))
	require.ErrorIs(t, err, game.ErrGameOver)
}

func TestCorruptHistoryIsReported(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newManager(t)
	g, err := m.NewGame(ctx)
	require.NoError(t, err)
	_, err = store.AppendMove(ctx, g.ID, mv("e2", "e5"))
	require.NoError(t, err)

	_, err = m.Snapshot(ctx, g.ID)
	require.ErrorIs(t, err, chess.ErrCorruptHistory)
}

func TestVotesForTheSameMoveCountTogether(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newManager(t)
	g, err := m.NewGame(ctx)
	require.NoError(t, err)

	for _, v := range []chess.Move{
		{Start: "e2", End: "e4", Promotion: chess.Rook},
		mv("e2", "e4"),
		mv("d2", "d4"),
	} {
		_, err := m.SubmitVote(ctx, g.ID, v)
		require.NoError(t, err)
	}
	votes, err := store.ListVotes(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, mv("e2", "e4"), votes[0].Move, "stored without the stray promotion")

	records, err := m.Votes(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2, records[0].Count)
	assert.Equal(t, mv("e2", "e4"), records[0].Move)
}

func TestPlayMoveDiscardsOpenBallots(t *testing.T) {
	ctx := context.Background()
	m, store, clock := newManager(t)
	g, err := m.NewGame(ctx)
	require.NoError(t, err)

	_, err = m.SubmitVote(ctx, g.ID, mv("e2", "e4"))
	require.NoError(t, err)
	_, err = m.PlayMove(ctx, g.ID, mv("d2", "d4"))
	require.NoError(t, err)

	votes, err := store.ListVotes(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, votes)

	for i := 0; i < 3; i++ {
		clock.Advance(time.Minute)
		res, err := m.ResolveRound(ctx, g.ID)
		require.NoError(t, err)
		assert.True(t, res.Skipped)
	}
	_, err = m.SubmitVote(ctx, g.ID, mv("d7", "d5"))
	require.NoError(t, err)
	res, err := m.ResolveRound(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, chess.RecordedMove{Position: 2, Move: mv("d7", "d5")}, res.Winner)
}

func TestResolveRoundSkipsStaleBallots(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newManager(t)
	g, err := m.NewGame(ctx)
	require.NoError(t, err)

	// ballots from an earlier position, saved behind the manager's back
	for _, v := range []chess.Move{mv("e7", "e5"), mv("e7", "e5"), mv("d2", "d4")} {
		require.NoError(t, store.SaveVote(ctx, game.Vote{ID: string(v.Start) + string(v.End), GameID: g.ID, Move: v}))
	}
	res, err := m.ResolveRound(ctx, g.ID)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, mv("d2", "d4"), res.Winner.Move)

	require.NoError(t, store.SaveVote(ctx, game.Vote{ID: "stale", GameID: g.ID, Move: mv("e2", "e4")}))
	res, err = m.ResolveRound(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	require.Len(t, res.Votes, 1)

	votes, err := store.ListVotes(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, votes, "unplayable ballots are discarded")
}

// flakyStore fails the next UpdateGame call.
type flakyStore struct {
	*memory.Store
	failUpdate bool
}

func (s *flakyStore) UpdateGame(ctx context.Context, g game.Game) error {
	if s.failUpdate {
		s.failUpdate = false
		return errors.New("connection reset")
	}
	return s.Store.UpdateGame(ctx, g)
}

func TestFailedUpdateDoesNotStickTheGame(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{Store: memory.NewStore()}
	clock := newClock()
	m := game.NewManager(store, game.WithClock(clock.Now))
	g, err := m.NewGame(ctx)
	require.NoError(t, err)

	_, err = m.SubmitVote(ctx, g.ID, mv("e2", "e4"))
	require.NoError(t, err)
	store.failUpdate = true
	_, err = m.ResolveRound(ctx, g.ID)
	require.Error(t, err)

	clock.Advance(time.Minute)
	res, err := m.ResolveRound(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	_, err = m.SubmitVote(ctx, g.ID, mv("e7", "e5"))
	require.NoError(t, err)
	res, err = m.ResolveRound(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, chess.RecordedMove{Position: 2, Move: mv("e7", "e5")}, res.Winner)
}
