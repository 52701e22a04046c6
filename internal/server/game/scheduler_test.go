package game_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdchess/internal/chess"
	"crowdchess/internal/server/game"
)

func TestSchedulerResolvesDueRounds(t *testing.T) {
	ctx := context.Background()
	m, store, clock := newManager(t)
	sched := game.Scheduler{Manager: m}

	g, err := m.NewGame(ctx)
	require.NoError(t, err)
	_, err = m.SubmitVote(ctx, g.ID, mv("e2", "e4"))
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	results, err := sched.RunOnce(ctx, clock.Now())
	require.NoError(t, err)
	assert.Empty(t, results, "window still open")

	clock.Advance(31 * time.Second)
	results, err = sched.RunOnce(ctx, clock.Now())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, g.ID, results[0].GameID)
	assert.Equal(t, mv("e2", "e4"), results[0].Winner.Move)

	history, err := store.ListMoves(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSchedulerReplacesFinishedGame(t *testing.T) {
	ctx := context.Background()
	m, store, clock := newManager(t)
	sched := game.Scheduler{Manager: m}

	g, err := m.NewGame(ctx)
	require.NoError(t, err)
	for _, step := range []chess.Move{mv("f2", "f3"), mv("e7", "e5"), mv("g2", "g4")} {
		_, err := m.PlayMove(ctx, g.ID, step)
		require.NoError(t, err)
	}
	_, err = m.SubmitVote(ctx, g.ID, mv("d8", "h4"))
	require.NoError(t, err)

	clock.Advance(time.Minute)
	results, err := sched.RunOnce(ctx, clock.Now())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, chess.Checkmate, results[0].Outcome.Status)

	active, err := store.ListActiveGames(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.NotEqual(t, g.ID, active[0].ID)

	old, err := store.GetGame(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, old.Over)
}

func TestSchedulerRunStopsWithContext(t *testing.T) {
	m, _, _ := newManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- game.Scheduler{Manager: m, Tick: 5 * time.Millisecond}.Run(ctx)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
