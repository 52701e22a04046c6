package game

import (
	"time"

	"crowdchess/internal/chess"
	"crowdchess/internal/tally"
)

// DefaultVoteWindow is how long ballots are collected before a round closes.
const DefaultVoteWindow = 60 * time.Second

type Game struct {
	ID         string
	CreatedAt  time.Time
	LastPlayed time.Time
	Over       bool
	VoteWindow time.Duration
	Result     chess.Outcome
}

// RoundDue reports whether the voting window has elapsed at now.
func (g Game) RoundDue(now time.Time) bool {
	return !g.Over && !now.Before(g.LastPlayed.Add(g.VoteWindow))
}

// Vote is one ballot for the next move of a game.
type Vote struct {
	ID        string
	GameID    string
	Move      chess.Move
	CreatedAt time.Time
}

type RoundResult struct {
	GameID  string
	Winner  chess.RecordedMove
	Votes   []tally.VoteRecord
	Outcome chess.Outcome
	// Skipped is set when nobody voted; the window restarts.
	Skipped bool
}

// Snapshot is a game rebuilt from its history.
type Snapshot struct {
	Game    Game
	State   chess.GameState
	Legal   map[chess.Square][]chess.Square
	Outcome chess.Outcome
	Hash    uint64
	History []chess.RecordedMove
}

func (s Snapshot) ToMove() chess.Color { return s.State.ColorToMove() }
