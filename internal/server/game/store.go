package game

import (
	"context"
	"log/slog"

	"crowdchess/internal/chess"
)

// Store persists games, their move history and the ballots of the open round.
// Lookups of unknown games return ErrGameNotFound.
type Store interface {
	CreateGame(ctx context.Context, g Game) error
	GetGame(ctx context.Context, id string) (Game, error)
	UpdateGame(ctx context.Context, g Game) error
	ListActiveGames(ctx context.Context) ([]Game, error)

	// AppendMove records m under the next position of the game.
	AppendMove(ctx context.Context, gameID string, m chess.Move) (chess.RecordedMove, error)
	// ListMoves returns the history in ascending position order.
	ListMoves(ctx context.Context, gameID string) ([]chess.RecordedMove, error)

	SaveVote(ctx context.Context, v Vote) error
	ListVotes(ctx context.Context, gameID string) ([]Vote, error)
	ClearVotes(ctx context.Context, gameID string) error
}

// ResolveLogger guarantees a non-nil logger.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
