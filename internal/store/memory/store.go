// Package memory is an in-process game.Store used by tests and by the server
// when no database is configured.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"crowdchess/internal/chess"
	"crowdchess/internal/server/game"
)

type Store struct {
	mu sync.RWMutex

	games map[string]game.Game
	moves map[string][]chess.RecordedMove
	votes map[string][]game.Vote
}

func NewStore() *Store {
	return &Store{
		games: make(map[string]game.Game),
		moves: make(map[string][]chess.RecordedMove),
		votes: make(map[string][]game.Vote),
	}
}

func (s *Store) CreateGame(_ context.Context, g game.Game) error {
	id := strings.TrimSpace(g.ID)
	if id == "" {
		return game.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; ok {
		return game.ErrConflict
	}
	s.games[id] = g
	return nil
}

func (s *Store) GetGame(_ context.Context, id string) (game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[strings.TrimSpace(id)]
	if !ok {
		return game.Game{}, game.ErrGameNotFound
	}
	return g, nil
}

func (s *Store) UpdateGame(_ context.Context, g game.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[g.ID]; !ok {
		return game.ErrGameNotFound
	}
	s.games[g.ID] = g
	return nil
}

// ListActiveGames returns games not yet over, oldest first.
func (s *Store) ListActiveGames(_ context.Context) ([]game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]game.Game, 0, len(s.games))
	for _, g := range s.games {
		if !g.Over {
			out = append(out, g)
		}
	}
	slices.SortFunc(out, func(a, b game.Game) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *Store) AppendMove(_ context.Context, gameID string, m chess.Move) (chess.RecordedMove, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[gameID]; !ok {
		return chess.RecordedMove{}, game.ErrGameNotFound
	}
	history := s.moves[gameID]
	next := 1
	if n := len(history); n > 0 {
		next = history[n-1].Position + 1
	}
	rec := chess.RecordedMove{Position: next, Move: m}
	s.moves[gameID] = append(history, rec)
	return rec, nil
}

func (s *Store) ListMoves(_ context.Context, gameID string) ([]chess.RecordedMove, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.games[gameID]; !ok {
		return nil, game.ErrGameNotFound
	}
	return slices.Clone(s.moves[gameID]), nil
}

func (s *Store) SaveVote(_ context.Context, v game.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[v.GameID]; !ok {
		return game.ErrGameNotFound
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	s.votes[v.GameID] = append(s.votes[v.GameID], v)
	return nil
}

func (s *Store) ListVotes(_ context.Context, gameID string) ([]game.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.games[gameID]; !ok {
		return nil, game.ErrGameNotFound
	}
	return slices.Clone(s.votes[gameID]), nil
}

func (s *Store) ClearVotes(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.votes, gameID)
	return nil
}

var _ game.Store = (*Store)(nil)
