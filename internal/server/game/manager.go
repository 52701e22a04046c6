package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"crowdchess/internal/chess"
	"crowdchess/internal/tally"
)

const logModule = "internal/server/game"

// Manager runs games on top of a Store. Every operation rebuilds the position
// from the stored history; mutations of one game are serialised.
type Manager struct {
	store      Store
	logger     *slog.Logger
	now        func() time.Time
	voteWindow time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type ManagerOption func(*Manager)

func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// WithVoteWindow sets the window given to new games; non-positive keeps the
// default.
func WithVoteWindow(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.voteWindow = d
		}
	}
}

func NewManager(store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:      store,
		now:        time.Now,
		voteWindow: DefaultVoteWindow,
		locks:      make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = ResolveLogger(m.logger)
	return m
}

// lock serialises mutations of one game. Locks exist only for stored games
// and are dropped once the game is over.
func (m *Manager) lock(ctx context.Context, id string) (func(), error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty game id", ErrInvalidInput)
	}
	if _, err := m.store.GetGame(ctx, id); err != nil {
		return nil, err
	}
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	m.mu.Unlock()
	l.Lock()
	return l.Unlock, nil
}

// forget drops the lock of a finished game. A caller still waiting on the old
// lock sees the game over after loading it.
func (m *Manager) forget(id string) {
	m.mu.Lock()
	delete(m.locks, id)
	m.mu.Unlock()
}

func (m *Manager) NewGame(ctx context.Context) (Game, error) {
	now := m.now().UTC()
	g := Game{
		ID:         uuid.NewString(),
		CreatedAt:  now,
		LastPlayed: now,
		VoteWindow: m.voteWindow,
		Result:     chess.Outcome{Status: chess.Ongoing, Winner: chess.NoColor},
	}
	if err := m.store.CreateGame(ctx, g); err != nil {
		m.logError("game_create_failed", err, "game_id", g.ID)
		return Game{}, err
	}
	m.logger.Info("game created",
		"event", "game_created",
		"module", logModule,
		"layer", "application",
		"game_id", g.ID,
		"vote_window", g.VoteWindow.String(),
	)
	return g, nil
}

// load fetches the game and replays its history into a fresh engine.
func (m *Manager) load(ctx context.Context, id string) (Game, *chess.Engine, []chess.RecordedMove, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Game{}, nil, nil, fmt.Errorf("%w: empty game id", ErrInvalidInput)
	}
	g, err := m.store.GetGame(ctx, id)
	if err != nil {
		return Game{}, nil, nil, err
	}
	history, err := m.store.ListMoves(ctx, id)
	if err != nil {
		return Game{}, nil, nil, err
	}
	eng := chess.NewEngine(chess.WithLogger(m.logger))
	if err := eng.Rebuild(history); err != nil {
		m.logError("game_rebuild_failed", err, "game_id", id, "moves", len(history))
		return Game{}, nil, nil, err
	}
	return g, eng, history, nil
}

func (m *Manager) Snapshot(ctx context.Context, id string) (Snapshot, error) {
	g, eng, history, err := m.load(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	legal, err := eng.LegalMoves()
	if err != nil {
		return Snapshot{}, err
	}
	outcome, err := eng.Outcome()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Game:    g,
		State:   eng.State(),
		Legal:   legal,
		Outcome: outcome,
		Hash:    eng.Hash(),
		History: history,
	}, nil
}

func (m *Manager) History(ctx context.Context, id string) ([]chess.RecordedMove, error) {
	if _, err := m.store.GetGame(ctx, id); err != nil {
		return nil, err
	}
	return m.store.ListMoves(ctx, id)
}

// SubmitVote records a ballot after checking the move is legal in the current
// position. The ballot is stored in normalized form so equal moves count
// together.
func (m *Manager) SubmitVote(ctx context.Context, id string, move chess.Move) (Vote, error) {
	unlock, err := m.lock(ctx, id)
	if err != nil {
		return Vote{}, err
	}
	defer unlock()

	g, eng, _, err := m.load(ctx, id)
	if err != nil {
		return Vote{}, err
	}
	if g.Over {
		return Vote{}, ErrGameOver
	}
	if err := eng.ValidateMove(move); err != nil {
		m.logger.Info("vote rejected",
			"event", "game_vote_rejected",
			"module", logModule,
			"layer", "application",
			"game_id", id,
			"move", move.String(),
			"reason", chess.RejectionCode(err),
		)
		return Vote{}, err
	}

	move = eng.Normalize(move)
	v := Vote{
		ID:        uuid.NewString(),
		GameID:    g.ID,
		Move:      move,
		CreatedAt: m.now().UTC(),
	}
	if err := m.store.SaveVote(ctx, v); err != nil {
		m.logError("game_vote_save_failed", err, "game_id", id)
		return Vote{}, err
	}
	m.logger.Debug("vote accepted",
		"event", "game_vote_accepted",
		"module", logModule,
		"layer", "application",
		"game_id", id,
		"vote_id", v.ID,
		"move", move.String(),
	)
	return v, nil
}

// Votes returns the current ballots counted in deterministic order.
func (m *Manager) Votes(ctx context.Context, id string) ([]tally.VoteRecord, error) {
	if _, err := m.store.GetGame(ctx, id); err != nil {
		return nil, err
	}
	votes, err := m.store.ListVotes(ctx, id)
	if err != nil {
		return nil, err
	}
	records, err := tally.Tally(voteMoves(votes), tally.Deterministic)
	if errors.Is(err, tally.ErrNoVotes) {
		return []tally.VoteRecord{}, nil
	}
	return records, err
}

// PlayMove plays a single move directly, without a vote.
func (m *Manager) PlayMove(ctx context.Context, id string, move chess.Move) (RoundResult, error) {
	unlock, err := m.lock(ctx, id)
	if err != nil {
		return RoundResult{}, err
	}
	defer unlock()

	g, eng, _, err := m.load(ctx, id)
	if err != nil {
		return RoundResult{}, err
	}
	if g.Over {
		return RoundResult{}, ErrGameOver
	}
	res, err := m.commit(ctx, g, eng, move)
	if err != nil {
		return RoundResult{}, err
	}
	res.Votes = []tally.VoteRecord{{Move: res.Winner.Move, Count: 1}}
	return res, nil
}

// ResolveRound closes the open round: the best ballot that is still legal is
// played, the ballots are cleared and the game is marked over when the move
// ends it. A round without a playable ballot is skipped and restarts the
// window.
func (m *Manager) ResolveRound(ctx context.Context, id string) (RoundResult, error) {
	unlock, err := m.lock(ctx, id)
	if err != nil {
		return RoundResult{}, err
	}
	defer unlock()

	g, eng, _, err := m.load(ctx, id)
	if err != nil {
		return RoundResult{}, err
	}
	if g.Over {
		return RoundResult{}, ErrGameOver
	}
	votes, err := m.store.ListVotes(ctx, id)
	if err != nil {
		return RoundResult{}, err
	}

	records, err := tally.Tally(voteMoves(votes), tally.Random)
	if errors.Is(err, tally.ErrNoVotes) {
		return m.skipRound(ctx, g, eng, nil)
	}
	if err != nil {
		return RoundResult{}, err
	}

	winner := -1
	for i, rec := range records {
		err := eng.ValidateMove(rec.Move)
		if err == nil {
			winner = i
			break
		}
		m.logger.Warn("stale ballot skipped",
			"event", "game_ballot_stale",
			"module", logModule,
			"layer", "application",
			"game_id", id,
			"move", rec.Move.String(),
			"votes", rec.Count,
			"reason", chess.RejectionCode(err),
		)
	}
	if winner < 0 {
		return m.skipRound(ctx, g, eng, records)
	}

	res, err := m.commit(ctx, g, eng, records[winner].Move)
	if err != nil {
		return RoundResult{}, err
	}
	res.Votes = records
	m.logger.Info("round resolved",
		"event", "game_round_resolved",
		"module", logModule,
		"layer", "application",
		"game_id", id,
		"winner", res.Winner.Move.String(),
		"position", res.Winner.Position,
		"ballots", len(votes),
		"outcome", res.Outcome.String(),
	)
	return res, nil
}

// skipRound restarts the vote window without playing. Ballots that could not
// be played are discarded.
func (m *Manager) skipRound(ctx context.Context, g Game, eng *chess.Engine, records []tally.VoteRecord) (RoundResult, error) {
	if len(records) > 0 {
		if err := m.store.ClearVotes(ctx, g.ID); err != nil {
			m.logError("game_votes_clear_failed", err, "game_id", g.ID)
			return RoundResult{}, err
		}
	}
	g.LastPlayed = m.now().UTC()
	if err := m.store.UpdateGame(ctx, g); err != nil {
		m.logError("game_update_failed", err, "game_id", g.ID)
		return RoundResult{}, err
	}
	outcome, err := eng.Outcome()
	if err != nil {
		return RoundResult{}, err
	}
	m.logger.Debug("round skipped",
		"event", "game_round_skipped",
		"module", logModule,
		"layer", "application",
		"game_id", g.ID,
		"discarded", len(records),
	)
	return RoundResult{GameID: g.ID, Votes: records, Outcome: outcome, Skipped: true}, nil
}

// commit validates and plays move, appends it to the history, discards the
// ballots cast for the old position and updates the game record.
func (m *Manager) commit(ctx context.Context, g Game, eng *chess.Engine, move chess.Move) (RoundResult, error) {
	move = eng.Normalize(move)
	if err := eng.Play(move); err != nil {
		return RoundResult{}, err
	}
	rec, err := m.store.AppendMove(ctx, g.ID, move)
	if err != nil {
		m.logError("game_move_append_failed", err, "game_id", g.ID, "move", move.String())
		return RoundResult{}, err
	}
	if err := m.store.ClearVotes(ctx, g.ID); err != nil {
		m.logError("game_votes_clear_failed", err, "game_id", g.ID)
		return RoundResult{}, err
	}
	outcome, err := eng.Outcome()
	if err != nil {
		return RoundResult{}, err
	}

	g.LastPlayed = m.now().UTC()
	g.Result = outcome
	g.Over = outcome.Status.Terminal()
	if err := m.store.UpdateGame(ctx, g); err != nil {
		m.logError("game_update_failed", err, "game_id", g.ID)
		return RoundResult{}, err
	}
	if g.Over {
		m.forget(g.ID)
		m.logger.Info("game finished",
			"event", "game_finished",
			"module", logModule,
			"layer", "application",
			"game_id", g.ID,
			"outcome", outcome.String(),
			"moves", rec.Position,
		)
	}
	return RoundResult{GameID: g.ID, Winner: rec, Outcome: outcome}, nil
}

func (m *Manager) logError(event string, err error, attrs ...any) {
	fields := []any{
		"event", event,
		"module", logModule,
		"layer", "application",
		"error", err.Error(),
	}
	fields = append(fields, attrs...)
	m.logger.Error("game operation failed", fields...)
}

func voteMoves(votes []Vote) []chess.Move {
	moves := make([]chess.Move, len(votes))
	for i, v := range votes {
		moves[i] = v.Move
	}
	return moves
}
