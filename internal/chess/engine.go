// Package chess implements the rules of standard chess for the crowd-voting
// game: move validation and application, legal-move enumeration, and
// checkmate, stalemate and draw detection. Engines are deterministic and do
// no I/O beyond optional debug logging.
package chess

import (
	"fmt"
	"log/slog"
	"slices"
)

// Engine owns one game position. It is not safe for concurrent use; callers
// serialise access, typically one engine per request.
type Engine struct {
	state  GameState
	logger *slog.Logger
	quiet  bool
}

type Option func(*Engine)

// WithLogger makes the engine log every applied move, with a board diagram,
// at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	e.Initialize()
	return e
}

// Initialize resets the engine to the standard starting position.
func (e *Engine) Initialize() {
	e.state = NewGameState()
}

// Rebuild replays history from the starting position in ascending Position
// order. A history that does not replay cleanly is corrupt: the returned
// error wraps ErrCorruptHistory and the engine is left at the last good
// position.
func (e *Engine) Rebuild(history []RecordedMove) error {
	e.Initialize()

	ordered := slices.Clone(history)
	slices.SortStableFunc(ordered, func(a, b RecordedMove) int {
		return a.Position - b.Position
	})

	e.quiet = true
	defer func() { e.quiet = false }()

	for i, rec := range ordered {
		if i > 0 && rec.Position == ordered[i-1].Position {
			return fmt.Errorf("%w: duplicate position %d", ErrCorruptHistory, rec.Position)
		}
		if err := e.Play(rec.Move); err != nil {
			return fmt.Errorf("%w: position %d: %w", ErrCorruptHistory, rec.Position, err)
		}
	}
	return nil
}

// ValidateMove reports whether m is legal for the side to move. Rejections
// are *MoveError values wrapping one of the Err* rejection kinds.
func (e *Engine) ValidateMove(m Move) error {
	return e.state.validate(m.Canonical())
}

// ApplyMove plays m without checking legality; use ValidateMove or Play for
// untrusted input. The rook's tagged castling leg is played as the castle.
func (e *Engine) ApplyMove(m Move) error {
	m = m.Canonical()
	if err := e.state.apply(m); err != nil {
		return err
	}
	if !e.quiet {
		e.logger.Debug("chess move applied",
			"event", "chess_move_applied",
			"module", "internal/chess",
			"move", m.String(),
			"move_number", e.state.MoveNumber,
			"board", "\n"+e.state.Board.String(),
		)
	}
	return nil
}

// Play validates m and applies it if legal.
func (e *Engine) Play(m Move) error {
	if err := e.ValidateMove(m); err != nil {
		return err
	}
	return e.ApplyMove(m)
}

// Normalize returns the form of m that is stored and counted: the castle as
// the king's move, the promotion piece resolved for a pawn reaching the last
// row and dropped for every other move. Legality is not checked.
func (e *Engine) Normalize(m Move) Move {
	m = m.Canonical()
	from, ok1 := m.Start.Coord()
	to, ok2 := m.End.Coord()
	if !ok1 || !ok2 {
		return m
	}
	pc := e.state.Board.At(from)
	if pc.Kind() == Pawn && to.Y == lastRow(pc.Color()) {
		m.Promotion = promotionKind(m.Promotion)
	} else {
		m.Promotion = NoKind
	}
	return m
}

func (e *Engine) LegalMoves() (map[Square][]Square, error) {
	return e.state.LegalMoves()
}

func (e *Engine) IsSquareAttacked(c Coord, by Color) bool {
	return e.state.IsSquareAttacked(c, by)
}

func (e *Engine) InCheck() (bool, error) {
	return e.state.InCheck(e.state.ColorToMove())
}

func (e *Engine) Outcome() (Outcome, error) {
	return e.state.Outcome()
}

// State returns a copy of the current position.
func (e *Engine) State() GameState { return e.state }

func (e *Engine) ColorToMove() Color { return e.state.ColorToMove() }

func (e *Engine) MoveNumber() int { return e.state.MoveNumber }

func (e *Engine) Board() Board { return e.state.Board }

func (e *Engine) Hash() uint64 { return e.state.Hash() }

func (e *Engine) PieceAt(sq Square) Piece {
	c, ok := sq.Coord()
	if !ok {
		return Empty
	}
	return e.state.Board.At(c)
}
