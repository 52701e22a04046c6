package chess

import "fmt"

type Status int8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	Draw
)

func (s Status) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Draw:
		return "draw"
	}
	return "ongoing"
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Terminal reports whether the game is over.
func (s Status) Terminal() bool { return s != Ongoing }

type DrawReason string

const (
	NoDrawReason             DrawReason = ""
	DrawFiftyMove            DrawReason = "fifty-move"
	DrawInsufficientMaterial DrawReason = "insufficient-material"
)

// fiftyMoveHalfMoves is fifty full moves without a capture or pawn move.
const fiftyMoveHalfMoves = 100

type Outcome struct {
	Status Status     `json:"status"`
	Winner Color      `json:"winner"`
	Reason DrawReason `json:"reason,omitempty"`
}

// Loser is the mated side, NoColor unless the game ended in checkmate.
func (o Outcome) Loser() Color {
	if o.Status != Checkmate {
		return NoColor
	}
	return o.Winner.Opposite()
}

func (o Outcome) String() string {
	switch o.Status {
	case Checkmate:
		return fmt.Sprintf("checkmate, %s wins", o.Winner)
	case Draw:
		return fmt.Sprintf("draw (%s)", o.Reason)
	}
	return o.Status.String()
}

// Outcome classifies the position. A missing king is an invariant violation,
// never a result.
func (s *GameState) Outcome() (Outcome, error) {
	none := Outcome{Status: Ongoing, Winner: NoColor}
	if err := s.checkKings(); err != nil {
		return none, err
	}

	if s.HalfMoveClock >= fiftyMoveHalfMoves {
		return Outcome{Status: Draw, Winner: NoColor, Reason: DrawFiftyMove}, nil
	}

	side := s.ColorToMove()
	hasMove, err := s.hasLegalMove()
	if err != nil {
		return none, err
	}
	if !hasMove {
		inCheck, err := s.InCheck(side)
		if err != nil {
			return none, err
		}
		if inCheck {
			return Outcome{Status: Checkmate, Winner: side.Opposite()}, nil
		}
		return Outcome{Status: Stalemate, Winner: NoColor}, nil
	}

	if s.insufficientMaterial() {
		return Outcome{Status: Draw, Winner: NoColor, Reason: DrawInsufficientMaterial}, nil
	}
	return none, nil
}

// insufficientMaterial: no pawn, rook or queen anywhere and at most one minor
// piece per side. Bishop colors are not considered.
func (s *GameState) insufficientMaterial() bool {
	var minors [2]int
	for _, pc := range s.Board.Squares {
		switch pc.Kind() {
		case Pawn, Rook, Queen:
			return false
		case Knight, Bishop:
			minors[pc.Color()]++
		}
	}
	return minors[White] <= 1 && minors[Black] <= 1
}
