package chess

import "strings"

type Color int8

const (
	NoColor Color = -1
	White   Color = 0
	Black   Color = 1
)

func (c Color) Opposite() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

type PieceKind int8

const (
	NoKind PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceKindNames = [...]string{"", "pawn", "knight", "bishop", "rook", "queen", "king"}

func (k PieceKind) String() string {
	if k < NoKind || int(k) >= len(pieceKindNames) {
		return ""
	}
	return pieceKindNames[k]
}

func (k PieceKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText never fails: unknown names decode to NoKind, which promotes
// to a queen.
func (k *PieceKind) UnmarshalText(text []byte) error {
	*k = ParsePieceKind(string(text))
	return nil
}

func ParsePieceKind(s string) PieceKind {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "n":
		return Knight
	case "b":
		return Bishop
	case "r":
		return Rook
	case "q":
		return Queen
	}
	for i, name := range pieceKindNames {
		if name != "" && name == s {
			return PieceKind(i)
		}
	}
	return NoKind
}

// promotionKind returns the piece a pawn turns into; anything but a minor or
// major piece falls back to a queen.
func promotionKind(k PieceKind) PieceKind {
	switch k {
	case Knight, Bishop, Rook, Queen:
		return k
	}
	return Queen
}

// Piece: 0 = empty, >0 white, <0 black, abs = PieceKind.
type Piece int8

const Empty Piece = 0

func MakePiece(c Color, k PieceKind) Piece {
	if k == NoKind || c == NoColor {
		return Empty
	}
	if c == White {
		return Piece(k)
	}
	return -Piece(k)
}

func (p Piece) Kind() PieceKind {
	if p < 0 {
		return PieceKind(-p)
	}
	return PieceKind(p)
}

func (p Piece) Color() Color {
	if p == Empty {
		return NoColor
	}
	if p > 0 {
		return White
	}
	return Black
}

type MoveTag string

const TagCastling MoveTag = "castling"

// Move is a candidate or recorded move in algebraic coordinates.
type Move struct {
	Start     Square    `json:"start"`
	End       Square    `json:"end"`
	Promotion PieceKind `json:"promotion,omitempty"`
	Tag       MoveTag   `json:"tag,omitempty"`
}

func (m Move) String() string {
	s := string(m.Start) + "-" + string(m.End)
	if m.Promotion != NoKind {
		s += "=" + m.Promotion.String()
	}
	if m.Tag != "" {
		s += " (" + string(m.Tag) + ")"
	}
	return s
}

// castlingLeg pairs the king's two-square move with the rook's companion move.
type castlingLeg struct {
	kingFrom, kingTo Square
	rookFrom, rookTo Square
}

var castlingLegs = [4]castlingLeg{
	{"e1", "g1", "h1", "f1"},
	{"e1", "c1", "a1", "d1"},
	{"e8", "g8", "h8", "f8"},
	{"e8", "c8", "a8", "d8"},
}

// Canonical maps the rook's tagged companion leg of a castle to the king's
// two-square move, so both forms name the same castle. Other moves are
// returned with the tag cleared.
func (m Move) Canonical() Move {
	if m.Tag == TagCastling {
		for _, leg := range castlingLegs {
			if m.Start == leg.rookFrom && m.End == leg.rookTo {
				return Move{Start: leg.kingFrom, End: leg.kingTo}
			}
		}
	}
	m.Tag = ""
	return m
}

// RecordedMove is one entry of a persisted game history.
type RecordedMove struct {
	Position int  `json:"position"`
	Move     Move `json:"move"`
}
