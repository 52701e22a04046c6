package chess

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	Rows       = 8
	Cols       = 8
	NumSquares = Rows * Cols

	NoFile = -1
)

// Board holds the 64 squares, index y*8+x with y 0 being rank "8".
type Board struct {
	Squares [NumSquares]Piece
}

func indexOf(c Coord) int  { return c.Y*Cols + c.X }
func coordOf(sq int) Coord { return Coord{X: sq % Cols, Y: sq / Cols} }

func onBoard(x, y int) bool {
	return x >= 0 && x < Cols && y >= 0 && y < Rows
}

func (b Board) At(c Coord) Piece {
	if !c.Valid() {
		return Empty
	}
	return b.Squares[indexOf(c)]
}

func (b *Board) set(c Coord, p Piece) {
	b.Squares[indexOf(c)] = p
}

// pawn direction in y: white moves toward y 0.
func pawnDir(c Color) int {
	if c == White {
		return -1
	}
	return +1
}

func pawnStartRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

func lastRow(c Color) int {
	if c == White {
		return 0
	}
	return Rows - 1
}

func homeRow(c Color) int {
	if c == White {
		return Rows - 1
	}
	return 0
}

var letterToPieceKind = map[rune]PieceKind{
	'p': Pawn,
	'n': Knight,
	'b': Bishop,
	'r': Rook,
	'q': Queen,
	'k': King,
}

var pieceKindLetters = [...]rune{'.', 'p', 'n', 'b', 'r', 'q', 'k'}

func pieceToChar(p Piece) rune {
	if p == Empty {
		return '.'
	}
	ch := pieceKindLetters[p.Kind()]
	if p.Color() == White {
		return unicode.ToUpper(ch)
	}
	return ch
}

// rank 8 first, white upper case.
const initialBoardString = `rnbqkbnr
pppppppp
........
........
........
........
PPPPPPPP
RNBQKBNR`

// parseBoard reads an 8-line diagram in the same format Board.String prints.
func parseBoard(layout string) (Board, error) {
	var b Board
	lines := make([]string, 0, Rows)
	for _, line := range strings.Split(layout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) != Rows {
		return b, fmt.Errorf("board layout has %d rows, want %d", len(lines), Rows)
	}
	for y, line := range lines {
		if len([]rune(line)) != Cols {
			return b, fmt.Errorf("board layout row %d has %d columns, want %d", y, len([]rune(line)), Cols)
		}
		for x, ch := range []rune(line) {
			if ch == '.' {
				continue
			}
			kind, ok := letterToPieceKind[unicode.ToLower(ch)]
			if !ok {
				return b, fmt.Errorf("unknown piece letter %q", ch)
			}
			color := Black
			if unicode.IsUpper(ch) {
				color = White
			}
			b.Squares[indexOf(Coord{X: x, Y: y})] = MakePiece(color, kind)
		}
	}
	return b, nil
}

func initialBoard() Board {
	b, err := parseBoard(initialBoardString)
	if err != nil {
		panic("initial board layout: " + err.Error())
	}
	return b
}
