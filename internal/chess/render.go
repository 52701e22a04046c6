package chess

import "strings"

// String prints the board rank 8 first, one line per rank: upper case white,
// lower case black, '.' for an empty square. parseBoard reads the same format.
func (b Board) String() string {
	var sb strings.Builder
	for y := 0; y < Rows; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < Cols; x++ {
			sb.WriteRune(pieceToChar(b.Squares[indexOf(Coord{X: x, Y: y})]))
		}
	}
	return sb.String()
}

// Lines returns the diagram rows of String.
func (b Board) Lines() []string {
	return strings.Split(b.String(), "\n")
}

// Diagram is String with rank and file labels, for terminals.
func (b Board) Diagram() string {
	var sb strings.Builder
	for y, line := range b.Lines() {
		sb.WriteByte(ranks[y])
		sb.WriteByte(' ')
		for i, ch := range line {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteRune(ch)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h")
	return sb.String()
}
