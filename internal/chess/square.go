package chess

const (
	files = "abcdefgh"
	ranks = "87654321"
)

// Coord is an array coordinate: X is the file (0 = a), Y the rank index
// (0 = rank 8).
type Coord struct {
	X, Y int
}

func (c Coord) Valid() bool { return onBoard(c.X, c.Y) }

// Square converts the coordinate to algebraic notation, or "" when it is off
// the board.
func (c Coord) Square() Square { return Notation(c.X, c.Y) }

func (c Coord) add(dx, dy int) Coord { return Coord{X: c.X + dx, Y: c.Y + dy} }

// Square is an algebraic coordinate such as "e4".
type Square string

func Notation(x, y int) Square {
	if !onBoard(x, y) {
		return ""
	}
	return Square([]byte{files[x], ranks[y]})
}

// Coord converts the square to array coordinates. ok is false unless the
// square is exactly a file letter a-h followed by a rank digit 1-8.
func (s Square) Coord() (c Coord, ok bool) {
	if len(s) != 2 {
		return Coord{}, false
	}
	f, r := s[0], s[1]
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return Coord{}, false
	}
	return Coord{X: int(f - 'a'), Y: int('8' - r)}, true
}

func (s Square) Valid() bool {
	_, ok := s.Coord()
	return ok
}

func (s Square) String() string { return string(s) }
