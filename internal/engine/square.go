package engine

import "fmt"

// Square is a board square as a linear index: rank*8+file, a1=0, h8=63.
type Square int8

// NoSquare marks the absence of a square.
const NoSquare Square = -1

const files = "abcdefgh"

// SquareToIndex maps an algebraic square name such as "e4" to its 0..63 index.
// The input must be well formed.
func SquareToIndex(sq string) int {
	return int(sq[1]-'1')*8 + int(sq[0]-'a')
}

// IndexToSquare maps a 0..63 index back to its algebraic name.
func IndexToSquare(idx int) string {
	return string([]byte{files[idx%8], byte('1' + idx/8)})
}

// ParseSquare validates and converts an algebraic square name.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return Square(SquareToIndex(s)), nil
}

// MustSquare is ParseSquare for literals known to be valid.
func MustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

// SquareAt builds a square from zero-based file and rank, reporting
// false when either is off the board.
func SquareAt(file, rank int) (Square, bool) {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, false
	}
	return Square(rank*8 + file), true
}

func (s Square) File() int { return int(s) % 8 }
func (s Square) Rank() int { return int(s) / 8 }

// Mirror flips the square vertically (a1 <-> a8).
func (s Square) Mirror() Square {
	return Square((7-s.Rank())*8 + s.File())
}

// Valid reports whether s is on the board.
func (s Square) Valid() bool { return s >= 0 && s < 64 }

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return IndexToSquare(int(s))
}

func (s Square) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: index %d", ErrInvalidSquare, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Square) UnmarshalText(b []byte) error {
	sq, err := ParseSquare(string(b))
	if err != nil {
		return err
	}
	*s = sq
	return nil
}
