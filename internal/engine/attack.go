package engine

type offset struct{ df, dr int }

var (
	knightOffsets = []offset{{1, 2}, {2, 1}, {-1, 2}, {-2, 1}, {1, -2}, {2, -1}, {-1, -2}, {-2, -1}}
	straightDirs  = []offset{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	diagonalDirs  = []offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	kingOffsets   = append(append([]offset{}, straightDirs...), diagonalDirs...)
)

func (s Square) step(o offset, n int) (Square, bool) {
	return SquareAt(s.File()+o.df*n, s.Rank()+o.dr*n)
}

// IsAttacked reports whether any piece of color by attacks target on b.
func IsAttacked(b *Board, target Square, by Color) bool {
	for _, o := range knightOffsets {
		if sq, ok := target.step(o, 1); ok {
			if p := b[sq]; p.Type == Knight && p.Color == by {
				return true
			}
		}
	}
	if rayAttacked(b, target, by, straightDirs, Rook) || rayAttacked(b, target, by, diagonalDirs, Bishop) {
		return true
	}
	// White pawns attack upward, so they sit one rank below the target.
	dr := -1
	if by == Black {
		dr = 1
	}
	for _, df := range [2]int{-1, 1} {
		if sq, ok := SquareAt(target.File()+df, target.Rank()+dr); ok {
			if p := b[sq]; p.Type == Pawn && p.Color == by {
				return true
			}
		}
	}
	return false
}

// rayAttacked casts rays from target; the first piece met on each ray
// attacks if it is a slider moving along that ray or a king one step away.
func rayAttacked(b *Board, target Square, by Color, dirs []offset, slider PieceType) bool {
	for _, o := range dirs {
		for n := 1; n < 8; n++ {
			sq, ok := target.step(o, n)
			if !ok {
				break
			}
			p := b[sq]
			if p.Empty() {
				continue
			}
			if p.Color == by {
				if p.Type == slider || p.Type == Queen || (n == 1 && p.Type == King) {
					return true
				}
			}
			break
		}
	}
	return false
}

// InCheck reports whether c's king is attacked. A board without that
// king is never in check.
func InCheck(b *Board, c Color) bool {
	k := b.FindKing(c)
	return k != NoSquare && IsAttacked(b, k, c.Opponent())
}
