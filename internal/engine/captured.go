package engine

// Captures lists the pieces each side has taken.
type Captures struct {
	ByWhite []Piece `json:"capturedByWhite"`
	ByBlack []Piece `json:"capturedByBlack"`
}

// CapturedPieces replays history from start, or from the standard position
// when start is nil, and collects every captured piece. Replay stops at the
// first move that does not fit the board.
func CapturedPieces(start *Board, history []Move) Captures {
	out := Captures{ByWhite: []Piece{}, ByBlack: []Piece{}}
	board := InitialBoard()
	if start != nil {
		board = *start
	}
	for _, m := range history {
		if board[m.From].Empty() {
			break
		}
		var captured Piece
		board, captured, _ = board.play(m)
		switch {
		case captured.Empty():
		case captured.Color == White:
			out.ByBlack = append(out.ByBlack, captured)
		default:
			out.ByWhite = append(out.ByWhite, captured)
		}
	}
	return out
}

// Captured lists the pieces taken so far in s.
func (s GameState) Captured() Captures {
	return CapturedPieces(s.Start, s.Moves)
}
