package engine

import (
	"fmt"
	"strings"
	"time"
)

// StartFEN is the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FromFEN builds a game state from a FEN string. Move counters are ignored.
// An en-passant target becomes a synthetic last move (the double push that
// produced it); castling rights without the king and rook at home are dropped.
func FromFEN(fen string, settings Settings, now time.Time) (GameState, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return GameState{}, fmt.Errorf("%w: want at least 2 fields, got %d", ErrInvalidFEN, len(fields))
	}
	board, err := parsePlacement(fields[0])
	if err != nil {
		return GameState{}, err
	}
	var turn Color
	switch fields[1] {
	case "w":
		turn = White
	case "b":
		turn = Black
	default:
		return GameState{}, fmt.Errorf("%w: side %q", ErrInvalidFEN, fields[1])
	}
	if InCheck(&board, turn.Opponent()) {
		return GameState{}, fmt.Errorf("%w: side not to move is in check", ErrInvalidFEN)
	}

	castling := CastlingRights{}
	if len(fields) > 2 && fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				castling.White.KingSide = true
			case 'Q':
				castling.White.QueenSide = true
			case 'k':
				castling.Black.KingSide = true
			case 'q':
				castling.Black.QueenSide = true
			default:
				return GameState{}, fmt.Errorf("%w: castling %q", ErrInvalidFEN, fields[2])
			}
		}
	}
	castling = sanitizeCastling(&board, castling)

	var last *LastMove
	if len(fields) > 3 && fields[3] != "-" {
		last, err = doublePushThrough(&board, fields[3], turn)
		if err != nil {
			return GameState{}, err
		}
	}

	settings, err = settings.Normalize()
	if err != nil {
		return GameState{}, err
	}
	start := board
	s := GameState{
		Board:    BoardState{Pieces: board},
		Start:    &start,
		Castling: castling,
		LastMove: last,
		Moves:    []Move{},
		Settings: &settings,
		Turn:     turn,
	}
	if !now.IsZero() {
		s.Clock = NewClock(settings.Control(), now)
		s.Clock.Active = turn
	}
	s.refresh()
	return s, nil
}

var fenPieces = map[rune]Piece{
	'P': {Pawn, White}, 'N': {Knight, White}, 'B': {Bishop, White},
	'R': {Rook, White}, 'Q': {Queen, White}, 'K': {King, White},
	'p': {Pawn, Black}, 'n': {Knight, Black}, 'b': {Bishop, Black},
	'r': {Rook, Black}, 'q': {Queen, Black}, 'k': {King, Black},
}

func parsePlacement(s string) (Board, error) {
	var b Board
	ranks := strings.Split(s, "/")
	if len(ranks) != 8 {
		return b, fmt.Errorf("%w: want 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	kings := map[Color]int{}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range row {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p, ok := fenPieces[ch]
			if !ok {
				return b, fmt.Errorf("%w: piece %q", ErrInvalidFEN, ch)
			}
			sq, ok := SquareAt(file, rank)
			if !ok {
				return b, fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, rank+1)
			}
			if p.Type == Pawn && (rank == 0 || rank == 7) {
				return b, fmt.Errorf("%w: pawn on %s", ErrInvalidFEN, sq)
			}
			if p.Type == King {
				kings[p.Color]++
			}
			b[sq] = p
			file++
		}
		if file != 8 {
			return b, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, rank+1, file)
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return b, fmt.Errorf("%w: each side needs exactly one king", ErrInvalidFEN)
	}
	return b, nil
}

func sanitizeCastling(b *Board, cr CastlingRights) CastlingRights {
	for _, c := range [2]Color{White, Black} {
		for _, side := range castleSides {
			rule := castleRules[c][side]
			if b[rule.kingFrom] != (Piece{King, c}) || b[rule.rookFrom] != (Piece{Rook, c}) {
				cr.revoke(c, side)
			}
		}
	}
	return cr
}

// doublePushThrough reconstructs the pawn push that left target as the
// en-passant square, given that turn is now to move.
func doublePushThrough(b *Board, target string, turn Color) (*LastMove, error) {
	sq, err := ParseSquare(target)
	if err != nil {
		return nil, fmt.Errorf("%w: en passant %q", ErrInvalidFEN, target)
	}
	pusher := turn.Opponent()
	dir := pawnDirection(pusher)
	from, ok1 := SquareAt(sq.File(), sq.Rank()-dir)
	to, ok2 := SquareAt(sq.File(), sq.Rank()+dir)
	if !ok1 || !ok2 || b[to] != (Piece{Pawn, pusher}) || !b[sq].Empty() || !b[from].Empty() {
		return nil, fmt.Errorf("%w: en passant %q does not follow a double push", ErrInvalidFEN, target)
	}
	return &LastMove{Move: Move{From: from, To: to}, Piece: Piece{Pawn, pusher}}, nil
}

// FEN renders the position. The halfmove clock is not tracked and is
// always 0; the fullmove number counts from the moves in the history.
func (s GameState) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := s.Board.Pieces[rank*8+file]
			if p.Empty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(fenLetter(p))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	turn := "w"
	if s.SideToMove() == Black {
		turn = "b"
	}
	castle := ""
	if s.Castling.White.KingSide {
		castle += "K"
	}
	if s.Castling.White.QueenSide {
		castle += "Q"
	}
	if s.Castling.Black.KingSide {
		castle += "k"
	}
	if s.Castling.Black.QueenSide {
		castle += "q"
	}
	if castle == "" {
		castle = "-"
	}
	ep := "-"
	if lm := s.LastMove; lm != nil && lm.Piece.Type == Pawn {
		if d := lm.To.Rank() - lm.From.Rank(); d == 2 || d == -2 {
			ep = Square((int(lm.From) + int(lm.To)) / 2).String()
		}
	}
	return fmt.Sprintf("%s %s %s %s 0 %d", sb.String(), turn, castle, ep, len(s.Moves)/2+1)
}

func fenLetter(p Piece) string {
	if p.Color == White {
		return strings.ToUpper(string(p.Type))
	}
	return string(p.Type)
}
