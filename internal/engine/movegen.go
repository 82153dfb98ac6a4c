package engine

// position is the slice of GameState move generation depends on.
type position struct {
	board    Board
	castling CastlingRights
	last     *LastMove
	side     Color
}

type castleRule struct {
	kingFrom, kingTo Square
	rookFrom, rookTo Square
	empty            []Square // must be unoccupied
	safe             []Square // must not be attacked: origin, transit, landing
}

var castleSides = [...]CastleSide{KingSide, QueenSide}

var castleRules = map[Color]map[CastleSide]castleRule{
	White: {
		KingSide:  {kingFrom: 4, kingTo: 6, rookFrom: 7, rookTo: 5, empty: []Square{5, 6}, safe: []Square{4, 5, 6}},
		QueenSide: {kingFrom: 4, kingTo: 2, rookFrom: 0, rookTo: 3, empty: []Square{1, 2, 3}, safe: []Square{4, 3, 2}},
	},
	Black: {
		KingSide:  {kingFrom: 60, kingTo: 62, rookFrom: 63, rookTo: 61, empty: []Square{61, 62}, safe: []Square{60, 61, 62}},
		QueenSide: {kingFrom: 60, kingTo: 58, rookFrom: 56, rookTo: 59, empty: []Square{57, 58, 59}, safe: []Square{60, 59, 58}},
	},
}

// generator appends the pseudo-legal moves of the piece on from.
type generator func(p *position, from Square, out []Move) []Move

var generators = map[PieceType]generator{
	Pawn:   genPawn,
	Knight: func(p *position, from Square, out []Move) []Move { return genLeap(p, from, knightOffsets, out) },
	Bishop: func(p *position, from Square, out []Move) []Move { return genSlide(p, from, diagonalDirs, out) },
	Rook:   func(p *position, from Square, out []Move) []Move { return genSlide(p, from, straightDirs, out) },
	Queen:  func(p *position, from Square, out []Move) []Move { return genSlide(p, from, kingOffsets, out) },
	King:   genKing,
}

// pseudoLegal generates every move of the side to move, ignoring self-check.
func (p *position) pseudoLegal() []Move {
	out := make([]Move, 0, 48)
	for i, pc := range p.board {
		if pc.Empty() || pc.Color != p.side {
			continue
		}
		out = generators[pc.Type](p, Square(i), out)
	}
	return out
}

// legalMoves filters pseudoLegal down to moves that leave the mover's king safe.
func (p *position) legalMoves() []Move {
	pseudo := p.pseudoLegal()
	legal := pseudo[:0]
	for _, m := range pseudo {
		if p.leavesKingSafe(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

func (p *position) leavesKingSafe(m Move) bool {
	nb, _, _ := p.board.play(m)
	king := m.To
	if p.board[m.From].Type != King {
		king = nb.FindKing(p.side)
	}
	return king != NoSquare && !IsAttacked(&nb, king, p.side.Opponent())
}

func genSlide(p *position, from Square, dirs []offset, out []Move) []Move {
	for _, o := range dirs {
		for n := 1; n < 8; n++ {
			to, ok := from.step(o, n)
			if !ok {
				break
			}
			target := p.board[to]
			if target.Empty() {
				out = append(out, Move{From: from, To: to})
				continue
			}
			if target.Color != p.side {
				out = append(out, Move{From: from, To: to, Capture: true})
			}
			break
		}
	}
	return out
}

func genLeap(p *position, from Square, offsets []offset, out []Move) []Move {
	for _, o := range offsets {
		to, ok := from.step(o, 1)
		if !ok {
			continue
		}
		target := p.board[to]
		switch {
		case target.Empty():
			out = append(out, Move{From: from, To: to})
		case target.Color != p.side:
			out = append(out, Move{From: from, To: to, Capture: true})
		}
	}
	return out
}

func genKing(p *position, from Square, out []Move) []Move {
	out = genLeap(p, from, kingOffsets, out)
	return genCastle(p, from, out)
}

func genCastle(p *position, from Square, out []Move) []Move {
	opp := p.side.Opponent()
	for _, side := range castleSides {
		if !p.castling.Has(p.side, side) {
			continue
		}
		rule := castleRules[p.side][side]
		if from != rule.kingFrom || p.board[rule.rookFrom] != (Piece{Type: Rook, Color: p.side}) {
			continue
		}
		if !allEmpty(&p.board, rule.empty) || anyAttacked(&p.board, rule.safe, opp) {
			continue
		}
		out = append(out, Move{From: from, To: rule.kingTo, Castle: side})
	}
	return out
}

func allEmpty(b *Board, squares []Square) bool {
	for _, sq := range squares {
		if !b[sq].Empty() {
			return false
		}
	}
	return true
}

func anyAttacked(b *Board, squares []Square, by Color) bool {
	for _, sq := range squares {
		if IsAttacked(b, sq, by) {
			return true
		}
	}
	return false
}

func pawnDirection(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

func genPawn(p *position, from Square, out []Move) []Move {
	dir := pawnDirection(p.side)
	startRank, promoRank := 1, 7
	if p.side == Black {
		startRank, promoRank = 6, 0
	}
	f, r := from.File(), from.Rank()

	if one, ok := SquareAt(f, r+dir); ok && p.board[one].Empty() {
		out = addPawnMove(out, from, one, false, r+dir == promoRank)
		if r == startRank {
			if two, ok := SquareAt(f, r+2*dir); ok && p.board[two].Empty() {
				out = append(out, Move{From: from, To: two})
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		to, ok := SquareAt(f+df, r+dir)
		if !ok {
			continue
		}
		if target := p.board[to]; !target.Empty() && target.Color != p.side {
			out = addPawnMove(out, from, to, true, r+dir == promoRank)
		}
		if p.enPassantFrom(f+df, r) {
			out = append(out, Move{From: from, To: to, Capture: true, EnPassant: true})
		}
	}
	return out
}

// enPassantFrom reports whether the previous move was an enemy pawn's
// two-square push that landed on (file, rank).
func (p *position) enPassantFrom(file, rank int) bool {
	lm := p.last
	if lm == nil || lm.Piece.Type != Pawn || lm.Piece.Color == p.side {
		return false
	}
	if d := lm.From.Rank() - lm.To.Rank(); d != 2 && d != -2 {
		return false
	}
	sq, ok := SquareAt(file, rank)
	return ok && lm.To == sq
}

func addPawnMove(out []Move, from, to Square, capture, promote bool) []Move {
	if !promote {
		return append(out, Move{From: from, To: to, Capture: capture})
	}
	for _, t := range promotionTypes {
		out = append(out, Move{From: from, To: to, Capture: capture, Promotion: t})
	}
	return out
}

// play applies m to a copy of b and returns the copy together with the
// captured piece and the square it stood on (NoSquare when nothing was taken).
func (b Board) play(m Move) (Board, Piece, Square) {
	mover := b[m.From]
	capSq := NoSquare
	if m.EnPassant {
		capSq = Square(int(m.To) - 8*pawnDirection(mover.Color))
	} else if !b[m.To].Empty() {
		capSq = m.To
	}
	var captured Piece
	if capSq != NoSquare {
		captured = b[capSq]
		b[capSq] = Piece{}
	}
	b[m.From] = Piece{}
	if m.Promotion != NoPieceType {
		mover = Piece{Type: m.Promotion, Color: mover.Color}
	}
	b[m.To] = mover
	if m.Castle != "" {
		rule := castleRules[mover.Color][m.Castle]
		b[rule.rookTo] = b[rule.rookFrom]
		b[rule.rookFrom] = Piece{}
	}
	return b, captured, capSq
}
