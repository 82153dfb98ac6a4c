package engine

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(state GameState, depth int) int {
	pos := state.position()
	return pos.perft(depth)
}

func (p *position) perft(depth int) int {
	if depth == 0 {
		return 1
	}
	moves := p.legalMoves()
	if depth == 1 {
		return len(moves)
	}
	nodes := 0
	for _, m := range moves {
		child := p.child(m)
		nodes += child.perft(depth - 1)
	}
	return nodes
}

// child plays m without any of the bookkeeping a GameState needs beyond
// what move generation reads.
func (p *position) child(m Move) position {
	mover := p.board[m.From]
	board, captured, capSq := p.board.play(m)
	return position{
		board:    board,
		castling: updateCastlingRights(p.castling, mover, m.From, captured, capSq),
		last:     &LastMove{Move: m, Piece: mover},
		side:     p.side.Opponent(),
	}
}
