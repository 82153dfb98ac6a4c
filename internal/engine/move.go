package engine

import (
	"fmt"
	"strings"
)

// Move is one candidate or applied move. Promotion, EnPassant and Castle
// are properties of the generated move, never taken from a client.
type Move struct {
	From      Square     `json:"from"`
	To        Square     `json:"to"`
	Capture   bool       `json:"capture"`
	Promotion PieceType  `json:"promotion,omitempty"`
	EnPassant bool       `json:"enPassant,omitempty"`
	Castle    CastleSide `json:"castle,omitempty"`
}

// LastMove is the most recent move together with the piece that made it.
type LastMove struct {
	Move
	Piece Piece `json:"piece"`
}

// MoveRequest is what a caller submits: squares and an optional promotion.
type MoveRequest struct {
	From      Square    `json:"from"`
	To        Square    `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

// matches reports whether m answers req. The promotion piece must agree
// exactly, so a bare request never matches a promotion candidate.
func (m Move) matches(req MoveRequest) bool {
	return m.From == req.From && m.To == req.To && m.Promotion == req.Promotion
}

// String renders the move for move lists: e2-e4, e4xd5, e7-e8=Q, O-O, exd6 ep.
func (m Move) String() string {
	switch m.Castle {
	case KingSide:
		return "O-O"
	case QueenSide:
		return "O-O-O"
	}
	sep := "-"
	if m.Capture {
		sep = "x"
	}
	s := m.From.String() + sep + m.To.String()
	if m.Promotion != NoPieceType {
		s += "=" + strings.ToUpper(string(m.Promotion))
	}
	if m.EnPassant {
		s += " ep"
	}
	return s
}

// UCI renders the move in long algebraic form (e2e4, e7e8q).
func (m Move) UCI() string {
	return m.From.String() + m.To.String() + string(m.Promotion)
}

// ParseUCI turns a long algebraic string into a MoveRequest.
func ParseUCI(s string) (MoveRequest, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 && len(s) != 5 {
		return MoveRequest{}, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return MoveRequest{}, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return MoveRequest{}, err
	}
	req := MoveRequest{From: from, To: to}
	if len(s) == 5 {
		req.Promotion = PieceType(s[4:])
		if !req.Promotion.IsPromotion() {
			return MoveRequest{}, fmt.Errorf("%w: bad promotion %q", ErrIllegalMove, s[4:])
		}
	}
	return req, nil
}
