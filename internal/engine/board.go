package engine

import (
	"encoding/json"
	"fmt"
)

// Board holds one slot per square; the zero Piece marks an empty square.
// It is an array so that assignment copies it.
type Board [64]Piece

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// InitialBoard returns the standard starting position.
func InitialBoard() Board {
	var b Board
	for f := 0; f < 8; f++ {
		b[f] = Piece{Type: backRank[f], Color: White}
		b[8+f] = Piece{Type: Pawn, Color: White}
		b[48+f] = Piece{Type: Pawn, Color: Black}
		b[56+f] = Piece{Type: backRank[f], Color: Black}
	}
	return b
}

// At returns the piece on sq, or the zero Piece.
func (b *Board) At(sq Square) Piece { return b[sq] }

// FindKing returns the square of c's king, or NoSquare.
func (b *Board) FindKing(c Color) Square {
	for i, p := range b {
		if p.Type == King && p.Color == c {
			return Square(i)
		}
	}
	return NoSquare
}

// MarshalJSON encodes the board sparsely as square -> piece.
func (b Board) MarshalJSON() ([]byte, error) {
	m := make(map[Square]Piece, 32)
	for i, p := range b {
		if !p.Empty() {
			m[Square(i)] = p
		}
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the sparse square -> piece mapping.
func (b *Board) UnmarshalJSON(data []byte) error {
	var m map[Square]Piece
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*b = Board{}
	for sq, p := range m {
		if !p.Color.Valid() {
			return fmt.Errorf("piece on %s: bad color %q", sq, p.Color)
		}
		switch p.Type {
		case Pawn, Knight, Bishop, Rook, Queen, King:
		default:
			return fmt.Errorf("piece on %s: bad type %q", sq, p.Type)
		}
		b[sq] = p
	}
	return nil
}
