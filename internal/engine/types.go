package engine

// Color is a side of the board.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opponent returns the other color.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Valid reports whether c names a side.
func (c Color) Valid() bool { return c == White || c == Black }

// PieceType uses the single-letter names the wire format carries.
type PieceType string

const (
	NoPieceType PieceType = ""
	Pawn        PieceType = "p"
	Knight      PieceType = "n"
	Bishop      PieceType = "b"
	Rook        PieceType = "r"
	Queen       PieceType = "q"
	King        PieceType = "k"
)

// promotionTypes is the order promotion candidates are emitted in.
var promotionTypes = [...]PieceType{Queen, Rook, Bishop, Knight}

// IsPromotion reports whether a pawn may promote to t.
func (t PieceType) IsPromotion() bool {
	switch t {
	case Queen, Rook, Bishop, Knight:
		return true
	}
	return false
}

// Piece is an immutable piece value. The zero Piece is an empty square.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

// Empty reports whether p is the zero Piece.
func (p Piece) Empty() bool { return p.Type == NoPieceType }

// CastleSide tags a castling move.
type CastleSide string

const (
	KingSide  CastleSide = "kingSide"
	QueenSide CastleSide = "queenSide"
)

// SideRights are one color's castling rights.
type SideRights struct {
	KingSide  bool `json:"kingSide"`
	QueenSide bool `json:"queenSide"`
}

// CastlingRights only ever lose rights during a game.
type CastlingRights struct {
	White SideRights `json:"white"`
	Black SideRights `json:"black"`
}

// FullCastlingRights is the starting position's rights.
func FullCastlingRights() CastlingRights {
	return CastlingRights{
		White: SideRights{KingSide: true, QueenSide: true},
		Black: SideRights{KingSide: true, QueenSide: true},
	}
}

// For returns a pointer to c's rights inside cr.
func (cr *CastlingRights) For(c Color) *SideRights {
	if c == White {
		return &cr.White
	}
	return &cr.Black
}

// Has reports whether c may still castle on side.
func (cr CastlingRights) Has(c Color, side CastleSide) bool {
	r := cr.For(c)
	if side == KingSide {
		return r.KingSide
	}
	return r.QueenSide
}

func (cr *CastlingRights) revoke(c Color, side CastleSide) {
	r := cr.For(c)
	if side == KingSide {
		r.KingSide = false
	} else {
		r.QueenSide = false
	}
}

// Winner of a finished game.
type Winner string

const (
	WinnerWhite Winner = "white"
	WinnerBlack Winner = "black"
	WinnerDraw  Winner = "draw"
)

// WinnerOf converts a color into its Winner.
func WinnerOf(c Color) Winner { return Winner(c) }

// Reason a game ended.
type Reason string

const (
	ReasonCheckmate Reason = "checkmate"
	ReasonStalemate Reason = "stalemate"
	ReasonResign    Reason = "resign"
	ReasonDraw      Reason = "draw"
	ReasonTimeout   Reason = "timeout"
)

// Result is nil while a game is in progress.
type Result struct {
	Winner Winner `json:"winner"`
	Reason Reason `json:"reason"`
}

// DrawOfferPending is the only status a stored offer carries.
const DrawOfferPending = "pending"

// DrawOffer records an outstanding offer of a draw.
type DrawOffer struct {
	From   Color  `json:"from"`
	Status string `json:"status"`
}
