package engine

import (
	"encoding/json"
	"time"
)

// BoardState is the "board" block of a game state.
type BoardState struct {
	Pieces        Board  `json:"pieces"`
	PossibleMoves []Move `json:"possibleMoves,omitempty"`
	Evaluation    int    `json:"evaluation"`
}

// GameState is a complete snapshot of a game. Every engine operation takes
// a GameState by value and returns a fresh one; nothing returned shares
// memory with the input.
type GameState struct {
	Board     BoardState     `json:"board"`
	Castling  CastlingRights `json:"castling"`
	LastMove  *LastMove      `json:"lastMove"`
	Moves     []Move         `json:"moves"`
	Result    *Result        `json:"result"`
	Clock     *Clock         `json:"clock,omitempty"`
	DrawOffer *DrawOffer     `json:"drawOffer"`
	Settings  *Settings      `json:"settings,omitempty"`

	// Start is the position Moves begin from when it is not the standard
	// one, as for games seeded from FEN.
	Start *Board `json:"start,omitempty"`

	// Turn mirrors SideToMove. It is only authoritative for positions
	// seeded from FEN, where no last move exists to derive it from.
	Turn Color `json:"turn,omitempty"`
}

// CreateGameState starts a new game from the standard position. A zero now
// leaves the game untimed.
func CreateGameState(settings Settings, now time.Time) (GameState, error) {
	settings, err := settings.Normalize()
	if err != nil {
		return GameState{}, err
	}
	s := GameState{
		Board:    BoardState{Pieces: InitialBoard()},
		Castling: FullCastlingRights(),
		Moves:    []Move{},
		Settings: &settings,
		Turn:     White,
	}
	if !now.IsZero() {
		s.Clock = NewClock(settings.Control(), now)
	}
	s.refresh()
	return s, nil
}

// SideToMove is derived from the color of the last mover, white when no
// move has been played. An explicit Turn wins when set.
func (s GameState) SideToMove() Color {
	if s.Turn.Valid() {
		return s.Turn
	}
	if s.LastMove != nil && s.LastMove.Piece.Color == White {
		return Black
	}
	return White
}

// Finished reports whether a result has been set.
func (s GameState) Finished() bool { return s.Result != nil }

// LegalMoves recomputes the legal moves of the side to move. It is empty
// once the game has a result.
func (s GameState) LegalMoves() []Move {
	if s.Result != nil {
		return []Move{}
	}
	pos := s.position()
	return pos.legalMoves()
}

// ApplyMove plays req and returns the resulting state.
//
// When the state carries a clock and now is non-zero the clock is synced
// first; if that flags a timeout the timed-out state is returned together
// with ErrTimeout. A zero now only hands the clock to the opponent, and a
// move that ends the game leaves the clock as it was. An unmatched request yields a *MoveError wrapping
// ErrIllegalMove and a zero GameState; the input is never modified.
func ApplyMove(state GameState, req MoveRequest, now time.Time) (GameState, error) {
	if state.Result != nil {
		return GameState{}, fieldError("move", ErrGameFinished, "Game is already finished.")
	}
	timed := state.Clock != nil && !now.IsZero()
	if timed {
		state = SyncClock(state, now)
		if state.Result != nil {
			return state, ErrTimeout
		}
	}

	pos := state.position()
	matched, ok := findMove(pos.legalMoves(), req)
	if !ok {
		return GameState{}, fieldError("move", ErrIllegalMove, "Illegal move.")
	}

	next := state.clone()
	mover := pos.board[matched.From]
	board, captured, capSq := pos.board.play(matched)
	next.Board.Pieces = board
	next.Castling = updateCastlingRights(state.Castling, mover, matched.From, captured, capSq)
	next.LastMove = &LastMove{Move: matched, Piece: mover}
	next.Moves = append(next.Moves, matched)
	next.Turn = mover.Color.Opponent()
	next.DrawOffer = nil
	next.refresh()

	switch {
	case next.Clock == nil || next.Result != nil:
		// the clock stops on the move that ends the game
	case timed:
		next.Clock.credit(mover.Color, now)
	default:
		next.Clock.Active = mover.Color.Opponent()
	}
	return next, nil
}

// findMove scans the legal list for the candidate answering req.
func findMove(legal []Move, req MoveRequest) (Move, bool) {
	for _, m := range legal {
		if m.matches(req) {
			return m, true
		}
	}
	return Move{}, false
}

// DetermineResult classifies the position after a move: nil while side
// has a legal move, checkmate when side is in check, stalemate otherwise.
func DetermineResult(b *Board, side Color, legal []Move) *Result {
	if len(legal) > 0 {
		return nil
	}
	if InCheck(b, side) {
		return &Result{Winner: WinnerOf(side.Opponent()), Reason: ReasonCheckmate}
	}
	return &Result{Winner: WinnerDraw, Reason: ReasonStalemate}
}

// updateCastlingRights revokes rights lost by a king move, a rook leaving
// its home square, or a rook captured on its home square.
func updateCastlingRights(rights CastlingRights, mover Piece, from Square, captured Piece, capSq Square) CastlingRights {
	switch mover.Type {
	case King:
		*rights.For(mover.Color) = SideRights{}
	case Rook:
		for _, side := range castleSides {
			if from == castleRules[mover.Color][side].rookFrom {
				rights.revoke(mover.Color, side)
			}
		}
	}
	if captured.Type == Rook {
		for _, side := range castleSides {
			if capSq == castleRules[captured.Color][side].rookFrom {
				rights.revoke(captured.Color, side)
			}
		}
	}
	return rights
}

func (s *GameState) position() position {
	return position{
		board:    s.Board.Pieces,
		castling: s.Castling,
		last:     s.LastMove,
		side:     s.SideToMove(),
	}
}

// refresh recomputes every derived field: turn, legal moves, result and
// evaluation. A result already set is kept.
func (s *GameState) refresh() {
	s.Turn = s.SideToMove()
	if s.Result == nil {
		pos := s.position()
		moves := pos.legalMoves()
		s.Result = DetermineResult(&s.Board.Pieces, pos.side, moves)
		s.Board.PossibleMoves = moves
	}
	if s.Result != nil {
		s.Board.PossibleMoves = nil
	}
	s.Board.Evaluation = Evaluate(&s.Board.Pieces)
}

// clone deep-copies s so the copy can be changed freely.
func (s GameState) clone() GameState {
	c := s
	c.Board.PossibleMoves = append([]Move(nil), s.Board.PossibleMoves...)
	c.Moves = append(make([]Move, 0, len(s.Moves)+1), s.Moves...)
	if s.LastMove != nil {
		lm := *s.LastMove
		c.LastMove = &lm
	}
	if s.Result != nil {
		r := *s.Result
		c.Result = &r
	}
	if s.Clock != nil {
		ck := *s.Clock
		c.Clock = &ck
	}
	if s.DrawOffer != nil {
		d := *s.DrawOffer
		c.DrawOffer = &d
	}
	if s.Settings != nil {
		st := *s.Settings
		c.Settings = &st
	}
	if s.Start != nil {
		b := *s.Start
		c.Start = &b
	}
	return c
}

// Hydrate rebuilds the derived parts of a stored snapshot: turn, legal
// moves, evaluation and default settings. Missing castling rights are
// filled in when the snapshot is decoded.
func Hydrate(state GameState) GameState {
	s := state.clone()
	if s.Settings == nil {
		def, _ := Settings{}.Normalize()
		s.Settings = &def
	}
	s.refresh()
	return s
}

// UnmarshalJSON decodes a stored snapshot. A snapshot without castling
// rights gets the rights its board and history still allow.
func (s *GameState) UnmarshalJSON(data []byte) error {
	type plain GameState
	aux := struct {
		*plain
		Castling *CastlingRights `json:"castling"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Castling != nil {
		s.Castling = *aux.Castling
	} else {
		s.Castling = defaultCastling(&s.Board.Pieces, s.Moves)
	}
	return nil
}

// defaultCastling starts from full rights and drops every side whose king
// or rook is off its home square or has moved or been captured there.
func defaultCastling(b *Board, history []Move) CastlingRights {
	cr := sanitizeCastling(b, FullCastlingRights())
	for _, m := range history {
		for _, c := range [2]Color{White, Black} {
			for _, side := range castleSides {
				rule := castleRules[c][side]
				if m.From == rule.kingFrom || m.From == rule.rookFrom || m.To == rule.rookFrom {
					cr.revoke(c, side)
				}
			}
		}
	}
	return cr
}

// StripPossibleMoves returns a copy without the legal-move list, the form
// in which states are stored.
func StripPossibleMoves(state GameState) GameState {
	s := state.clone()
	s.Board.PossibleMoves = nil
	return s
}
