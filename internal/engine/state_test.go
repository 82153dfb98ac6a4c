package engine

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestIllegalMoveLeavesStateUntouched(t *testing.T) {
	s := play(t, newGame(t), "e2e4")
	before := s.clone()

	_, err := ApplyMove(s, req(t, "e7e4"), time.Time{})
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
	var me *MoveError
	if !errors.As(err, &me) || me.Field != "move" || me.Message != "Illegal move." {
		t.Fatalf("expected structured move error, got %#v", err)
	}
	if diff := cmp.Diff(before, s); diff != "" {
		t.Fatalf("state changed by rejected move (-want +got):\n%s", diff)
	}
}

func TestApplyMoveDoesNotAliasInput(t *testing.T) {
	s := play(t, newGame(t), "e2e4")
	before := s.clone()
	next := play(t, s, "e7e5")

	next.Moves[0] = Move{}
	next.LastMove.Piece = Piece{}
	if diff := cmp.Diff(before, s); diff != "" {
		t.Fatalf("input state observed a later mutation (-want +got):\n%s", diff)
	}
}

func TestSideToMoveDerivedFromLastMove(t *testing.T) {
	s := newGame(t)
	if s.SideToMove() != White {
		t.Fatalf("white should move first")
	}
	s = play(t, s, "g1f3")
	if s.SideToMove() != Black {
		t.Fatalf("black should move after white")
	}
	s.Turn = ""
	if s.SideToMove() != Black {
		t.Fatalf("derivation from last move should give black")
	}
	if _, err := ApplyMove(s, req(t, "e2e4"), time.Time{}); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("white cannot move twice, got %v", err)
	}
}

func TestEnPassantRemovesPassedPawn(t *testing.T) {
	s := play(t, newGame(t), "e2e4", "a7a6", "e4e5", "f7f5", "e5f6")

	b := s.Board.Pieces
	if !b.At(MustSquare("f5")).Empty() {
		t.Fatalf("captured pawn still on f5")
	}
	if got := b.At(MustSquare("f6")); got != (Piece{Type: Pawn, Color: White}) {
		t.Fatalf("expected white pawn on f6, got %+v", got)
	}
	if !b.At(MustSquare("e5")).Empty() {
		t.Fatalf("capturing pawn still on e5")
	}
	if lm := s.LastMove; !lm.EnPassant || !lm.Capture {
		t.Fatalf("last move should be recorded as en passant, got %+v", lm)
	}
	if got := s.Captured().ByWhite; len(got) != 1 || got[0].Type != Pawn {
		t.Fatalf("expected one captured pawn, got %+v", got)
	}
}

func TestCastlingMovesRook(t *testing.T) {
	s := fromFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	s = play(t, s, "e1g1")
	b := s.Board.Pieces
	if b.At(MustSquare("g1")).Type != King || b.At(MustSquare("f1")).Type != Rook || !b.At(MustSquare("h1")).Empty() {
		t.Fatalf("kingside castle misplaced pieces: %s", s.FEN())
	}
	if s.Castling.White != (SideRights{}) {
		t.Fatalf("castling should clear white rights, got %+v", s.Castling.White)
	}
	if s.LastMove.Castle != KingSide {
		t.Fatalf("last move should be tagged as castling")
	}

	s = play(t, s, "e8c8")
	b = s.Board.Pieces
	if b.At(MustSquare("c8")).Type != King || b.At(MustSquare("d8")).Type != Rook || !b.At(MustSquare("a8")).Empty() {
		t.Fatalf("queenside castle misplaced pieces: %s", s.FEN())
	}
}

func TestCastlingRightsBookkeeping(t *testing.T) {
	base := "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"

	t.Run("rook capture on home square", func(t *testing.T) {
		s := play(t, fromFEN(t, base), "a1a8")
		want := CastlingRights{
			White: SideRights{KingSide: true},
			Black: SideRights{KingSide: true},
		}
		if diff := cmp.Diff(want, s.Castling); diff != "" {
			t.Fatalf("rights mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("king move", func(t *testing.T) {
		s := play(t, fromFEN(t, base), "e1e2", "a8b8", "e2e1")
		if s.Castling.White != (SideRights{}) {
			t.Fatalf("returning the king must not restore rights, got %+v", s.Castling.White)
		}
		if s.Castling.Black != (SideRights{KingSide: true}) {
			t.Fatalf("black rook move should cost queenside only, got %+v", s.Castling.Black)
		}
		if hasMove(s.LegalMoves(), "e8c8") {
			t.Fatalf("queenside castling offered without the right")
		}
	})

	t.Run("rook returns home", func(t *testing.T) {
		s := play(t, fromFEN(t, base), "h1h2", "e8d8", "h2h1")
		if s.Castling.White.KingSide {
			t.Fatalf("kingside right came back")
		}
		if !s.Castling.White.QueenSide {
			t.Fatalf("queenside right lost without cause")
		}
	})
}

func TestFoolsMate(t *testing.T) {
	s := play(t, newGame(t), "f2f3", "e7e5", "g2g4", "d8h4")
	want := &Result{Winner: WinnerBlack, Reason: ReasonCheckmate}
	if diff := cmp.Diff(want, s.Result); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if len(s.LegalMoves()) != 0 || len(s.Board.PossibleMoves) != 0 {
		t.Fatalf("white should have no legal moves")
	}
	if _, err := ApplyMove(s, req(t, "a2a3"), time.Time{}); !errors.Is(err, ErrGameFinished) {
		t.Fatalf("expected ErrGameFinished, got %v", err)
	}
}

func TestStalemate(t *testing.T) {
	s := play(t, fromFEN(t, "7k/3Q4/6K1/8/8/8/8/8 w - - 0 1"), "d7f7")
	want := &Result{Winner: WinnerDraw, Reason: ReasonStalemate}
	if diff := cmp.Diff(want, s.Result); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestDetermineResult(t *testing.T) {
	s := fromFEN(t, "7k/8/8/8/8/8/8/K7 w - - 0 1")
	if r := DetermineResult(&s.Board.Pieces, White, s.LegalMoves()); r != nil {
		t.Fatalf("game with moves left should continue, got %+v", r)
	}
	mated := fromFEN(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if r := DetermineResult(&mated.Board.Pieces, Black, nil); r == nil || r.Winner != WinnerWhite || r.Reason != ReasonCheckmate {
		t.Fatalf("expected white checkmate, got %+v", r)
	}
}

func TestPromotionRequiresMatchingPiece(t *testing.T) {
	s := fromFEN(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	if _, err := ApplyMove(s, req(t, "a7a8"), time.Time{}); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("bare promotion should be illegal, got %v", err)
	}
	if _, err := ApplyMove(fromFEN(t, "4k3/8/8/8/8/8/P7/4K3 w - - 0 1"), req(t, "a2a3q"), time.Time{}); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("promotion piece on a quiet move should be illegal, got %v", err)
	}
	next := play(t, s, "a7a8n")
	if got := next.Board.Pieces.At(MustSquare("a8")); got != (Piece{Type: Knight, Color: White}) {
		t.Fatalf("expected white knight on a8, got %+v", got)
	}
	if next.LastMove.Piece.Type != Pawn {
		t.Fatalf("last move should record the pawn that moved")
	}
}

func TestHydrateRestoresStrippedState(t *testing.T) {
	s := play(t, newGame(t), "e2e4", "c7c5")
	stored := StripPossibleMoves(s)
	if stored.Board.PossibleMoves != nil {
		t.Fatalf("possible moves not stripped")
	}

	data, err := json.Marshal(stored)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var loaded GameState
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	loaded.Turn = ""

	h := Hydrate(loaded)
	if diff := cmp.Diff(s.Board.PossibleMoves, h.Board.PossibleMoves); diff != "" {
		t.Fatalf("hydrated moves differ (-want +got):\n%s", diff)
	}
	if h.Turn != White || h.Board.Evaluation != s.Board.Evaluation {
		t.Fatalf("hydrate did not rebuild derived fields: turn %s eval %d", h.Turn, h.Board.Evaluation)
	}
	next := play(t, h, "g1f3")
	if next.SideToMove() != Black {
		t.Fatalf("play should continue from a hydrated state")
	}
}

// withoutCastling round-trips s through JSON with the castling block removed.
func withoutCastling(t *testing.T, s GameState) GameState {
	t.Helper()
	data, err := json.Marshal(StripPossibleMoves(s))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal fields: %v", err)
	}
	delete(fields, "castling")
	if data, err = json.Marshal(fields); err != nil {
		t.Fatalf("marshal fields: %v", err)
	}
	var loaded GameState
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return Hydrate(loaded)
}

func TestHydrateDefaultsMissingCastling(t *testing.T) {
	s := play(t, newGame(t), "e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "g8f6")
	h := withoutCastling(t, s)
	if h.Castling != FullCastlingRights() {
		t.Fatalf("rights not restored: %+v", h.Castling)
	}
	if m := findLegal(t, h, "e1g1"); m.Castle != KingSide {
		t.Fatalf("O-O should be offered, got %+v", m)
	}

	moved := play(t, newGame(t), "e2e4", "e7e5", "e1e2", "a7a6", "e2e1", "a8a7", "g1f3", "a7a8")
	h = withoutCastling(t, moved)
	want := CastlingRights{Black: SideRights{KingSide: true}}
	if h.Castling != want {
		t.Fatalf("rights = %+v, want %+v", h.Castling, want)
	}

	bare := withoutCastling(t, fromFEN(t, "4k3/8/8/8/8/8/8/4K2R w - - 0 1"))
	if bare.Castling != (CastlingRights{White: SideRights{KingSide: true}}) {
		t.Fatalf("rights for a lone rook = %+v", bare.Castling)
	}
}

func TestMoveString(t *testing.T) {
	tests := []struct {
		m    Move
		want string
	}{
		{Move{From: MustSquare("e2"), To: MustSquare("e4")}, "e2-e4"},
		{Move{From: MustSquare("e4"), To: MustSquare("d5"), Capture: true}, "e4xd5"},
		{Move{From: MustSquare("e7"), To: MustSquare("e8"), Promotion: Queen}, "e7-e8=Q"},
		{Move{From: MustSquare("e1"), To: MustSquare("g1"), Castle: KingSide}, "O-O"},
		{Move{From: MustSquare("e8"), To: MustSquare("c8"), Castle: QueenSide}, "O-O-O"},
		{Move{From: MustSquare("e5"), To: MustSquare("d6"), Capture: true, EnPassant: true}, "e5xd6 ep"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}
