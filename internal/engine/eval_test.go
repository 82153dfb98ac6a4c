package engine

import "testing"

// mirrorColors flips the board vertically and swaps every piece's color.
func mirrorColors(b Board) Board {
	var out Board
	for i, p := range b {
		if p.Empty() {
			continue
		}
		out[Square(i).Mirror()] = Piece{Type: p.Type, Color: p.Color.Opponent()}
	}
	return out
}

func TestInitialEvaluationIsBalanced(t *testing.T) {
	b := InitialBoard()
	if got := Evaluate(&b); got != 0 {
		t.Fatalf("starting position scored %d", got)
	}
	if got := Phase(&b); got != 187 {
		t.Fatalf("starting phase = %d, want 187", got)
	}
}

func TestPhaseRisesAsPiecesLeave(t *testing.T) {
	kings := fromFEN(t, "4k3/pppppppp/8/8/8/8/PPPPPPPP/4K3 w - - 0 1").Board.Pieces
	if got := Phase(&kings); got != 256 {
		t.Fatalf("pawn endgame phase = %d, want 256", got)
	}
	full := InitialBoard()
	if Phase(&full) >= Phase(&kings) {
		t.Fatalf("phase should grow as material is traded")
	}
}

func TestEvaluationAntiSymmetric(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"6k1/5ppp/8/8/8/8/3Q4/4K3 w - - 0 1",
	}
	for _, fen := range fens {
		b := fromFEN(t, fen).Board.Pieces
		m := mirrorColors(b)
		if got, want := Evaluate(&m), -Evaluate(&b); got != want {
			t.Fatalf("%s: mirrored score %d, want %d", fen, got, want)
		}
	}
}

func TestEvaluationFavorsMaterial(t *testing.T) {
	s := fromFEN(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	if s.Board.Evaluation < 800 {
		t.Fatalf("extra queen should score near +900, got %d", s.Board.Evaluation)
	}
}

func TestKingTableTapers(t *testing.T) {
	// A centralised king is worth more once the heavy pieces are gone.
	middlegame := fromFEN(t, "rnbqkbnr/8/8/8/4K3/8/8/RNBQ1BNR w - - 0 1").Board.Pieces
	endgame := fromFEN(t, "4k3/8/8/8/4K3/8/8/8 w - - 0 1").Board.Pieces
	e4 := MustSquare("e4").Mirror()
	mg := kingScore(&middlegame, e4)
	eg := kingScore(&endgame, e4)
	if eg <= mg {
		t.Fatalf("centre king scored %v in the endgame and %v with pieces on", eg, mg)
	}
}

func kingScore(b *Board, idx Square) float64 {
	phase := float64(Phase(b))
	return (float64(pst[King][idx])*(256-phase) + float64(kingEndgamePST[idx])*phase) / 256
}
