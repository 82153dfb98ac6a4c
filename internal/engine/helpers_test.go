package engine

import (
	"testing"
	"time"
)

var t0 = time.Unix(1_700_000_000, 0)

func newGame(t *testing.T) GameState {
	t.Helper()
	s, err := CreateGameState(Settings{}, time.Time{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return s
}

func fromFEN(t *testing.T, fen string) GameState {
	t.Helper()
	s, err := FromFEN(fen, Settings{}, time.Time{})
	if err != nil {
		t.Fatalf("FromFEN(%q): %v", fen, err)
	}
	return s
}

func req(t *testing.T, uci string) MoveRequest {
	t.Helper()
	r, err := ParseUCI(uci)
	if err != nil {
		t.Fatalf("ParseUCI(%q): %v", uci, err)
	}
	return r
}

// play applies each UCI move in turn, failing the test on the first error.
func play(t *testing.T, s GameState, moves ...string) GameState {
	t.Helper()
	for _, uci := range moves {
		next, err := ApplyMove(s, req(t, uci), time.Time{})
		if err != nil {
			t.Fatalf("move %s in %s: %v", uci, s.FEN(), err)
		}
		s = next
	}
	return s
}

func hasMove(moves []Move, uci string) bool {
	for _, m := range moves {
		if m.UCI() == uci {
			return true
		}
	}
	return false
}

func findLegal(t *testing.T, s GameState, uci string) Move {
	t.Helper()
	for _, m := range s.LegalMoves() {
		if m.UCI() == uci {
			return m
		}
	}
	t.Fatalf("%s not legal in %s", uci, s.FEN())
	return Move{}
}
