package utils

import "testing"

func TestRandomHexLength(t *testing.T) {
	if got := RandomHex(4); len(got) != 8 {
		t.Fatalf("expected 8 hex chars, got %q", got)
	}
	if NewClientID() == NewClientID() {
		t.Fatalf("expected distinct client ids")
	}
}

func TestCoinFlipHitsBothSides(t *testing.T) {
	seen := map[bool]bool{}
	for i := 0; i < 200 && len(seen) < 2; i++ {
		seen[CoinFlip()] = true
	}
	if len(seen) != 2 {
		t.Fatalf("coin flip never changed sides in 200 tries")
	}
}
