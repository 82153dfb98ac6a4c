package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"chessrules/internal/engine"
)

func TestGamePersistenceBeforeCleanup(t *testing.T) {
	h := NewHub(nil)
	g, err := h.Create(context.Background(), engine.Settings{}, "", t0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if n := h.Sweep(t0.Add(23 * time.Hour)); n != 0 {
		t.Fatalf("game removed before 24 hours of inactivity")
	}
	if _, err := h.Get(context.Background(), g.ID); err != nil {
		t.Fatalf("game should still be live: %v", err)
	}

	if n := h.Sweep(t0.Add(25 * time.Hour)); n != 1 {
		t.Fatalf("game not removed after 24 hours of inactivity")
	}
	if _, err := h.Get(context.Background(), g.ID); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected not found without a store, got %v", err)
	}
}

func TestGetUnknownGame(t *testing.T) {
	h := NewHub(nil)
	if _, err := h.Get(context.Background(), uuid.New()); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestOwnerAndClientColorAssignment(t *testing.T) {
	h := NewHub(nil)
	g, err := h.Create(context.Background(), engine.Settings{}, "owner", t0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if g.OwnerID != "owner" {
		t.Fatalf("expected owner id to be set")
	}
	ownerColor := g.OwnerColor
	if !ownerColor.Valid() {
		t.Fatalf("random side not resolved: %q", ownerColor)
	}
	if c, ok := g.Clients["owner"]; !ok || c != ownerColor {
		t.Fatalf("owner not recorded with correct color")
	}

	_, c2, err := h.Join(context.Background(), g.ID, "client2", t0)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if c2 == nil || *c2 != ownerColor.Opponent() {
		t.Fatalf("expected client2 color %v, got %v", ownerColor.Opponent(), c2)
	}
	if _, c3, _ := h.Join(context.Background(), g.ID, "client3", t0); c3 != nil {
		t.Fatalf("expected spectator for third client")
	}
	if _, again, _ := h.Join(context.Background(), g.ID, "client2", t0); again == nil || *again != *c2 {
		t.Fatalf("rejoining changed the seat")
	}
}

func TestFirstJoinerOwnsUnownedGame(t *testing.T) {
	h := NewHub(nil)
	g, err := h.Create(context.Background(), engine.Settings{Side: "black"}, "", t0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	c := g.Join(context.Background(), "c1", t0)
	if c == nil || *c != engine.Black || g.OwnerID != "c1" {
		t.Fatalf("first joiner should own the game as black, got %v owner %q", c, g.OwnerID)
	}
}

func TestCreateRejectsBadSettings(t *testing.T) {
	h := NewHub(nil)
	if _, err := h.Create(context.Background(), engine.Settings{TimeControl: "1+0"}, "o", t0); !errors.Is(err, engine.ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
}

func TestImport(t *testing.T) {
	h := NewHub(nil)
	g, err := h.Import(context.Background(), "4k3/8/8/8/8/8/4P3/4K3 b - - 0 1", engine.Settings{Side: "white"}, "o", t0)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if v := g.ClientView(""); v.Turn != engine.Black {
		t.Fatalf("imported turn = %s", v.Turn)
	}
	if _, err := h.Import(context.Background(), "nonsense", engine.Settings{}, "o", t0); !errors.Is(err, engine.ErrInvalidFEN) {
		t.Fatalf("expected ErrInvalidFEN, got %v", err)
	}
}

func TestTouchKeepsGameLive(t *testing.T) {
	h := NewHub(nil)
	g, err := h.Create(context.Background(), engine.Settings{}, "o", t0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	g.Touch(context.Background(), t0.Add(20*time.Hour))
	if n := h.Sweep(t0.Add(30 * time.Hour)); n != 0 {
		t.Fatalf("touched game swept")
	}
	if v := g.ClientView("o"); v.LastSeen != t0.Add(20*time.Hour).UnixMilli() {
		t.Fatalf("last seen = %d", v.LastSeen)
	}
}
