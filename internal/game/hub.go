package game

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"chessrules/internal/engine"
	"chessrules/internal/logging"
	"chessrules/internal/storage"
	"chessrules/pkg/utils"
)

// IdleTimeout is how long a game stays in memory without activity.
const IdleTimeout = 24 * time.Hour

// NewHub creates a new game hub with cleanup goroutine. store may be nil.
func NewHub(store *storage.Store) *Hub {
	h := &Hub{Games: make(map[uuid.UUID]*Game), Store: store}
	// cleanup goroutine
	go func() {
		for {
			time.Sleep(5 * time.Minute)
			if n := h.Sweep(time.Now()); n > 0 {
				logging.Debugf("Swept %d idle games", n)
			}
		}
	}()
	return h
}

// Sweep drops games idle for longer than IdleTimeout and reports how many
// were removed. Stored games can still be loaded again through Get.
func (h *Hub) Sweep(now time.Time) int {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	removed := 0
	for id, g := range h.Games {
		g.Mu.Lock()
		idle := now.Sub(g.LastSeen) > IdleTimeout
		g.Mu.Unlock()
		if idle {
			delete(h.Games, id)
			removed++
		}
	}
	return removed
}

// Create starts a new game owned by ownerID. A random side is resolved here
// and becomes the owner's color.
func (h *Hub) Create(ctx context.Context, settings engine.Settings, ownerID string, now time.Time) (*Game, error) {
	settings, err := settings.Normalize()
	if err != nil {
		return nil, err
	}
	state, err := engine.CreateGameState(settings, now)
	if err != nil {
		return nil, err
	}
	return h.register(ctx, state, ownerID, now)
}

// Import starts a new game from a FEN position.
func (h *Hub) Import(ctx context.Context, fen string, settings engine.Settings, ownerID string, now time.Time) (*Game, error) {
	settings, err := settings.Normalize()
	if err != nil {
		return nil, err
	}
	state, err := engine.FromFEN(fen, settings, now)
	if err != nil {
		return nil, err
	}
	return h.register(ctx, state, ownerID, now)
}

func (h *Hub) register(ctx context.Context, state engine.GameState, ownerID string, now time.Time) (*Game, error) {
	ownerColor := resolveSide(state.Settings)
	g := newGame(uuid.New(), state, h.Store, now)
	g.OwnerColor = ownerColor
	if ownerID != "" {
		g.OwnerID = ownerID
		g.Clients[ownerID] = ownerColor
	}

	if err := h.Store.CreateGame(ctx, g.ID, ownerID, ownerColor, state, now); err != nil {
		log.Printf("create game %s: %v", g.ID, err)
	}
	if ownerID != "" {
		if err := h.Store.EnsureSeat(ctx, g.ID, ownerID, ownerColor, now); err != nil {
			log.Printf("seat owner %s: %v", g.ID, err)
		}
	}

	h.Mu.Lock()
	h.Games[g.ID] = g
	h.Mu.Unlock()
	logging.Debugf("Game %s created - FEN: %s, owner color: %s", g.ID, state.FEN(), ownerColor)
	return g, nil
}

// Get returns a live game, loading it from the store when it is not in
// memory.
func (h *Hub) Get(ctx context.Context, id uuid.UUID) (*Game, error) {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	if g, ok := h.Games[id]; ok {
		return g, nil
	}
	pg, err := h.Store.LoadGame(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	g := newGame(id, pg.State, h.Store, time.Now())
	g.OwnerID = pg.Game.OwnerID
	g.OwnerColor = engine.Color(pg.Game.OwnerColor)
	for _, seat := range pg.Seats {
		g.Clients[seat.ClientID] = engine.Color(seat.Color)
	}
	h.Games[id] = g
	logging.Debugf("Game %s loaded from store with %d seats", id, len(pg.Seats))
	return g, nil
}

// Join fetches a game and seats clientID in it. The returned color is nil
// for spectators.
func (h *Hub) Join(ctx context.Context, id uuid.UUID, clientID string, now time.Time) (*Game, *engine.Color, error) {
	g, err := h.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return g, g.Join(ctx, clientID, now), nil
}

// resolveSide turns the side setting into a concrete color.
func resolveSide(settings *engine.Settings) engine.Color {
	if settings != nil {
		if c := engine.Color(settings.Side); c.Valid() {
			return c
		}
	}
	if utils.CoinFlip() {
		return engine.White
	}
	return engine.Black
}
