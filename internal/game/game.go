package game

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"chessrules/internal/engine"
	"chessrules/internal/logging"
	"chessrules/internal/storage"
)

func newGame(id uuid.UUID, state engine.GameState, store *storage.Store, now time.Time) *Game {
	return &Game{
		ID:       id,
		state:    state,
		Watchers: make(map[chan []byte]struct{}),
		Clients:  make(map[string]engine.Color),
		LastSeen: now,
		store:    store,
	}
}

// Touch updates the last seen timestamp for a game and its stored row.
func (g *Game) Touch(ctx context.Context, now time.Time) {
	g.Mu.Lock()
	g.LastSeen = now
	g.Mu.Unlock()
	if err := g.store.UpdateLastSeen(ctx, g.ID, now); err != nil {
		log.Printf("touch %s: %v", g.ID, err)
	}
}

// State returns a copy of the engine state.
func (g *Game) State() engine.GameState {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return engine.Hydrate(g.state)
}

// Join seats clientID. The owner keeps their color, the next client takes
// the other one and everyone after that watches. Returns nil for spectators.
func (g *Game) Join(ctx context.Context, clientID string, now time.Time) *engine.Color {
	if clientID == "" {
		return nil
	}
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if c, ok := g.Clients[clientID]; ok {
		return &c
	}

	var color engine.Color
	switch {
	case g.OwnerID == "" && len(g.Clients) == 0:
		if !g.OwnerColor.Valid() {
			g.OwnerColor = engine.White
		}
		g.OwnerID = clientID
		color = g.OwnerColor
	default:
		color = g.freeColorLocked()
		if color == "" {
			return nil
		}
	}
	g.Clients[clientID] = color
	if err := g.store.EnsureSeat(ctx, g.ID, clientID, color, now); err != nil {
		log.Printf("seat %s in %s: %v", clientID, g.ID, err)
	}
	logging.Debugf("Client %s joined %s as %s", clientID, g.ID, color)
	return &color
}

// freeColorLocked returns a color nobody holds, owner's opponent first.
func (g *Game) freeColorLocked() engine.Color {
	taken := map[engine.Color]bool{}
	for _, c := range g.Clients {
		taken[c] = true
	}
	preferred := engine.White
	if g.OwnerColor.Valid() {
		preferred = g.OwnerColor.Opponent()
	}
	for _, c := range []engine.Color{preferred, preferred.Opponent()} {
		if !taken[c] {
			return c
		}
	}
	return ""
}

// RemoveClient frees the seat held by clientID. Removing the owner clears
// ownership.
func (g *Game) RemoveClient(clientID string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	delete(g.Clients, clientID)
	if g.OwnerID == clientID {
		g.OwnerID = ""
	}
}

// Release lets the owner free another client's seat.
func (g *Game) Release(ctx context.Context, requesterID, targetID string) error {
	g.Mu.Lock()
	owner := g.OwnerID
	g.Mu.Unlock()
	if requesterID == "" || requesterID != owner {
		return ErrNotOwner
	}
	g.RemoveClient(targetID)
	if err := g.store.DeactivateSeat(ctx, g.ID, targetID); err != nil {
		log.Printf("release %s in %s: %v", targetID, g.ID, err)
	}
	return nil
}

// ViewLocked builds the outgoing view (must be called with lock held)
func (g *Game) ViewLocked() StateView {
	state := engine.Hydrate(g.state)
	return StateView{
		Kind:      "state",
		ID:        g.ID.String(),
		GameState: state,
		Captures:  state.Captured(),
		FEN:       state.FEN(),
		Turn:      state.SideToMove(),
		Status:    storage.ResultText(state.Result),
		LastSeen:  g.LastSeen.UnixMilli(),
		Watchers:  len(g.Watchers),
	}
}

// ClientView wraps the current view with the seat of clientID.
func (g *Game) ClientView(clientID string) ClientState {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	cs := ClientState{StateView: g.ViewLocked(), Role: "spectator", ClientID: clientID}
	if c, ok := g.Clients[clientID]; ok {
		cs.Color = &c
		cs.Role = "player"
	}
	return cs
}

// Sync runs the clock against now. A flag fall is persisted.
func (g *Game) Sync(ctx context.Context, now time.Time) StateView {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	wasOver := g.state.Finished()
	g.state = engine.SyncClock(g.state, now)
	if !wasOver && g.state.Finished() {
		logging.Debugf("Game %s: flag fell, %s", g.ID, storage.ResultText(g.state.Result))
		g.saveLocked(ctx, now)
	}
	return g.ViewLocked()
}

// MakeMove plays req for clientID after checking the seat, the piece color
// and the turn. On ErrTimeout the timed-out state is kept and returned.
func (g *Game) MakeMove(ctx context.Context, clientID string, req engine.MoveRequest, now time.Time) (StateView, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	color, ok := g.Clients[clientID]
	if !ok {
		return g.ViewLocked(), ErrUnknownClient
	}
	if !req.From.Valid() {
		return g.ViewLocked(), &engine.MoveError{Err: engine.ErrInvalidSquare, Field: "from", Message: "Invalid square."}
	}
	piece := g.state.Board.Pieces[req.From]
	if piece.Empty() || piece.Color != color {
		return g.ViewLocked(), ErrWrongColor
	}
	if g.state.SideToMove() != color {
		return g.ViewLocked(), ErrNotYourTurn
	}

	g.LastSeen = now
	next, err := engine.ApplyMove(g.state, req, now)
	if errors.Is(err, engine.ErrTimeout) {
		g.state = next
		g.saveLocked(ctx, now)
		return g.ViewLocked(), err
	}
	if err != nil {
		return g.ViewLocked(), err
	}
	g.state = next

	played := next.Moves[len(next.Moves)-1]
	logging.Debugf("Game %s: %s played %s, castling %+v", g.ID, color, played, next.Castling)
	if err := g.store.RecordMove(ctx, g.ID, clientID, len(next.Moves), played, color); err != nil {
		log.Printf("record move %s: %v", g.ID, err)
	}
	g.saveLocked(ctx, now)
	return g.ViewLocked(), nil
}

// Act performs an administrative action for a seated client.
func (g *Game) Act(ctx context.Context, clientID string, action engine.Action, now time.Time) (StateView, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	color, ok := g.Clients[clientID]
	if !ok {
		return g.ViewLocked(), ErrUnknownClient
	}
	g.LastSeen = now
	next, err := engine.ApplyAction(g.state, action, color, now)
	if errors.Is(err, engine.ErrTimeout) {
		g.state = next
		g.saveLocked(ctx, now)
		return g.ViewLocked(), err
	}
	if err != nil {
		return g.ViewLocked(), err
	}
	g.state = next

	if action == engine.ActionRestart {
		if err := g.store.ClearMoves(ctx, g.ID); err != nil {
			log.Printf("clear moves %s: %v", g.ID, err)
		}
		logging.Debugf("Game %s reset - FEN: %s", g.ID, next.FEN())
	} else {
		logging.Debugf("Game %s: %s by %s", g.ID, action, color)
	}
	g.saveLocked(ctx, now)
	return g.ViewLocked(), nil
}

func (g *Game) saveLocked(ctx context.Context, now time.Time) {
	if err := g.store.SaveState(ctx, g.ID, g.state, now); err != nil {
		log.Printf("save game %s: %v", g.ID, err)
	}
}

// Broadcast sends the current game state to all watchers
func (g *Game) Broadcast() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	data, err := json.Marshal(g.ViewLocked())
	if err != nil {
		log.Printf("encode state %s: %v", g.ID, err)
		return
	}
	for ch := range g.Watchers {
		select {
		case ch <- data:
		default:
		}
	}
}

// AddWatcher adds a new watcher channel
func (g *Game) AddWatcher(ch chan []byte) {
	g.Mu.Lock()
	g.Watchers[ch] = struct{}{}
	g.Mu.Unlock()
}

// RemoveWatcher removes a watcher channel
func (g *Game) RemoveWatcher(ch chan []byte) {
	g.Mu.Lock()
	delete(g.Watchers, ch)
	g.Mu.Unlock()
}
