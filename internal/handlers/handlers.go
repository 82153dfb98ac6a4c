package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"chessrules/internal/engine"
	"chessrules/internal/game"
	"chessrules/internal/logging"
	"chessrules/pkg/utils"

	"github.com/corentings/chess/v2"
	"github.com/google/uuid"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	Hub     *game.Hub
	Version string
	Now     func() time.Time
}

// NewHandler creates a new handler instance
func NewHandler(hub *game.Hub, version string) *Handler {
	return &Handler{Hub: hub, Version: version, Now: time.Now}
}

// NewRequest is the body of /new and /import.
type NewRequest struct {
	engine.Settings
	FEN      string `json:"fen,omitempty"`
	ClientID string `json:"clientId"`
}

// MoveRequest represents a move request from a client. Either UCI or
// From and To are set.
type MoveRequest struct {
	UCI       string `json:"uci"`
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion"`
	ClientID  string `json:"clientId"`
}

// ActionRequest asks for an administrative action.
type ActionRequest struct {
	Action   string `json:"action"`
	ClientID string `json:"clientId"`
}

// ReleaseRequest lets the owner free a seat.
type ReleaseRequest struct {
	ClientID string `json:"clientId"`
	TargetID string `json:"targetId"`
}

// HandleNew creates a new game owned by the requesting client
func (h *Handler) HandleNew(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSON(w, http.StatusMethodNotAllowed, map[string]any{"ok": false, "error": "method not allowed"})
		return
	}
	body, ok := decodeNew(w, r)
	if !ok {
		return
	}
	g, err := h.Hub.Create(r.Context(), body.Settings, body.ClientID, h.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err, nil)
		return
	}
	logging.Debugf("New game %s for %s (%s)", g.ID, body.ClientID, ClientIP(r))
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "id": g.ID.String(), "state": g.ClientView(body.ClientID)})
}

// HandleImport creates a game from a FEN position
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSON(w, http.StatusMethodNotAllowed, map[string]any{"ok": false, "error": "method not allowed"})
		return
	}
	body, ok := decodeNew(w, r)
	if !ok {
		return
	}
	fen := strings.TrimSpace(body.FEN)
	if _, err := chess.FEN(fen); err != nil {
		logging.Debugf("Rejected FEN %q: %v", fen, err)
		WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad fen", "field": "fen"})
		return
	}
	g, err := h.Hub.Import(r.Context(), fen, body.Settings, body.ClientID, h.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err, nil)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "id": g.ID.String(), "state": g.ClientView(body.ClientID)})
}

func decodeNew(w http.ResponseWriter, r *http.Request) (NewRequest, bool) {
	var body NewRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad json"})
			return body, false
		}
	}
	body.ClientID = strings.TrimSpace(body.ClientID)
	if body.ClientID == "" {
		body.ClientID = utils.NewClientID()
	}
	return body, true
}

// HandleState returns the current state with the clock synced
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	g, ok := h.lookup(w, r, "/state/")
	if !ok {
		return
	}
	clientID := r.URL.Query().Get("clientId")
	g.Sync(r.Context(), h.Now())
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "state": g.ClientView(clientID)})
}

// HandleSSE handles Server-Sent Events for real-time game updates
func (h *Handler) HandleSSE(w http.ResponseWriter, r *http.Request) {
	g, ok := h.lookup(w, r, "/sse/")
	if !ok {
		return
	}
	clientID := r.URL.Query().Get("clientId")
	g.Join(r.Context(), clientID, h.Now())

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan []byte, 16)
	g.AddWatcher(ch)
	defer g.RemoveWatcher(ch)

	g.Sync(r.Context(), h.Now())
	initial, _ := json.Marshal(g.ClientView(clientID))
	_, _ = fmt.Fprintf(w, "data: %s\n\n", initial)
	flusher.Flush()

	g.Touch(r.Context(), h.Now())
	go g.Broadcast()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// heartbeat
			_, _ = w.Write([]byte("data: {}\n\n"))
			flusher.Flush()
		case msg := <-ch:
			_, _ = w.Write([]byte("data: "))
			_, _ = w.Write(msg)
			_, _ = w.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
}

// HandleMove processes a chess move
func (h *Handler) HandleMove(w http.ResponseWriter, r *http.Request) {
	g, ok := h.lookup(w, r, "/move/")
	if !ok {
		return
	}

	var m MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad json"})
		return
	}

	clientID := strings.TrimSpace(m.ClientID)
	if clientID == "" {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "missing client id", "field": "clientId"})
		return
	}

	uci := strings.ToLower(strings.TrimSpace(m.UCI))
	if uci == "" {
		uci = strings.ToLower(strings.TrimSpace(m.From) + strings.TrimSpace(m.To) + strings.TrimSpace(m.Promotion))
	}
	uci = appendPromotionIfPawn(g, uci)

	req, err := engine.ParseUCI(uci)
	if err != nil {
		writeError(w, http.StatusBadRequest, err, nil)
		return
	}

	g.Touch(r.Context(), h.Now())
	state, err := g.MakeMove(r.Context(), clientID, req, h.Now())
	if err != nil {
		logging.Debugf("Move %s by %s rejected: %v", uci, clientID, err)
		if errors.Is(err, engine.ErrTimeout) {
			go g.Broadcast()
		}
		writeError(w, http.StatusOK, err, state)
		return
	}

	go g.Broadcast()
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "state": state})
}

// HandleAction processes draw offers, resignations and restarts
func (h *Handler) HandleAction(w http.ResponseWriter, r *http.Request) {
	g, ok := h.lookup(w, r, "/action/")
	if !ok {
		return
	}

	var body ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad json"})
		return
	}
	action, err := engine.ParseAction(strings.TrimSpace(body.Action))
	if err != nil {
		writeError(w, http.StatusBadRequest, err, nil)
		return
	}

	state, err := g.Act(r.Context(), strings.TrimSpace(body.ClientID), action, h.Now())
	if err != nil {
		if errors.Is(err, engine.ErrTimeout) {
			go g.Broadcast()
		}
		writeError(w, http.StatusOK, err, state)
		return
	}

	go g.Broadcast()
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "state": state})
}

// HandleRelease lets the owner free another client's seat
func (h *Handler) HandleRelease(w http.ResponseWriter, r *http.Request) {
	g, ok := h.lookup(w, r, "/release/")
	if !ok {
		return
	}

	var body ReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad json"})
		return
	}
	if err := g.Release(r.Context(), strings.TrimSpace(body.ClientID), strings.TrimSpace(body.TargetID)); err != nil {
		writeError(w, http.StatusOK, err, nil)
		return
	}

	go g.Broadcast()
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// HandleStats reports game counts from the store
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Hub.Store.FetchStats(r.Context())
	if err != nil {
		WriteJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "stats": stats})
}

// HandleHealth reports liveness and the running build
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "version": h.Version})
}

// lookup resolves the game id that follows prefix in the request path.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request, prefix string) (*game.Game, bool) {
	id, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, prefix))
	if err != nil {
		WriteJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": game.ErrGameNotFound.Error()})
		return nil, false
	}
	g, err := h.Hub.Get(r.Context(), id)
	if errors.Is(err, game.ErrGameNotFound) {
		WriteJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": err.Error()})
		return nil, false
	}
	if err != nil {
		WriteJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": err.Error()})
		return nil, false
	}
	return g, true
}

// appendPromotionIfPawn auto-queens a bare pawn move to the last rank.
func appendPromotionIfPawn(g *game.Game, uci string) string {
	if !isPromotionToLastRank(uci) {
		return uci
	}
	from, err := engine.ParseSquare(uci[:2])
	if err != nil {
		return uci
	}
	if g.State().Board.Pieces[from].Type == engine.Pawn {
		return uci + string(engine.Queen)
	}
	return uci
}

// ClientIP extracts the client IP from the request
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
