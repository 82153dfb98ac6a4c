package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"chessrules/internal/engine"
	"chessrules/internal/game"
	"chessrules/internal/logging"
)

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err as {"ok": false, "error", "field"} and attaches
// state when given.
func writeError(w http.ResponseWriter, status int, err error, state any) {
	body := map[string]any{"ok": false, "error": err.Error()}
	if field := errorField(err); field != "" {
		body["field"] = field
	}
	if state != nil {
		body["state"] = state
	}
	WriteJSON(w, status, body)
}

// errorField names the request field an error belongs to.
func errorField(err error) string {
	var me *engine.MoveError
	switch {
	case errors.As(err, &me):
		return me.Field
	case errors.Is(err, engine.ErrInvalidSquare), errors.Is(err, engine.ErrIllegalMove):
		return "move"
	case errors.Is(err, engine.ErrInvalidFEN):
		return "fen"
	case errors.Is(err, engine.ErrInvalidSettings):
		return "settings"
	case errors.Is(err, game.ErrUnknownClient), errors.Is(err, game.ErrNotOwner):
		return "clientId"
	case errors.Is(err, game.ErrWrongColor), errors.Is(err, game.ErrNotYourTurn):
		return "from"
	}
	return ""
}

// isPromotionToLastRank checks if a 4-character UCI move is a promotion to the last rank
func isPromotionToLastRank(uci string) bool {
	if len(uci) != 4 {
		return false
	}
	to := uci[2:]
	return to[1] == '1' || to[1] == '8'
}

// LogRequests logs each request with its duration when debug logging is on.
func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Debugf("%s %s from %s in %s", r.Method, r.URL.Path, ClientIP(r), time.Since(start))
	})
}
