package game

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"chessrules/internal/engine"
	"chessrules/internal/storage"
)

// Errors returned by seat and turn checks.
var (
	ErrGameNotFound  = errors.New("game not found")
	ErrUnknownClient = errors.New("unknown client")
	ErrWrongColor    = errors.New("wrong color")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrNotOwner      = errors.New("only the owner can release seats")
)

// Hub manages all active chess games
type Hub struct {
	Mu    sync.Mutex
	Games map[uuid.UUID]*Game
	Store *storage.Store
}

// Game is a live game: its engine state, seats and watchers. All fields are
// guarded by Mu.
type Game struct {
	Mu         sync.Mutex
	ID         uuid.UUID
	state      engine.GameState
	Watchers   map[chan []byte]struct{}
	LastSeen   time.Time
	OwnerID    string
	OwnerColor engine.Color
	Clients    map[string]engine.Color // clientId -> color

	store *storage.Store
}

// StateView is the state pushed to watchers and returned by handlers.
type StateView struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
	engine.GameState
	engine.Captures
	FEN      string       `json:"fen"`
	Turn     engine.Color `json:"turn"`
	Status   string       `json:"status"`
	LastSeen int64        `json:"lastSeen"`
	Watchers int          `json:"watchers"`
}

// ClientState represents the state sent to a specific client, including their color
type ClientState struct {
	StateView
	Color    *engine.Color `json:"color"`
	Role     string        `json:"role"`
	ClientID string        `json:"clientId"`
}
