package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"chessrules/internal/engine"
)

// Store wraps a gorm DB and persists games. A nil *Store is valid and
// turns every write into a no-op, so the server can run without a database.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store from a gorm DB.
func NewStore(db *gorm.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// ErrNotFound is returned when a record is not found.
var ErrNotFound = gorm.ErrRecordNotFound

// Game row status values.
const (
	StatusActive   = "active"
	StatusFinished = "finished"
)

// EncodeState serializes a state for storage, without its legal moves.
func EncodeState(state engine.GameState) (string, error) {
	data, err := json.Marshal(engine.StripPossibleMoves(state))
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	return string(data), nil
}

// DecodeState parses a stored state and rebuilds its derived fields.
func DecodeState(raw string) (engine.GameState, error) {
	var state engine.GameState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return engine.GameState{}, fmt.Errorf("decode state: %w", err)
	}
	return engine.Hydrate(state), nil
}

// ResultText renders a result for the row's Result column, e.g.
// "black by checkmate". Ongoing games give "".
func ResultText(r *engine.Result) string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("%s by %s", r.Winner, r.Reason)
}

// CreateGame inserts a new game row with its initial state.
func (s *Store) CreateGame(ctx context.Context, id uuid.UUID, ownerID string, ownerColor engine.Color, state engine.GameState, now time.Time) error {
	if s == nil {
		return nil
	}
	raw, err := EncodeState(state)
	if err != nil {
		return err
	}
	game := Game{
		ID:         id,
		State:      raw,
		FEN:        state.FEN(),
		OwnerID:    ownerID,
		OwnerColor: string(ownerColor),
		Status:     StatusActive,
		Active:     true,
		LastSeen:   now,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&game).Error
}

// SaveState writes a new snapshot of the game. A state with a result also
// marks the row finished.
func (s *Store) SaveState(ctx context.Context, id uuid.UUID, state engine.GameState, now time.Time) error {
	if s == nil {
		return nil
	}
	raw, err := EncodeState(state)
	if err != nil {
		return err
	}
	updates := map[string]any{
		"state":     raw,
		"fen":       state.FEN(),
		"result":    ResultText(state.Result),
		"last_seen": now,
	}
	if state.Result != nil {
		updates["status"] = StatusFinished
		updates["active"] = false
		updates["completed_at"] = now
	} else {
		updates["status"] = StatusActive
		updates["active"] = true
		updates["completed_at"] = nil
	}
	return s.db.WithContext(ctx).Model(&Game{}).Where("id = ?", id).Updates(updates).Error
}

// EnsureSeat upserts the seat a client holds in a game.
func (s *Store) EnsureSeat(ctx context.Context, gameID uuid.UUID, clientID string, color engine.Color, lastSeen time.Time) error {
	if s == nil {
		return nil
	}
	seat := Seat{
		GameID:   gameID,
		ClientID: clientID,
		Color:    string(color),
		Active:   true,
		LastSeen: lastSeen,
	}
	return s.db.WithContext(ctx).
		Where("game_id = ? AND client_id = ?", gameID, clientID).
		Assign(map[string]any{
			"color":     string(color),
			"active":    true,
			"last_seen": lastSeen,
		}).
		FirstOrCreate(&seat).Error
}

// DeactivateSeat marks a client's seat as released.
func (s *Store) DeactivateSeat(ctx context.Context, gameID uuid.UUID, clientID string) error {
	if s == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&Seat{}).
		Where("game_id = ? AND client_id = ?", gameID, clientID).
		Updates(map[string]any{"active": false}).Error
}

// RecordMove inserts a move row. number is the 1-based ply.
func (s *Store) RecordMove(ctx context.Context, gameID uuid.UUID, clientID string, number int, m engine.Move, color engine.Color) error {
	if s == nil {
		return nil
	}
	move := Move{
		GameID:   gameID,
		ClientID: clientID,
		Number:   number,
		UCI:      m.UCI(),
		Notation: m.String(),
		Color:    string(color),
	}
	return s.db.WithContext(ctx).Create(&move).Error
}

// ClearMoves deletes the move rows of a game, used when it restarts.
func (s *Store) ClearMoves(ctx context.Context, gameID uuid.UUID) error {
	if s == nil {
		return nil
	}
	return s.db.WithContext(ctx).Where("game_id = ?", gameID).Delete(&Move{}).Error
}

// PersistedGame is a loaded game row with its decoded state and seats.
type PersistedGame struct {
	Game  Game
	State engine.GameState
	Seats []Seat
}

// LoadGame fetches a game, its hydrated state and its active seats.
func (s *Store) LoadGame(ctx context.Context, id uuid.UUID) (*PersistedGame, error) {
	if s == nil {
		return nil, ErrNotFound
	}
	var game Game
	if err := s.db.WithContext(ctx).First(&game, "id = ?", id).Error; err != nil {
		return nil, err
	}
	state, err := DecodeState(game.State)
	if err != nil {
		return nil, err
	}
	var seats []Seat
	if err := s.db.WithContext(ctx).
		Where("game_id = ? AND active = ?", id, true).
		Find(&seats).Error; err != nil {
		return nil, err
	}
	return &PersistedGame{Game: game, State: state, Seats: seats}, nil
}

// Stats represents aggregate counts for games.
type Stats struct {
	Started   int64 `json:"started"`
	Completed int64 `json:"completed"`
	Active    int64 `json:"active"`
}

// FetchStats aggregates game counts.
func (s *Store) FetchStats(ctx context.Context) (Stats, error) {
	var stats Stats
	if s == nil {
		return stats, nil
	}
	if err := s.db.WithContext(ctx).Model(&Game{}).Count(&stats.Started).Error; err != nil {
		return stats, err
	}
	if err := s.db.WithContext(ctx).Model(&Game{}).Where("active = ?", true).Count(&stats.Active).Error; err != nil {
		return stats, err
	}
	if err := s.db.WithContext(ctx).Model(&Game{}).Where("completed_at IS NOT NULL").Count(&stats.Completed).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

// UpdateLastSeen updates the last seen timestamp for a game.
func (s *Store) UpdateLastSeen(ctx context.Context, id uuid.UUID, lastSeen time.Time) error {
	if s == nil {
		return nil
	}
	return s.db.WithContext(ctx).Model(&Game{}).Where("id = ?", id).Update("last_seen", lastSeen).Error
}
