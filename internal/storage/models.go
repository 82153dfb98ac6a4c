package storage

import (
	"time"

	"github.com/google/uuid"
)

// Game is a stored game row. State holds the engine snapshot as JSON with
// the legal-move list stripped.
type Game struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	State       string    `gorm:"type:jsonb"`
	FEN         string
	OwnerID     string `gorm:"index"`
	OwnerColor  string
	Status      string `gorm:"index"`
	Result      string
	Active      bool `gorm:"index"`
	CompletedAt *time.Time
	LastSeen    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Seats       []Seat
	Moves       []Move
}

// Seat links a client to the color it plays in a game.
type Seat struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GameID    uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_game_client"`
	ClientID  string    `gorm:"uniqueIndex:idx_game_client"`
	Color     string
	Active    bool
	LastSeen  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Move stores a single applied move.
type Move struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GameID    uuid.UUID `gorm:"type:uuid;index"`
	ClientID  string
	Number    int
	UCI       string
	Notation  string
	Color     string
	CreatedAt time.Time
}
