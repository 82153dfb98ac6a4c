package engine

import (
	"fmt"
	"time"
)

// TimeControl is a base allowance plus a per-move increment.
type TimeControl struct {
	Name      string
	Base      time.Duration
	Increment time.Duration
}

// DefaultTimeControl is used when settings name none or an unknown one.
const DefaultTimeControl = "10+5"

var timeControls = []TimeControl{
	{Name: "3+2", Base: 3 * time.Minute, Increment: 2 * time.Second},
	{Name: "5+0", Base: 5 * time.Minute},
	{Name: "10+5", Base: 10 * time.Minute, Increment: 5 * time.Second},
	{Name: "15+10", Base: 15 * time.Minute, Increment: 10 * time.Second},
}

// LookupTimeControl finds a preset by name.
func LookupTimeControl(name string) (TimeControl, bool) {
	for _, tc := range timeControls {
		if tc.Name == name {
			return tc, true
		}
	}
	return TimeControl{}, false
}

// Clock tracks each side's remaining seconds. Only the active side's time
// runs; LastTickAt is the epoch second it was last settled.
type Clock struct {
	White      int64 `json:"white"`
	Black      int64 `json:"black"`
	Active     Color `json:"active"`
	LastTickAt int64 `json:"lastTickAt"`
	Increment  int64 `json:"increment"`
}

// NewClock starts a clock for tc with white to move at now.
func NewClock(tc TimeControl, now time.Time) *Clock {
	base := int64(tc.Base / time.Second)
	return &Clock{
		White:      base,
		Black:      base,
		Active:     White,
		LastTickAt: now.Unix(),
		Increment:  int64(tc.Increment / time.Second),
	}
}

// Remaining returns c's remaining seconds.
func (c *Clock) Remaining(side Color) int64 {
	if side == White {
		return c.White
	}
	return c.Black
}

func (c *Clock) set(side Color, secs int64) {
	if side == White {
		c.White = secs
	} else {
		c.Black = secs
	}
}

// settle charges the active side for the time since LastTickAt and reports
// whether its time ran out.
func (c *Clock) settle(now time.Time) bool {
	elapsed := max(0, now.Unix()-c.LastTickAt)
	left := max(0, c.Remaining(c.Active)-elapsed)
	c.set(c.Active, left)
	c.LastTickAt = now.Unix()
	return left == 0
}

// credit adds the increment to the side that just moved and hands the
// clock to its opponent. It runs after the pre-move settle.
func (c *Clock) credit(mover Color, now time.Time) {
	c.set(mover, c.Remaining(mover)+c.Increment)
	c.Active = mover.Opponent()
	c.LastTickAt = now.Unix()
}

func (c *Clock) String() string {
	return fmt.Sprintf("white %s black %s (%s to move)", formatClock(c.White), formatClock(c.Black), c.Active)
}

func formatClock(secs int64) string {
	secs = max(0, secs)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// SyncClock settles the running side's time up to now. If the time has run
// out the result becomes a timeout loss for that side and the clock stops.
// Finished or untimed states come back unchanged.
func SyncClock(state GameState, now time.Time) GameState {
	s := state.clone()
	if s.Clock == nil || s.Result != nil {
		return s
	}
	if !s.Clock.Active.Valid() {
		s.Clock.Active = s.SideToMove()
	}
	if s.Clock.settle(now) {
		s.Result = &Result{Winner: WinnerOf(s.Clock.Active.Opponent()), Reason: ReasonTimeout}
		s.DrawOffer = nil
		s.Board.PossibleMoves = nil
	}
	return s
}
