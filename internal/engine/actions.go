package engine

import (
	"fmt"
	"time"
)

// Action is an administrative, non-move operation on a game.
type Action string

const (
	ActionOfferDraw   Action = "offer-draw"
	ActionAcceptDraw  Action = "accept-draw"
	ActionDeclineDraw Action = "decline-draw"
	ActionResign      Action = "resign"
	ActionRestart     Action = "restart"
)

// ParseAction validates an action name.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionOfferDraw, ActionAcceptDraw, ActionDeclineDraw, ActionResign, ActionRestart:
		return a, nil
	}
	return "", fieldError("action", fmt.Errorf("%w: %q", ErrUnknownAction, s), "Unknown action.")
}

// ApplyAction performs a draw offer, draw answer, resignation or restart.
// side names who acts; offer-draw and resign require it.
//
// Restart is allowed on finished games and builds a fresh state from the
// same settings. Every other action fails on a finished game and syncs the
// clock first, returning the timed-out state with ErrTimeout if time ran out.
func ApplyAction(state GameState, action Action, side Color, now time.Time) (GameState, error) {
	if action == ActionRestart {
		settings := Settings{}
		if state.Settings != nil {
			settings = *state.Settings
		}
		return CreateGameState(settings, now)
	}
	if state.Result != nil {
		return GameState{}, fieldError("action", ErrGameFinished, "Game is already finished.")
	}
	if state.Clock != nil && !now.IsZero() {
		state = SyncClock(state, now)
		if state.Result != nil {
			return state, ErrTimeout
		}
	}
	if (action == ActionOfferDraw || action == ActionResign) && !side.Valid() {
		return GameState{}, fieldError("side", ErrSideRequired, "Side is required.")
	}

	s := Hydrate(state)
	pending := s.DrawOffer != nil && s.DrawOffer.Status == DrawOfferPending

	switch action {
	case ActionOfferDraw:
		if pending {
			return GameState{}, fieldError("action", ErrDrawOfferPending, "A draw offer is already pending.")
		}
		s.DrawOffer = &DrawOffer{From: side, Status: DrawOfferPending}
	case ActionAcceptDraw:
		if !pending || s.DrawOffer.From == side {
			return GameState{}, fieldError("action", ErrNoDrawOffer, "No draw offer to accept.")
		}
		s.finalize(Result{Winner: WinnerDraw, Reason: ReasonDraw})
	case ActionDeclineDraw:
		if !pending || s.DrawOffer.From == side {
			return GameState{}, fieldError("action", ErrNoDrawOffer, "No draw offer to decline.")
		}
		s.DrawOffer = nil
	case ActionResign:
		s.finalize(Result{Winner: WinnerOf(side.Opponent()), Reason: ReasonResign})
	default:
		return GameState{}, fieldError("action", fmt.Errorf("%w: %q", ErrUnknownAction, action), "Unknown action.")
	}
	return s, nil
}

// finalize ends the game with r, clearing any offer and the move list.
func (s *GameState) finalize(r Result) {
	s.Result = &r
	s.DrawOffer = nil
	s.Board.PossibleMoves = nil
}
