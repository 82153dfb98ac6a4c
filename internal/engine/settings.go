package engine

import "fmt"

const (
	SideRandom      = "random"
	VariantStandard = "standard"
)

// Settings are the options a game is created with.
type Settings struct {
	Side        string `json:"side"`
	TimeControl string `json:"timeControl"`
	Variant     string `json:"variant"`
}

// Normalize fills defaults and rejects values outside the allowed sets.
func (s Settings) Normalize() (Settings, error) {
	if s.Side == "" {
		s.Side = SideRandom
	}
	if s.TimeControl == "" {
		s.TimeControl = DefaultTimeControl
	}
	if s.Variant == "" {
		s.Variant = VariantStandard
	}
	if s.Side != SideRandom && !Color(s.Side).Valid() {
		return s, fmt.Errorf("%w: side %q", ErrInvalidSettings, s.Side)
	}
	if _, ok := LookupTimeControl(s.TimeControl); !ok {
		return s, fmt.Errorf("%w: time control %q", ErrInvalidSettings, s.TimeControl)
	}
	if s.Variant != VariantStandard {
		return s, fmt.Errorf("%w: variant %q", ErrInvalidSettings, s.Variant)
	}
	return s, nil
}

// Control returns the preset for the settings, falling back to the default.
func (s Settings) Control() TimeControl {
	if tc, ok := LookupTimeControl(s.TimeControl); ok {
		return tc
	}
	tc, _ := LookupTimeControl(DefaultTimeControl)
	return tc
}
