package engine

import (
	"fmt"
	"strings"
)

// Mode is the firing policy.
type Mode int

const (
	// FireOnce activates the target once per run.
	FireOnce Mode = iota
	// FirePerForegroundEntry activates once each time the target app comes to the foreground.
	FirePerForegroundEntry
	// Continuous activates on every tick the target is present.
	Continuous
)

func (m Mode) String() string {
	switch m {
	case FireOnce:
		return "once"
	case FirePerForegroundEntry:
		return "per-entry"
	case Continuous:
		return "continuous"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a flag or config value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "once", "fire-once":
		return FireOnce, nil
	case "per-entry", "per-foreground-entry", "entry":
		return FirePerForegroundEntry, nil
	case "continuous", "always":
		return Continuous, nil
	default:
		return FireOnce, fmt.Errorf("unknown firing mode: %q (expected once, per-entry, or continuous)", s)
	}
}

// FiringState is the firing-policy state of one run. It is a plain value:
// transitions return the new state.
type FiringState struct {
	Mode          Mode `yaml:"mode"            json:"mode"`
	FiredForEntry bool `yaml:"fired_for_entry" json:"fired_for_entry"`
	Cancelled     bool `yaml:"cancelled"       json:"cancelled"`
}

// NewFiringState returns the initial state for a mode.
func NewFiringState(mode Mode) FiringState {
	return FiringState{Mode: mode}
}

// ShouldScan reports whether a tick may scan and act.
func (s FiringState) ShouldScan() bool {
	if s.Cancelled {
		return false
	}
	if s.Mode == Continuous {
		return true
	}
	return !s.FiredForEntry
}

// Entered applies a transition of the target app into the foreground.
// Only per-entry mode re-arms; fire-once stays consumed.
func (s FiringState) Entered() FiringState {
	if s.Mode == FirePerForegroundEntry {
		s.FiredForEntry = false
	}
	return s
}

// Activated records a successful activation.
func (s FiringState) Activated() FiringState {
	if s.Mode != Continuous {
		s.FiredForEntry = true
	}
	return s
}

// Cancel marks the run as cancelled.
func (s FiringState) Cancel() FiringState {
	s.Cancelled = true
	return s
}

// MarshalText encodes the mode by name in YAML, JSON and TOML.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses a mode name.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
