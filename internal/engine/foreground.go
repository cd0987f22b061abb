package engine

import (
	"context"

	"github.com/mj1618/autotap/internal/platform"
)

// ForegroundStatus is the result of one foreground check.
type ForegroundStatus struct {
	App     string // Foreground package, empty when unknown
	Active  bool   // Target application owns the foreground
	Entered bool   // Target became foreground since the previous check
	Err     error  // Why the foreground could not be determined
}

// ForegroundGate tracks whether the target application is in the foreground
// and detects transitions into it.
type ForegroundGate struct {
	tracker   platform.ForegroundTracker
	target    string
	wasActive bool
}

// NewForegroundGate creates a gate for the target application.
func NewForegroundGate(tracker platform.ForegroundTracker, target string) *ForegroundGate {
	return &ForegroundGate{tracker: tracker, target: target}
}

// Check queries the current foreground. An unknown foreground counts as
// "not the target" for this tick but is not a transition: the gate keeps the
// last known state so a failed query never produces an entry on its own.
func (g *ForegroundGate) Check(ctx context.Context) ForegroundStatus {
	var st ForegroundStatus
	if g.tracker != nil {
		st.App, st.Err = g.tracker.ForegroundApp(ctx)
	}
	st.Active = st.Err == nil && st.App != "" && st.App == g.target
	st.Entered = st.Active && !g.wasActive
	if st.Err == nil && st.App != "" {
		g.wasActive = st.Active
	}
	return st
}
