package engine

import (
	"context"
	"log/slog"

	"github.com/mj1618/autotap/internal/platform"
)

// Invoker activates matched candidates.
type Invoker struct {
	activator platform.Activator
	logger    *slog.Logger
}

// NewInvoker creates an invoker over the platform activation channel.
func NewInvoker(activator platform.Activator, logger *slog.Logger) *Invoker {
	return &Invoker{activator: activator, logger: logger}
}

// Activate issues one activation on the candidate's element and reports
// whether the platform acknowledged it. The element is re-checked first
// because the tree may change between scan and act. No retries.
func (inv *Invoker) Activate(ctx context.Context, c Candidate) bool {
	el := c.Element
	if el == nil || !el.Interactive {
		inv.logger.Debug("matched element is no longer interactive", "label", c.Label)
		return false
	}
	if inv.activator == nil {
		inv.logger.Warn("no activation channel available")
		return false
	}
	ok, err := inv.activator.Activate(ctx, el)
	if err != nil {
		inv.logger.Warn("activation failed", "label", c.Label, "error", err)
		return false
	}
	return ok
}
