package android

import (
	"context"
	"fmt"

	"github.com/mj1618/autotap/internal/model"
)

// ActionPerformer implements platform.Activator by tapping the element's
// center with `input tap`.
type ActionPerformer struct {
	client *Client
}

// NewActionPerformer creates an activator for the device.
func NewActionPerformer(client *Client) *ActionPerformer {
	return &ActionPerformer{client: client}
}

// Activate taps the element. The tap is acknowledged when adb exits cleanly.
func (p *ActionPerformer) Activate(ctx context.Context, el *model.Element) (bool, error) {
	if el == nil {
		return false, fmt.Errorf("no element to activate")
	}
	if !el.HasArea() {
		return false, fmt.Errorf("element %d has empty bounds %v", el.ID, el.Bounds)
	}
	x, y := el.Center()
	if _, err := p.client.Shell(ctx, fmt.Sprintf("input tap %d %d", x, y)); err != nil {
		return false, err
	}
	return true, nil
}
