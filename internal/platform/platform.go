package platform

import (
	"context"
	"errors"

	"github.com/mj1618/autotap/internal/model"
)

// ErrUnavailable means no foreground root could be resolved. It is a routine
// condition (screen off, transient surface teardown, app switch mid-read).
var ErrUnavailable = errors.New("foreground root unavailable")

// ErrUnknownForeground means the foreground application could not be determined.
var ErrUnknownForeground = errors.New("foreground application unknown")

// Snapshotter reads the UI element tree of the foreground surface.
type Snapshotter interface {
	// ForegroundRoot returns the root of the current foreground tree.
	// Errors wrap ErrUnavailable when there is no usable root.
	ForegroundRoot(ctx context.Context) (*model.Element, error)

	// FindByExactText returns elements under root whose visible text equals
	// text, in tree order.
	FindByExactText(ctx context.Context, root *model.Element, text string) ([]*model.Element, error)
}

// ForegroundTracker reports which application owns the foreground.
type ForegroundTracker interface {
	ForegroundApp(ctx context.Context) (string, error)
}

// WindowLister lists the windows currently on screen, top first. Used for
// diagnostics when no foreground root is available.
type WindowLister interface {
	Windows(ctx context.Context) ([]string, error)
}

// Activator performs the platform activation (click) on an element.
type Activator interface {
	// Activate returns whether the platform acknowledged the activation.
	Activate(ctx context.Context, el *model.Element) (bool, error)
}

// Screenshotter captures the device screen as PNG bytes.
type Screenshotter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}
