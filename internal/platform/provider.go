package platform

import (
	"errors"
	"time"
)

// Provider bundles all platform backends for a device.
type Provider struct {
	Snapshotter   Snapshotter
	Foreground    ForegroundTracker
	Windows       WindowLister
	Activator     Activator
	Screenshotter Screenshotter
}

// Options selects and configures the device backend.
type Options struct {
	Serial         string        // Device serial (empty = the only attached device)
	ADBPath        string        // Path to the adb binary (empty = "adb" on PATH)
	DumpPath       string        // Device-side path for hierarchy dumps
	CommandTimeout time.Duration // Per-command timeout (0 = backend default)
}

// ErrUnsupported is returned when no backend has been registered.
var ErrUnsupported = errors.New("no device backend registered; import internal/platform/android")

// NewProviderFunc is set by backend packages via init().
// See internal/platform/android/init.go for the adb registration.
var NewProviderFunc func(opts Options) (*Provider, error)

// NewProvider returns a Provider for the registered backend.
func NewProvider(opts Options) (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc(opts)
}
