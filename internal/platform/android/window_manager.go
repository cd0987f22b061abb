package android

import (
	"context"
	"fmt"
	"regexp"

	"github.com/mj1618/autotap/internal/platform"
)

// Patterns for the focused window and app in `dumpsys window` output, e.g.
//
//	mCurrentFocus=Window{a1b2c3 u0 com.example.app/com.example.app.MainActivity}
//	mFocusedApp=ActivityRecord{d4e5f6 u0 com.example.app/.MainActivity t42}
var (
	currentFocusRe = regexp.MustCompile(`mCurrentFocus=Window\{\S+ u\d+ ([^\s/}]+)/`)
	focusedAppRe   = regexp.MustCompile(`mFocusedApp=\S*\{\S+ u\d+ ([^\s/}]+)/`)
	resumedRe      = regexp.MustCompile(`mResumedActivity:? \S*\{\S+ u\d+ ([^\s/}]+)/`)

	// Window #3 Window{9f8e7d u0 com.example.app/com.example.app.MainActivity}:
	windowRe = regexp.MustCompile(`(?m)^\s*Window #\d+ Window\{\S+ u\d+ ([^}]+)\}`)
)

// WindowManager implements platform.ForegroundTracker via dumpsys.
type WindowManager struct {
	client *Client
}

// NewWindowManager creates a foreground tracker for the device.
func NewWindowManager(client *Client) *WindowManager {
	return &WindowManager{client: client}
}

// ForegroundApp returns the package owning the focused window.
func (w *WindowManager) ForegroundApp(ctx context.Context) (string, error) {
	out, err := w.client.Shell(ctx, "dumpsys window")
	if err != nil {
		return "", fmt.Errorf("%w: %v", platform.ErrUnknownForeground, err)
	}
	if pkg, ok := ParseForegroundPackage(out); ok {
		return pkg, nil
	}

	// Older releases only report the resumed activity via the activity service.
	out, err = w.client.Shell(ctx, "dumpsys activity activities")
	if err != nil {
		return "", fmt.Errorf("%w: %v", platform.ErrUnknownForeground, err)
	}
	if pkg, ok := ParseForegroundPackage(out); ok {
		return pkg, nil
	}
	return "", platform.ErrUnknownForeground
}

// ParseForegroundPackage extracts the foreground package from dumpsys output.
// The focused window wins over the focused app record.
func ParseForegroundPackage(out string) (string, bool) {
	for _, re := range []*regexp.Regexp{currentFocusRe, focusedAppRe, resumedRe} {
		if m := re.FindStringSubmatch(out); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// Windows lists the on-screen windows from `dumpsys window windows`, top
// first. Entries are "package/activity" for app windows and the window
// title (for example "StatusBar") for system surfaces.
func (w *WindowManager) Windows(ctx context.Context) ([]string, error) {
	out, err := w.client.Shell(ctx, "dumpsys window windows")
	if err != nil {
		return nil, err
	}
	return ParseWindows(out), nil
}

// ParseWindows extracts window names from dumpsys window output.
func ParseWindows(out string) []string {
	var names []string
	for _, m := range windowRe.FindAllStringSubmatch(out, -1) {
		names = append(names, m[1])
	}
	return names
}
