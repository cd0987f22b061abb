package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mj1618/autotap/internal/model"
	"github.com/mj1618/autotap/internal/platform"
)

type fakeDevice struct {
	mu          sync.Mutex
	foreground  string
	fgErr       error
	root        *model.Element
	rootErr     error
	activateOK  bool
	activateErr error
	snapshots   int
	finds       int
	activations []string
	windows     []string
	windowCalls int
}

func newFakeDevice(app string, root *model.Element) *fakeDevice {
	return &fakeDevice{foreground: app, root: root, activateOK: true}
}

func (d *fakeDevice) provider() *platform.Provider {
	return &platform.Provider{Snapshotter: d, Foreground: d, Windows: d, Activator: d}
}

func (d *fakeDevice) setForeground(app string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.foreground = app
}

func (d *fakeDevice) ForegroundApp(context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.foreground, d.fgErr
}

func (d *fakeDevice) Windows(context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.windowCalls++
	return d.windows, nil
}

func (d *fakeDevice) ForegroundRoot(context.Context) (*model.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.snapshots++
	if d.rootErr != nil {
		return nil, d.rootErr
	}
	if d.root == nil {
		return nil, platform.ErrUnavailable
	}
	return d.root, nil
}

func (d *fakeDevice) FindByExactText(_ context.Context, root *model.Element, text string) ([]*model.Element, error) {
	d.mu.Lock()
	d.finds++
	d.mu.Unlock()
	var found []*model.Element
	model.Walk(root, func(el *model.Element) bool {
		if !el.Visible {
			return false
		}
		if strings.EqualFold(strings.TrimSpace(el.Text), text) {
			found = append(found, el)
		}
		return true
	})
	return found, nil
}

func (d *fakeDevice) Activate(_ context.Context, el *model.Element) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.activations = append(d.activations, el.Text+"|"+el.Description)
	return d.activateOK, d.activateErr
}

func (d *fakeDevice) counts() (snapshots, activations int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshots, len(d.activations)
}

var errNoDevice = errors.New("device offline")

// fakeClock fires immediately and counts waits.
type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	waits []time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.waits = append(c.waits, d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	h := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h), buf
}

const testApp = "com.fleetlery.driver"

// tourScreen is a Compose screen whose button has a placeholder description
// and takes its label from a child text node.
func tourScreen() *model.Element {
	return &model.Element{
		ID: 1, Class: "android.widget.FrameLayout", Package: testApp,
		Bounds: [4]int{0, 0, 1080, 2400}, Visible: true,
		Children: []model.Element{
			{
				ID: 2, Class: "android.view.View", Package: testApp, Description: "ComposableTag",
				Bounds: [4]int{40, 1800, 1000, 150}, Visible: true, Interactive: true,
				Children: []model.Element{
					{ID: 3, Class: "android.widget.TextView", Package: testApp, Text: "Start tour", Bounds: [4]int{400, 1850, 280, 50}, Visible: true},
				},
			},
			{ID: 4, Class: "android.widget.EditText", Package: testApp, Text: "Email", Bounds: [4]int{40, 400, 1000, 120}, Visible: true, Interactive: true},
		},
	}
}

func testConfig(mode Mode) Config {
	cfg := DefaultConfig()
	cfg.TargetApp = testApp
	cfg.TargetLabel = "Start tour"
	cfg.Mode = mode
	return cfg
}
