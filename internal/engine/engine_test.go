package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mj1618/autotap/internal/model"
	"github.com/mj1618/autotap/internal/platform"
)

func newTestEngine(t *testing.T, dev *fakeDevice, mode Mode) (*Engine, *syncBuffer) {
	t.Helper()
	logger, buf := newTestLogger()
	cfg := testConfig(mode)
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	e := New(cfg, dev.provider(), logger)
	e.SetClock(&fakeClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)})
	return e, buf
}

func outcomes(e *Engine, n int) []Outcome {
	out := make([]Outcome, n)
	for i := range out {
		out[i] = e.Tick(context.Background()).Outcome
	}
	return out
}

func TestEngine_FireOnce(t *testing.T) {
	dev := newFakeDevice(testApp, tourScreen())
	e, buf := newTestEngine(t, dev, FireOnce)

	got := outcomes(e, 5)
	want := []Outcome{OutcomeActivated, OutcomeSuppressed, OutcomeSuppressed, OutcomeSuppressed, OutcomeSuppressed}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("outcomes = %v, want %v", got, want)
		}
	}
	snapshots, activations := dev.counts()
	if activations != 1 || snapshots != 1 {
		t.Errorf("activations=%d snapshots=%d, want 1 and 1", activations, snapshots)
	}
	if !strings.Contains(buf.String(), "Success") {
		t.Errorf("log missing activation result:\n%s", buf.String())
	}

	// Leaving and re-entering does not re-arm fire-once.
	dev.setForeground("com.android.launcher")
	e.Tick(context.Background())
	dev.setForeground(testApp)
	if r := e.Tick(context.Background()); r.Outcome != OutcomeSuppressed {
		t.Errorf("re-entry outcome = %s, want suppressed", r.Outcome)
	}
}

func TestEngine_Continuous(t *testing.T) {
	dev := newFakeDevice(testApp, tourScreen())
	e, _ := newTestEngine(t, dev, Continuous)
	for i, o := range outcomes(e, 4) {
		if o != OutcomeActivated {
			t.Errorf("tick %d: %s", i+1, o)
		}
	}
	if _, n := dev.counts(); n != 4 {
		t.Errorf("activations = %d, want 4", n)
	}
}

func TestEngine_PerForegroundEntry(t *testing.T) {
	dev := newFakeDevice(testApp, tourScreen())
	e, _ := newTestEngine(t, dev, FirePerForegroundEntry)
	ctx := context.Background()

	if r := e.Tick(ctx); r.Outcome != OutcomeActivated {
		t.Fatalf("first tick: %s", r.Outcome)
	}
	if r := e.Tick(ctx); r.Outcome != OutcomeSuppressed {
		t.Fatalf("second tick: %s", r.Outcome)
	}
	dev.setForeground("com.android.launcher")
	if r := e.Tick(ctx); r.Outcome != OutcomeNotForeground {
		t.Fatalf("away tick: %s", r.Outcome)
	}
	dev.setForeground(testApp)
	r := e.Tick(ctx)
	if r.Outcome != OutcomeActivated {
		t.Fatalf("re-entry tick: %s", r.Outcome)
	}
	if !r.State.FiredForEntry {
		t.Error("state should record the activation for this entry")
	}
	if _, n := dev.counts(); n != 2 {
		t.Errorf("activations = %d, want 2", n)
	}
}

func TestEngine_PerForegroundEntryIgnoresUnknownForeground(t *testing.T) {
	dev := newFakeDevice(testApp, tourScreen())
	e, _ := newTestEngine(t, dev, FirePerForegroundEntry)
	ctx := context.Background()

	var got []Outcome
	got = append(got, e.Tick(ctx).Outcome)
	dev.mu.Lock()
	dev.fgErr = platform.ErrUnknownForeground
	dev.mu.Unlock()
	got = append(got, e.Tick(ctx).Outcome)
	dev.mu.Lock()
	dev.fgErr = nil
	dev.mu.Unlock()
	got = append(got, e.Tick(ctx).Outcome)

	want := []Outcome{OutcomeActivated, OutcomeNotForeground, OutcomeSuppressed}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("outcomes = %v, want %v", got, want)
		}
	}
	if _, n := dev.counts(); n != 1 {
		t.Errorf("activations = %d, want 1", n)
	}
}

func TestEngine_ObserversSeeEveryTick(t *testing.T) {
	dev := newFakeDevice(testApp, tourScreen())
	e, _ := newTestEngine(t, dev, Continuous)
	var seqs []int
	e.OnTick(func(r TickReport) { seqs = append(seqs, r.Seq) })
	e.OnTick(func(TickReport) {})

	outcomes(e, 3)
	if len(seqs) != 3 || seqs[0] != 1 || seqs[2] != 3 {
		t.Errorf("observed sequences = %v", seqs)
	}
}

func TestEngine_NotForegroundSkipsScan(t *testing.T) {
	dev := newFakeDevice("com.android.launcher", tourScreen())
	e, buf := newTestEngine(t, dev, FireOnce)

	r := e.Tick(context.Background())
	if r.Outcome != OutcomeNotForeground || r.ForegroundApp != "com.android.launcher" {
		t.Errorf("unexpected report %+v", r)
	}
	if snapshots, activations := dev.counts(); snapshots != 0 || activations != 0 {
		t.Errorf("snapshots=%d activations=%d, want none", snapshots, activations)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "periodic scan started") || !strings.Contains(lines[1], "target app not active") {
		t.Errorf("expected the scan line and the gating line, got:\n%s", buf.String())
	}
}

func TestEngine_EditableTargetUsesFallback(t *testing.T) {
	root := &model.Element{Package: testApp, Visible: true, Children: []model.Element{
		{Class: "android.widget.EditText", Text: "Start tour", Visible: true, Interactive: true, Bounds: [4]int{0, 0, 100, 40}},
	}}
	dev := newFakeDevice(testApp, root)
	e, _ := newTestEngine(t, dev, FireOnce)

	r := e.Tick(context.Background())
	if r.Candidates != 0 {
		t.Errorf("candidates = %d, want 0", r.Candidates)
	}
	if dev.finds != 1 {
		t.Errorf("direct lookup called %d times, want 1", dev.finds)
	}
	if r.Outcome != OutcomeActivated || r.Match == nil || r.Match.MatchedBy != "direct-text" {
		t.Errorf("unexpected report %+v", r)
	}
}

func TestEngine_NoMatchKeepsPolling(t *testing.T) {
	root := &model.Element{Package: testApp, Visible: true, Children: []model.Element{
		{Class: "android.widget.Button", Text: "Cancel", Visible: true, Interactive: true},
	}}
	dev := newFakeDevice(testApp, root)
	e, buf := newTestEngine(t, dev, FireOnce)
	for i, o := range outcomes(e, 3) {
		if o != OutcomeNoMatch {
			t.Errorf("tick %d: %s", i+1, o)
		}
	}
	if !strings.Contains(buf.String(), "no matching element found") {
		t.Errorf("log missing no-match line:\n%s", buf.String())
	}
	if st := e.Stats(); st.Scans != 3 || st.Activations != 0 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestEngine_Unavailable(t *testing.T) {
	dev := newFakeDevice(testApp, nil)
	e, buf := newTestEngine(t, dev, FireOnce)

	if r := e.Tick(context.Background()); r.Outcome != OutcomeUnavailable {
		t.Errorf("outcome = %s", r.Outcome)
	}
	if !strings.Contains(buf.String(), "unavailable") {
		t.Errorf("log missing unavailable line:\n%s", buf.String())
	}

	dev.rootErr = errNoDevice
	if r := e.Tick(context.Background()); r.Outcome != OutcomeUnavailable {
		t.Errorf("unexpected error outcome = %s", r.Outcome)
	}

	// Polling continues and recovers once the tree is readable.
	dev.rootErr = nil
	dev.root = tourScreen()
	if r := e.Tick(context.Background()); r.Outcome != OutcomeActivated {
		t.Errorf("recovered outcome = %s", r.Outcome)
	}
}

func TestEngine_UnavailableLogsActiveWindows(t *testing.T) {
	dev := newFakeDevice(testApp, nil)
	dev.windows = []string{"StatusBar", "com.fleetlery.driver/.MainActivity"}
	e, buf := newTestEngine(t, dev, FireOnce)

	e.Tick(context.Background())
	out := buf.String()
	for _, want := range []string{"tick=1", "periodic scan started", "active window", "window=StatusBar", "window=com.fleetlery.driver/.MainActivity"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}

	dev.windows = nil
	e.Tick(context.Background())
	if !strings.Contains(buf.String(), "no active windows available") {
		t.Errorf("log missing empty window line:\n%s", buf.String())
	}

	// A readable tree never triggers the window listing.
	dev.root = tourScreen()
	e.Tick(context.Background())
	if dev.windowCalls != 2 {
		t.Errorf("window listings = %d, want 2", dev.windowCalls)
	}
}

func TestEngine_RootFromAnotherApp(t *testing.T) {
	root := tourScreen()
	root.Package = "com.android.systemui"
	dev := newFakeDevice(testApp, root)
	e, _ := newTestEngine(t, dev, FireOnce)
	if r := e.Tick(context.Background()); r.Outcome != OutcomeUnavailable {
		t.Errorf("outcome = %s, want unavailable", r.Outcome)
	}
	if _, n := dev.counts(); n != 0 {
		t.Error("must not act on another app's tree")
	}
}

func TestEngine_ActivationFailureLeavesStateArmed(t *testing.T) {
	dev := newFakeDevice(testApp, tourScreen())
	dev.activateOK = false
	e, buf := newTestEngine(t, dev, FireOnce)

	r := e.Tick(context.Background())
	if r.Outcome != OutcomeActivationFailed || r.State.FiredForEntry {
		t.Errorf("unexpected report %+v", r)
	}
	if !strings.Contains(buf.String(), "Failed") || !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("failure not logged at warn:\n%s", buf.String())
	}

	dev.activateOK = true
	if r := e.Tick(context.Background()); r.Outcome != OutcomeActivated {
		t.Errorf("retry on next tick = %s", r.Outcome)
	}
	if st := e.Stats(); st.Failures != 1 || st.Activations != 1 || st.LastMatch == nil {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestEngine_RunStopsAndDoesNotReschedule(t *testing.T) {
	dev := newFakeDevice(testApp, tourScreen())
	e, buf := newTestEngine(t, dev, Continuous)
	clock := &fakeClock{}
	e.SetClock(clock)

	var seen []TickReport
	e.OnTick(func(r TickReport) {
		seen = append(seen, r)
		if len(seen) == 3 {
			e.Stop()
		}
	})
	e.Run(context.Background())

	if len(seen) != 3 {
		t.Fatalf("ticks = %d, want 3", len(seen))
	}
	if len(clock.waits) != 2 {
		t.Errorf("waits = %d, want 2", len(clock.waits))
	}
	for _, d := range clock.waits {
		if d != 100*time.Millisecond {
			t.Errorf("waited %s, want the poll interval", d)
		}
	}
	if !e.Stats().State.Cancelled {
		t.Error("state should be cancelled after Run returns")
	}
	if !strings.Contains(buf.String(), "periodic scanning stopped") {
		t.Errorf("missing stop line:\n%s", buf.String())
	}

	// Stop is idempotent and further ticks are inert.
	e.Stop()
	if r := e.Tick(context.Background()); r.Outcome != OutcomeCancelled {
		t.Errorf("tick after stop = %s", r.Outcome)
	}
	if _, n := dev.counts(); n != 3 {
		t.Errorf("activations = %d, want 3", n)
	}
}

func TestEngine_RunHonoursContext(t *testing.T) {
	dev := newFakeDevice("com.android.launcher", tourScreen())
	e, _ := newTestEngine(t, dev, FireOnce)
	ctx, cancel := context.WithCancel(context.Background())
	n := 0
	e.OnTick(func(TickReport) {
		n++
		if n == 2 {
			cancel()
		}
	})
	e.Run(ctx)
	if n != 2 {
		t.Errorf("ticks = %d, want 2", n)
	}
}

func TestEngine_ReportSequence(t *testing.T) {
	dev := newFakeDevice(testApp, tourScreen())
	e, _ := newTestEngine(t, dev, FireOnce)
	r1 := e.Tick(context.Background())
	r2 := e.Tick(context.Background())
	if r1.Seq != 1 || r2.Seq != 2 {
		t.Errorf("seq = %d, %d", r1.Seq, r2.Seq)
	}
	if r1.Match == nil || r1.Match.Label != "Start tour" || r1.Match.MatchedBy != "exact-text" {
		t.Errorf("unexpected match summary %+v", r1.Match)
	}
	if st := e.Stats(); st.Ticks != 2 || st.Last.Seq != 2 || st.LastMatch.Seq != 1 {
		t.Errorf("unexpected stats %+v", st)
	}
}
