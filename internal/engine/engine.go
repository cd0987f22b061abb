package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mj1618/autotap/internal/platform"
)

// Engine runs the scan-match-act loop for one target.
type Engine struct {
	cfg       Config
	snapshots platform.Snapshotter
	windows   platform.WindowLister
	gate      *ForegroundGate
	scanner   *Scanner
	matcher   *Matcher
	invoker   *Invoker
	logger    *slog.Logger
	clock     Clock

	stopOnce sync.Once
	stop     chan struct{}

	// mu makes a whole tick a critical section.
	mu    sync.Mutex
	state FiringState
	seq   int

	statsMu   sync.Mutex
	stats     Stats
	observers []func(TickReport)
}

// New creates an engine over the provider's snapshot, foreground and
// activation backends. The config must be valid.
func New(cfg Config, p *platform.Provider, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		cfg:       cfg,
		snapshots: p.Snapshotter,
		windows:   p.Windows,
		gate:      NewForegroundGate(p.Foreground, cfg.TargetApp),
		scanner:   NewScanner(cfg.ExclusionKeywords, cfg.EditableMarkers),
		matcher:   NewMatcher(cfg.TargetLabel),
		invoker:   NewInvoker(p.Activator, logger),
		logger:    logger,
		clock:     RealClock{},
		stop:      make(chan struct{}),
		state:     NewFiringState(cfg.Mode),
	}
	e.stats.State = e.state
	return e
}

// SetClock replaces the clock used between ticks. Call before Run.
func (e *Engine) SetClock(c Clock) { e.clock = c }

// OnTick registers a callback that receives every tick report. Callbacks run
// on the engine's goroutine after the tick has completed. Register before Run.
func (e *Engine) OnTick(fn func(TickReport)) {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	e.observers = append(e.observers, fn)
}

// Config returns the run configuration.
func (e *Engine) Config() Config { return e.cfg }

// Stats returns a copy of the accumulated statistics.
func (e *Engine) Stats() Stats {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	return e.stats
}

// Stop requests cancellation. A tick in progress completes; no further tick
// scans or acts. Safe to call more than once and from any goroutine.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stop) })
}

func (e *Engine) stopped(ctx context.Context) bool {
	select {
	case <-e.stop:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// Run ticks until ctx is cancelled or Stop is called, waiting PollInterval
// between ticks.
func (e *Engine) Run(ctx context.Context) {
	e.logger.Info("starting periodic scanning",
		"target", e.cfg.TargetLabel, "app", e.cfg.TargetApp,
		"mode", e.cfg.Mode.String(), "interval", e.cfg.PollInterval.String())
	for !e.stopped(ctx) {
		e.Tick(ctx)
		if e.stopped(ctx) {
			break
		}
		select {
		case <-ctx.Done():
		case <-e.stop:
		case <-e.clock.After(e.cfg.PollInterval):
		}
	}
	e.mu.Lock()
	e.state = e.state.Cancel()
	state := e.state
	e.mu.Unlock()

	e.statsMu.Lock()
	e.stats.State = state
	e.statsMu.Unlock()
	e.logger.Info("periodic scanning stopped")
}

// Tick runs one scheduling step: foreground gate, firing-policy check, then
// at most one scan-match-act pass.
func (e *Engine) Tick(ctx context.Context) TickReport {
	e.mu.Lock()
	report := e.tick(ctx)
	e.mu.Unlock()

	e.statsMu.Lock()
	e.stats.add(report)
	observers := append([]func(TickReport){}, e.observers...)
	e.statsMu.Unlock()

	for _, fn := range observers {
		fn(report)
	}
	return report
}

// logWindows records what is on screen when no root could be read.
func (e *Engine) logWindows(ctx context.Context, log *slog.Logger) {
	if e.windows == nil || !log.Enabled(ctx, slog.LevelDebug) {
		return
	}
	windows, err := e.windows.Windows(ctx)
	switch {
	case err != nil:
		log.Debug("active windows unknown", "error", err)
	case len(windows) == 0:
		log.Debug("no active windows available")
	default:
		for _, w := range windows {
			log.Debug("active window", "window", w)
		}
	}
}

func (e *Engine) tick(ctx context.Context) TickReport {
	e.seq++
	r := TickReport{Seq: e.seq, Time: e.clock.Now()}
	log := e.logger.With("tick", e.seq)
	log.Debug("periodic scan started")

	if e.stopped(ctx) {
		e.state = e.state.Cancel()
		r.Outcome = OutcomeCancelled
		r.State = e.state
		return r
	}

	fg := e.gate.Check(ctx)
	r.ForegroundApp = fg.App
	if !fg.Active {
		if fg.Err != nil {
			log.Debug("target app not active, skipping scan", "foreground", "unknown", "error", fg.Err)
		} else {
			log.Debug("target app not active, skipping scan", "foreground", fg.App)
		}
		r.Outcome = OutcomeNotForeground
		r.State = e.state
		return r
	}
	if fg.Entered {
		e.state = e.state.Entered()
		log.Debug("target app entered foreground", "app", fg.App)
	}

	if !e.state.ShouldScan() {
		log.Debug("already fired, skipping scan", "mode", e.state.Mode.String())
		r.Outcome = OutcomeSuppressed
		r.State = e.state
		return r
	}

	log.Debug("target app detected, scanning", "target", e.matcher.Target())
	root, err := e.snapshots.ForegroundRoot(ctx)
	if err == nil && root == nil {
		err = platform.ErrUnavailable
	}
	if err == nil && root.Package != "" && root.Package != e.cfg.TargetApp {
		// The app switched between the foreground check and the dump.
		log.Debug("root belongs to another app", "package", root.Package)
		err = platform.ErrUnavailable
	}
	if err != nil {
		if errors.Is(err, platform.ErrUnavailable) {
			log.Debug("root node unavailable", "error", err)
		} else {
			log.Debug("root node unavailable, unexpected error", "error", err)
		}
		e.logWindows(ctx, log)
		r.Outcome = OutcomeUnavailable
		r.State = e.state
		return r
	}

	cands := e.scanner.Scan(root)
	r.Candidates = len(cands)
	log.Debug("screen scan results", "candidates", len(cands))
	for _, c := range cands {
		log.Debug("candidate", "label", c.Label, "desc", c.Description, "class", c.Class, "bounds", c.Bounds)
	}

	match, ok := e.matcher.Match(cands)
	if !ok {
		var ferr error
		match, ok, ferr = e.matcher.Fallback(ctx, e.snapshots, root)
		if ferr != nil {
			log.Debug("direct text lookup failed", "error", ferr)
		}
	}
	if !ok {
		log.Debug("no matching element found", "target", e.matcher.Target())
		r.Outcome = OutcomeNoMatch
		r.State = e.state
		return r
	}
	r.Match = Summarize(match)

	log.Info("found target element, activating", "label", match.Candidate.Label, "matched_by", match.MatchedBy.String())
	if e.invoker.Activate(ctx, match.Candidate) {
		e.state = e.state.Activated()
		log.Info("click result: Success", "label", match.Candidate.Label)
		r.Outcome = OutcomeActivated
	} else {
		log.Warn("click result: Failed", "label", match.Candidate.Label)
		r.Outcome = OutcomeActivationFailed
	}
	r.State = e.state
	return r
}
