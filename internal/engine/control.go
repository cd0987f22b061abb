package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mj1618/autotap/internal/platform"
)

// ErrRunning is returned by Start when a run is already in progress.
var ErrRunning = errors.New("engine is already running")

// Status is a snapshot of the controller.
type Status struct {
	Running bool    `yaml:"running"          json:"running"`
	RunID   string  `yaml:"run_id,omitempty" json:"run_id,omitempty"`
	Config  *Config `yaml:"config,omitempty" json:"config,omitempty"`
	Stats   Stats   `yaml:"stats"            json:"stats"`
}

// Controller starts and stops engine runs. One run at a time.
type Controller struct {
	provider *platform.Provider
	logger   *slog.Logger
	clock    Clock

	mu        sync.Mutex
	engine    *Engine
	runID     string
	done      chan struct{}
	observers []func(TickReport)
}

// NewController creates a controller over a device provider.
func NewController(p *platform.Provider, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{provider: p, logger: logger}
}

// SetClock sets the clock handed to engines started after this call.
func (c *Controller) SetClock(clock Clock) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock = clock
}

// OnTick registers a callback for tick reports of all future runs.
func (c *Controller) OnTick(fn func(TickReport)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Start validates cfg and launches a run in the background. It returns the
// run id. The run ends when ctx is cancelled or Stop is called.
func (c *Controller) Start(ctx context.Context, cfg Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if c.provider == nil {
		return "", platform.ErrUnsupported
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running() {
		return "", ErrRunning
	}

	runID := uuid.NewString()
	e := New(cfg, c.provider, c.logger.With("run_id", runID))
	if c.clock != nil {
		e.SetClock(c.clock)
	}
	for _, fn := range c.observers {
		e.OnTick(fn)
	}
	done := make(chan struct{})
	c.engine, c.runID, c.done = e, runID, done

	go func() {
		defer close(done)
		e.Run(ctx)
	}()
	return runID, nil
}

// running must be called with mu held.
func (c *Controller) running() bool {
	if c.done == nil {
		return false
	}
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// Stop cancels the current run and waits for its loop to exit. It reports
// whether a run was in progress.
func (c *Controller) Stop() bool {
	c.mu.Lock()
	e, done, wasRunning := c.engine, c.done, c.running()
	c.mu.Unlock()
	if e == nil {
		return false
	}
	e.Stop()
	<-done
	return wasRunning
}

// Done returns a channel closed when the current run ends, or nil when no
// run was started.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Status reports the current or most recent run.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{Running: c.running(), RunID: c.runID}
	if c.engine != nil {
		cfg := c.engine.Config()
		st.Config = &cfg
		st.Stats = c.engine.Stats()
	}
	return st
}
