// Package logsink writes timestamped event lines to an append-only log file
// without ever blocking or failing the caller.
package logsink

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// TimeFormat is the timestamp layout of every line.
const TimeFormat = "2006-01-02 15:04:05.000"

// DefaultQueueSize is the number of lines buffered ahead of the writer.
const DefaultQueueSize = 256

// Options configures a Sink.
type Options struct {
	Location    *time.Location   // Time zone of timestamps (nil = local)
	QueueSize   int              // Buffered lines (0 = DefaultQueueSize)
	Diagnostics io.Writer        // Where swallowed failures are reported (nil = stderr)
	Now         func() time.Time // Clock (nil = time.Now)
}

// Sink is an asynchronous line logger. Record never blocks: lines are queued
// for a writer goroutine and dropped when the queue is full. Write failures
// are swallowed and reported once per kind to the diagnostics writer.
type Sink struct {
	w     io.Writer
	loc   *time.Location
	now   func() time.Time
	diag  io.Writer
	queue chan string
	done  chan struct{}

	mu     sync.RWMutex
	closed bool

	statMu   sync.Mutex
	reported map[string]bool
	dropped  int
}

// Open appends to the file at path, creating it if needed.
func Open(path string, opts Options) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, opts), nil
}

// New starts a sink writing to w. If w is an io.Closer it is closed by Close.
func New(w io.Writer, opts Options) *Sink {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Diagnostics == nil {
		opts.Diagnostics = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Sink{
		w:        w,
		loc:      opts.Location,
		now:      opts.Now,
		diag:     opts.Diagnostics,
		queue:    make(chan string, opts.QueueSize),
		done:     make(chan struct{}),
		reported: make(map[string]bool),
	}
	go s.loop()
	return s
}

// Format renders one log line without the trailing newline.
func Format(t time.Time, loc *time.Location, msg string) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(TimeFormat) + ": " + msg
}

// Record queues msg stamped with the current time. It returns immediately.
func (s *Sink) Record(msg string) {
	line := Format(s.now(), s.loc, msg) + "\n"

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.queue <- line:
	default:
		s.fail("overflow", fmt.Errorf("queue full, dropping lines"))
	}
}

func (s *Sink) loop() {
	defer close(s.done)
	for line := range s.queue {
		if _, err := io.WriteString(s.w, line); err != nil {
			s.fail("write", err)
		}
	}
}

// fail reports the first failure of each kind. Later ones are only counted.
func (s *Sink) fail(kind string, err error) {
	s.statMu.Lock()
	s.dropped++
	first := !s.reported[kind]
	s.reported[kind] = true
	s.statMu.Unlock()
	if first {
		fmt.Fprintf(s.diag, "logsink: %s: %v\n", kind, err)
	}
}

// Dropped returns how many lines were lost to overflow or write errors.
func (s *Sink) Dropped() int {
	s.statMu.Lock()
	defer s.statMu.Unlock()
	return s.dropped
}

// Close flushes queued lines and closes the underlying writer. Records made
// after Close are discarded.
func (s *Sink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	<-s.done
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
