// Package tui is a terminal monitor for a running engine.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mj1618/autotap/internal/engine"
)

// maxEvents is how many recent events the monitor keeps on screen.
const maxEvents = 12

// Controller is the engine control surface the monitor drives.
type Controller interface {
	Start(ctx context.Context, cfg engine.Config) (string, error)
	Stop() bool
	Status() engine.Status
	OnTick(fn func(engine.TickReport))
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type reportMsg engine.TickReport

type refreshMsg time.Time

type startedMsg struct {
	runID string
	err   error
}

type stoppedMsg struct{}

type event struct {
	at   time.Time
	text string
	kind engine.Outcome
}

// Model is the bubbletea model of the monitor.
type Model struct {
	ctx     context.Context
	ctrl    Controller
	cfg     engine.Config
	reports chan engine.TickReport
	spin    spinner.Model

	status      engine.Status
	events      []event
	lastOutcome engine.Outcome
	message     string
	width       int
	quitting    bool
}

// New creates a monitor for cfg. The engine is started when the program
// starts and stopped on quit.
func New(ctx context.Context, ctrl Controller, cfg engine.Config) Model {
	reports := make(chan engine.TickReport, 64)
	ctrl.OnTick(func(r engine.TickReport) {
		select {
		case reports <- r:
		default:
		}
	})
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = okStyle
	return Model{ctx: ctx, ctrl: ctrl, cfg: cfg, reports: reports, spin: sp, message: "starting..."}
}

// Run starts the engine and blocks in the terminal UI until the user quits
// or ctx is cancelled.
func Run(ctx context.Context, ctrl Controller, cfg engine.Config) error {
	p := tea.NewProgram(New(ctx, ctrl, cfg), tea.WithContext(ctx))
	_, err := p.Run()
	ctrl.Stop()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startCmd(), waitForReport(m.reports), refreshCmd(), m.spin.Tick)
}

func (m Model) startCmd() tea.Cmd {
	ctrl, ctx, cfg := m.ctrl, m.ctx, m.cfg
	return func() tea.Msg {
		id, err := ctrl.Start(ctx, cfg)
		return startedMsg{runID: id, err: err}
	}
}

func (m Model) stopCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.Stop()
		return stoppedMsg{}
	}
}

func waitForReport(ch <-chan engine.TickReport) tea.Cmd {
	return func() tea.Msg {
		return reportMsg(<-ch)
	}
}

func refreshCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case startedMsg:
		if msg.err != nil {
			m.message = "start failed: " + msg.err.Error()
		} else {
			m.message = "running " + msg.runID
		}
		m.status = m.ctrl.Status()
		return m, nil

	case stoppedMsg:
		m.message = "stopped"
		m.status = m.ctrl.Status()
		if m.quitting {
			return m, tea.Quit
		}
		return m, nil

	case refreshMsg:
		m.status = m.ctrl.Status()
		return m, refreshCmd()

	case reportMsg:
		m.record(engine.TickReport(msg))
		return m, waitForReport(m.reports)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			// Stop waits for an in-flight tick, so it runs off the UI loop.
			if m.quitting {
				return m, nil
			}
			m.quitting = true
			m.message = "stopping..."
			return m, m.stopCmd()
		case "s":
			if m.quitting {
				return m, nil
			}
			if m.ctrl.Status().Running {
				m.message = "stopping..."
				return m, m.stopCmd()
			}
			m.message = "starting..."
			return m, m.startCmd()
		}
	}
	return m, nil
}

// record appends a report to the event list when its outcome differs from
// the previous one or something was activated, so steady polling does not
// flood the screen.
func (m *Model) record(r engine.TickReport) {
	activation := r.Outcome == engine.OutcomeActivated || r.Outcome == engine.OutcomeActivationFailed
	if r.Outcome == m.lastOutcome && !activation {
		return
	}
	m.lastOutcome = r.Outcome
	text := string(r.Outcome)
	switch {
	case r.Match != nil:
		text += fmt.Sprintf(" %q via %s", r.Match.Label, r.Match.MatchedBy)
	case r.Outcome == engine.OutcomeNotForeground && r.ForegroundApp != "":
		text += " (" + r.ForegroundApp + ")"
	case r.Outcome == engine.OutcomeNoMatch:
		text += fmt.Sprintf(" (%d candidates)", r.Candidates)
	}
	m.events = append(m.events, event{at: r.Time, text: text, kind: r.Outcome})
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("autotap"))
	b.WriteString("  ")
	b.WriteString(m.stateLine())
	b.WriteString("\n\n")

	st := m.status
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("app:   "), m.cfg.TargetApp)
	fmt.Fprintf(&b, "%s %q\n", keyStyle.Render("label: "), m.cfg.TargetLabel)
	fmt.Fprintf(&b, "%s %s every %s\n", keyStyle.Render("mode:  "), m.cfg.Mode, m.cfg.PollInterval)
	if st.RunID != "" {
		fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("run:   "), st.RunID)
	}
	fmt.Fprintf(&b, "%s %d ticks, %d scans, %s, %s\n", keyStyle.Render("stats: "),
		st.Stats.Ticks, st.Stats.Scans,
		okStyle.Render(fmt.Sprintf("%d activations", st.Stats.Activations)),
		warnStyle.Render(fmt.Sprintf("%d failures", st.Stats.Failures)))
	if st.Stats.Last != nil {
		fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("last:  "), st.Stats.Last.Outcome)
	}

	var ev strings.Builder
	if len(m.events) == 0 {
		ev.WriteString(dimStyle.Render("no events yet"))
	}
	for i, e := range m.events {
		if i > 0 {
			ev.WriteString("\n")
		}
		line := e.at.Format("15:04:05.000") + " " + e.text
		switch e.kind {
		case engine.OutcomeActivated:
			line = okStyle.Render(line)
		case engine.OutcomeActivationFailed:
			line = warnStyle.Render(line)
		case engine.OutcomeNoMatch:
		default:
			line = dimStyle.Render(line)
		}
		ev.WriteString(line)
	}
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(ev.String()))
	b.WriteString("\n\n")
	if m.message != "" {
		b.WriteString(m.message)
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("s start/stop  q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) stateLine() string {
	if m.status.Running {
		return m.spin.View() + okStyle.Render(" running")
	}
	return warnStyle.Render("○ stopped")
}
