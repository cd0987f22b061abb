package engine

import "time"

// Outcome is what a tick ended with.
type Outcome string

const (
	OutcomeCancelled        Outcome = "cancelled"
	OutcomeNotForeground    Outcome = "not-foreground"
	OutcomeSuppressed       Outcome = "suppressed"
	OutcomeUnavailable      Outcome = "unavailable"
	OutcomeNoMatch          Outcome = "no-match"
	OutcomeActivated        Outcome = "activated"
	OutcomeActivationFailed Outcome = "activation-failed"
)

// MatchSummary describes a matched candidate by value.
type MatchSummary struct {
	Label       string `yaml:"label"                 json:"label"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Class       string `yaml:"class"                 json:"class"`
	Bounds      [4]int `yaml:"bounds"                json:"bounds"`
	MatchedBy   string `yaml:"matched_by"            json:"matched_by"`
}

// Summarize copies the values of a match result.
func Summarize(r MatchResult) *MatchSummary {
	return &MatchSummary{
		Label:       r.Candidate.Label,
		Description: r.Candidate.Description,
		Class:       r.Candidate.Class,
		Bounds:      r.Candidate.Bounds,
		MatchedBy:   r.MatchedBy.String(),
	}
}

// TickReport is the outcome of one tick. It holds only values, never
// references into the scanned tree.
type TickReport struct {
	Seq           int           `yaml:"seq"                  json:"seq"`
	Time          time.Time     `yaml:"time"                 json:"time"`
	ForegroundApp string        `yaml:"foreground,omitempty" json:"foreground,omitempty"`
	Outcome       Outcome       `yaml:"outcome"              json:"outcome"`
	Candidates    int           `yaml:"candidates"           json:"candidates"`
	Match         *MatchSummary `yaml:"match,omitempty"      json:"match,omitempty"`
	State         FiringState   `yaml:"state"                json:"state"`
}

// Stats accumulates tick outcomes over a run.
type Stats struct {
	Ticks       int         `yaml:"ticks"                 json:"ticks"`
	Scans       int         `yaml:"scans"                 json:"scans"`
	Activations int         `yaml:"activations"           json:"activations"`
	Failures    int         `yaml:"failures"              json:"failures"`
	Last        *TickReport `yaml:"last,omitempty"        json:"last,omitempty"`
	LastMatch   *TickReport `yaml:"last_match,omitempty"  json:"last_match,omitempty"`
	State       FiringState `yaml:"state"                 json:"state"`
}

func (s *Stats) add(r TickReport) {
	s.Ticks++
	switch r.Outcome {
	case OutcomeNoMatch, OutcomeActivated, OutcomeActivationFailed:
		s.Scans++
	}
	switch r.Outcome {
	case OutcomeActivated:
		s.Activations++
	case OutcomeActivationFailed:
		s.Failures++
	}
	last := r
	s.Last = &last
	if r.Match != nil {
		s.LastMatch = &last
	}
	s.State = r.State
}
