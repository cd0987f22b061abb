package engine

import (
	"context"
	"strings"
	"unicode"

	"github.com/mj1618/autotap/internal/model"
	"github.com/mj1618/autotap/internal/platform"
)

// MatchKind records which rule selected the target.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchExactText
	MatchExactDescription
	MatchSubstringText
	MatchDirectText
)

func (k MatchKind) String() string {
	switch k {
	case MatchExactText:
		return "exact-text"
	case MatchExactDescription:
		return "exact-description"
	case MatchSubstringText:
		return "substring-text"
	case MatchDirectText:
		return "direct-text"
	default:
		return "none"
	}
}

// MatchResult is the winning candidate of a tick.
type MatchResult struct {
	Candidate Candidate
	MatchedBy MatchKind
}

// Matcher decides whether candidates carry the target label.
type Matcher struct {
	target  string
	compact string
}

// NewMatcher creates a matcher for the target phrase.
func NewMatcher(target string) *Matcher {
	target = strings.TrimSpace(target)
	return &Matcher{target: target, compact: compact(target)}
}

// Target returns the phrase being matched.
func (m *Matcher) Target() string { return m.target }

// compact lower-cases s and removes all whitespace, so "Start tour" and
// "StartTour" compare equal.
func compact(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Rule applies the matching rules to one candidate, in order: label equals
// target, description equals target, label contains the compacted target.
func (m *Matcher) Rule(c Candidate) MatchKind {
	if m.target == "" {
		return MatchNone
	}
	switch {
	case strings.EqualFold(c.Label, m.target):
		return MatchExactText
	case strings.EqualFold(c.Description, m.target):
		return MatchExactDescription
	case m.compact != "" && strings.Contains(strings.ToLower(c.Label), m.compact):
		return MatchSubstringText
	}
	return MatchNone
}

// Match returns the first candidate, in scan order, that satisfies a rule.
func (m *Matcher) Match(cands []Candidate) (MatchResult, bool) {
	for _, c := range cands {
		if kind := m.Rule(c); kind != MatchNone {
			return MatchResult{Candidate: c, MatchedBy: kind}, true
		}
	}
	return MatchResult{}, false
}

// Fallback asks the snapshotter for elements whose visible text equals the
// target and accepts the first interactive one. It recovers targets that the
// scanner's exclusion heuristics dropped.
func (m *Matcher) Fallback(ctx context.Context, s platform.Snapshotter, root *model.Element) (MatchResult, bool, error) {
	if m.target == "" {
		return MatchResult{}, false, nil
	}
	found, err := s.FindByExactText(ctx, root, m.target)
	if err != nil {
		return MatchResult{}, false, err
	}
	for _, el := range found {
		if el == nil || !el.Interactive {
			continue
		}
		c := Candidate{
			Element:     el,
			Label:       ResolveLabel(el),
			Description: strings.TrimSpace(el.Description),
			Class:       el.Class,
			Bounds:      el.Bounds,
		}
		return MatchResult{Candidate: c, MatchedBy: MatchDirectText}, true, nil
	}
	return MatchResult{}, false, nil
}
