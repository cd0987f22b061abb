package engine

import (
	"strings"

	"github.com/mj1618/autotap/internal/model"
)

// DefaultExclusionKeywords drop interactive nodes whose label suggests an
// input, a checkbox or an icon rather than a button.
var DefaultExclusionKeywords = []string{"checkbox", "visualtransformationicon", "input", "navigation icon"}

// DefaultEditableMarkers identify editable text fields by class name.
var DefaultEditableMarkers = []string{"EditText"}

// Candidate is an interactive, visible element found by a scan. Element
// points into the snapshot and is only valid during the tick that scanned it.
type Candidate struct {
	Element     *model.Element
	Label       string
	Description string
	Class       string
	Bounds      [4]int
}

// Inspection is one interactive node seen by a scan, with the reason it was
// dropped (empty when kept).
type Inspection struct {
	Candidate Candidate
	Excluded  string
}

// Scanner walks a tree and collects candidates.
type Scanner struct {
	keywords []string
	markers  []string
}

// NewScanner creates a scanner with the given exclusion keywords (matched
// case-insensitively against labels) and editable-class markers (matched
// against class names).
func NewScanner(keywords, markers []string) *Scanner {
	s := &Scanner{}
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			s.keywords = append(s.keywords, k)
		}
	}
	for _, m := range markers {
		if m = strings.TrimSpace(m); m != "" {
			s.markers = append(s.markers, m)
		}
	}
	return s
}

// Scan returns the candidates under root in pre-order, children left to right.
// Each call builds a fresh slice.
func (s *Scanner) Scan(root *model.Element) []Candidate {
	var out []Candidate
	for _, in := range s.Inspect(root) {
		if in.Excluded == "" {
			out = append(out, in.Candidate)
		}
	}
	return out
}

// Inspect returns every visible interactive node under root, marking the ones
// the exclusion heuristics drop. Invisible nodes are skipped together with
// their subtree. A dropped node's subtree is not visited either, so controls
// nested in an input field (clear, show password) never become candidates.
func (s *Scanner) Inspect(root *model.Element) []Inspection {
	var out []Inspection
	model.Walk(root, func(el *model.Element) bool {
		if !el.Visible {
			return false
		}
		if !el.Interactive {
			return true
		}
		c := Candidate{
			Element:     el,
			Label:       ResolveLabel(el),
			Description: strings.TrimSpace(el.Description),
			Class:       el.Class,
			Bounds:      el.Bounds,
		}
		reason := s.exclusionReason(c)
		out = append(out, Inspection{Candidate: c, Excluded: reason})
		return reason == ""
	})
	return out
}

func (s *Scanner) exclusionReason(c Candidate) string {
	for _, m := range s.markers {
		if strings.Contains(c.Class, m) {
			return "class contains " + m
		}
	}
	label := strings.ToLower(c.Label)
	for _, k := range s.keywords {
		if strings.Contains(label, k) {
			return "label contains " + k
		}
	}
	return ""
}
