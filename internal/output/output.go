package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/autotap/internal/engine"
	"github.com/mj1618/autotap/internal/model"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// Candidate is one interactive node seen by `scan`.
type Candidate struct {
	ID          int    `yaml:"i"                  json:"i"`
	Label       string `yaml:"label"              json:"label"`
	Description string `yaml:"desc,omitempty"     json:"desc,omitempty"`
	Class       string `yaml:"cls"                json:"cls"`
	Bounds      [4]int `yaml:"b"                  json:"b"`
	Excluded    string `yaml:"excluded,omitempty" json:"excluded,omitempty"`
	Match       string `yaml:"match,omitempty"    json:"match,omitempty"`
}

// ScanResult is the top-level output of the `scan` command.
type ScanResult struct {
	App        string               `yaml:"app,omitempty"      json:"app,omitempty"`
	TS         int64                `yaml:"ts"                 json:"ts"`
	Target     string               `yaml:"target,omitempty"   json:"target,omitempty"`
	Nodes      int                  `yaml:"nodes"              json:"nodes"`
	Match      *engine.MatchSummary `yaml:"match,omitempty"    json:"match,omitempty"`
	Candidates []Candidate          `yaml:"candidates"         json:"candidates"`
	Elements   []model.Element      `yaml:"elements,omitempty" json:"elements,omitempty"`
}

// ScanFlatResult is the top-level output of `scan --flat`.
type ScanFlatResult struct {
	App        string               `yaml:"app,omitempty"      json:"app,omitempty"`
	TS         int64                `yaml:"ts"                 json:"ts"`
	Target     string               `yaml:"target,omitempty"   json:"target,omitempty"`
	Nodes      int                  `yaml:"nodes"              json:"nodes"`
	Match      *engine.MatchSummary `yaml:"match,omitempty"    json:"match,omitempty"`
	Candidates []Candidate          `yaml:"candidates"         json:"candidates"`
	Elements   []model.FlatElement  `yaml:"elements,omitempty" json:"elements,omitempty"`
}

// CandidatesFrom converts scanner inspections to output rows. When match is
// non-nil the row whose element it points to is tagged with the rule name.
func CandidatesFrom(in []engine.Inspection, match *engine.MatchResult) []Candidate {
	out := make([]Candidate, 0, len(in))
	for _, ins := range in {
		c := ins.Candidate
		row := Candidate{
			Label:       c.Label,
			Description: c.Description,
			Class:       model.ShortClass(c.Class),
			Bounds:      c.Bounds,
			Excluded:    ins.Excluded,
		}
		if c.Element != nil {
			row.ID = c.Element.ID
		}
		if match != nil && c.Element != nil && match.Candidate.Element == c.Element {
			row.Match = match.MatchedBy.String()
		}
		out = append(out, row)
	}
	return out
}

// NewScanResult builds the scan output for root from a preview. When text is
// set only candidates whose label or description contains it are listed.
func NewScanResult(root *model.Element, p engine.Preview, target, text string) ScanResult {
	res := ScanResult{
		TS:         time.Now().Unix(),
		Target:     target,
		Candidates: FilterCandidates(CandidatesFrom(p.Inspections, p.Match), text),
	}
	if root != nil {
		res.App = root.Package
		res.Nodes = model.Count(root)
	}
	if p.Match != nil {
		res.Match = engine.Summarize(*p.Match)
	}
	return res
}

// FilterCandidates keeps rows whose label or description contains text,
// ignoring case.
func FilterCandidates(rows []Candidate, text string) []Candidate {
	if text == "" {
		return rows
	}
	want := strings.ToLower(text)
	out := []Candidate{}
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Label), want) || strings.Contains(strings.ToLower(r.Description), want) {
			out = append(out, r)
		}
	}
	return out
}

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	return Fprint(os.Stdout, v)
}

// Fprint serializes v to w in the current output format.
func Fprint(w io.Writer, v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		return WriteJSON(w, v, PrettyOutput)
	case FormatYAML:
		return WriteYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// WriteJSON serializes v as JSON, single-line unless pretty is set.
func WriteJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// WriteYAML serializes v as YAML.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
