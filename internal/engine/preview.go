package engine

import (
	"context"

	"github.com/mj1618/autotap/internal/model"
	"github.com/mj1618/autotap/internal/platform"
)

// Preview is the result of a one-shot scan without activation.
type Preview struct {
	Inspections []Inspection
	Match       *MatchResult
}

// PreviewScan runs the scanner and, when target is set, the matcher over
// root exactly as a tick would, but never activates anything.
func PreviewScan(ctx context.Context, snap platform.Snapshotter, root *model.Element, target string, keywords, markers []string) (Preview, error) {
	scanner := NewScanner(keywords, markers)
	p := Preview{Inspections: scanner.Inspect(root)}
	if target == "" {
		return p, nil
	}
	var cands []Candidate
	for _, in := range p.Inspections {
		if in.Excluded == "" {
			cands = append(cands, in.Candidate)
		}
	}
	m := NewMatcher(target)
	res, ok := m.Match(cands)
	if !ok && snap != nil {
		var err error
		res, ok, err = m.Fallback(ctx, snap, root)
		if err != nil {
			return p, err
		}
	}
	if ok {
		p.Match = &res
	}
	return p, nil
}
