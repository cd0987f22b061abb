package annotate

import "github.com/mj1618/autotap/internal/output"

// Boxes converts scan rows to boxes. The matched row is highlighted and
// excluded rows are dimmed.
func Boxes(rows []output.Candidate) []Box {
	boxes := make([]Box, 0, len(rows))
	for _, r := range rows {
		boxes = append(boxes, Box{
			Bounds:   r.Bounds,
			Label:    r.Label,
			Match:    r.Match != "",
			Excluded: r.Excluded != "" && r.Match == "",
		})
	}
	return boxes
}
