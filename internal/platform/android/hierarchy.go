package android

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"

	"github.com/mj1618/autotap/internal/model"
	"github.com/mj1618/autotap/internal/platform"
)

// xmlNode mirrors one <node> of a uiautomator dump.
type xmlNode struct {
	Text          string    `xml:"text,attr"`
	ResourceID    string    `xml:"resource-id,attr"`
	Class         string    `xml:"class,attr"`
	Package       string    `xml:"package,attr"`
	ContentDesc   string    `xml:"content-desc,attr"`
	Tooltip       string    `xml:"tooltip-text,attr"`
	Clickable     string    `xml:"clickable,attr"`
	Enabled       string    `xml:"enabled,attr"`
	VisibleToUser string    `xml:"visible-to-user,attr"`
	Bounds        string    `xml:"bounds,attr"`
	Nodes         []xmlNode `xml:"node"`
}

type xmlHierarchy struct {
	XMLName xml.Name  `xml:"hierarchy"`
	Nodes   []xmlNode `xml:"node"`
}

var boundsRe = regexp.MustCompile(`\[(-?\d+),(-?\d+)\]\[(-?\d+),(-?\d+)\]`)

// ParseBounds converts uiautomator "[x1,y1][x2,y2]" bounds to [x, y, w, h].
func ParseBounds(s string) ([4]int, error) {
	m := boundsRe.FindStringSubmatch(s)
	if m == nil {
		return [4]int{}, fmt.Errorf("invalid bounds %q: expected [x1,y1][x2,y2]", s)
	}
	var v [4]int
	for i := 0; i < 4; i++ {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return [4]int{}, fmt.Errorf("invalid bounds %q: %w", s, err)
		}
		v[i] = n
	}
	return [4]int{v[0], v[1], v[2] - v[0], v[3] - v[1]}, nil
}

// ParseHierarchy parses uiautomator dump output into an element tree.
// Leading and trailing noise around the XML document is ignored. Output
// without a hierarchy (for example "ERROR: null root node returned by
// UiTestAutomationBridge") yields an error wrapping platform.ErrUnavailable.
func ParseHierarchy(data []byte) (*model.Element, error) {
	start := bytes.Index(data, []byte("<?xml"))
	if start < 0 {
		start = bytes.Index(data, []byte("<hierarchy"))
	}
	if start < 0 {
		return nil, fmt.Errorf("%w: no hierarchy in dump output: %s", platform.ErrUnavailable, firstLine(data))
	}
	data = data[start:]
	if end := bytes.LastIndexByte(data, '>'); end >= 0 {
		data = data[:end+1]
	}

	var h xmlHierarchy
	if err := xml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("%w: parse hierarchy: %v", platform.ErrUnavailable, err)
	}
	if len(h.Nodes) == 0 {
		return nil, fmt.Errorf("%w: empty hierarchy", platform.ErrUnavailable)
	}

	nextID := 1
	if len(h.Nodes) == 1 {
		root := convertNode(h.Nodes[0], &nextID)
		return &root, nil
	}

	// Several top-level windows: wrap them in a synthetic container.
	root := model.Element{ID: nextID, Package: h.Nodes[0].Package, Visible: true}
	nextID++
	for _, n := range h.Nodes {
		root.Children = append(root.Children, convertNode(n, &nextID))
	}
	return &root, nil
}

func convertNode(n xmlNode, nextID *int) model.Element {
	bounds, _ := ParseBounds(n.Bounds)
	el := model.Element{
		ID:          *nextID,
		Class:       n.Class,
		Package:     n.Package,
		ResourceID:  n.ResourceID,
		Text:        n.Text,
		Description: n.ContentDesc,
		Tooltip:     n.Tooltip,
		Bounds:      bounds,
		Interactive: n.Clickable == "true",
		Enabled:     n.Enabled != "false",
	}
	if n.VisibleToUser != "" {
		el.Visible = n.VisibleToUser == "true"
	} else {
		el.Visible = el.HasArea()
	}
	*nextID++
	for _, child := range n.Nodes {
		el.Children = append(el.Children, convertNode(child, nextID))
	}
	return el
}

func firstLine(data []byte) string {
	data = bytes.TrimSpace(data)
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		data = data[:i]
	}
	if len(data) > 120 {
		data = data[:120]
	}
	return string(data)
}
