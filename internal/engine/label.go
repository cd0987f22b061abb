package engine

import (
	"strings"

	"github.com/mj1618/autotap/internal/model"
)

// PlaceholderMarker is the text Compose emits for nodes without a real label.
const PlaceholderMarker = "ComposableTag"

// usableLabel reports whether a trimmed label is non-empty and not a
// framework placeholder.
func usableLabel(s string) bool {
	return s != "" && !strings.Contains(s, PlaceholderMarker)
}

// ResolveLabel derives the display label of an element. Sources are tried in
// a fixed order and the first usable one wins:
//
//  1. the element's text
//  2. its content description
//  3. its tooltip
//  4. the first descendant (pre-order) with a usable text, description or tooltip
//  5. its own text, else its own description, even if they carry the placeholder
//
// An earlier usable source is never displaced by a later one.
func ResolveLabel(el *model.Element) string {
	if el == nil {
		return ""
	}
	text := strings.TrimSpace(el.Text)
	if usableLabel(text) {
		return text
	}
	desc := strings.TrimSpace(el.Description)
	if usableLabel(desc) {
		return desc
	}
	if tooltip := strings.TrimSpace(el.Tooltip); usableLabel(tooltip) {
		return tooltip
	}
	if child := labelFromDescendants(el); child != "" {
		return child
	}
	if text != "" {
		return text
	}
	return desc
}

// labelFromDescendants searches children depth-first. Each child's own
// sources are checked before its subtree.
func labelFromDescendants(el *model.Element) string {
	for i := range el.Children {
		child := &el.Children[i]
		for _, s := range []string{child.Text, child.Description, child.Tooltip} {
			if s = strings.TrimSpace(s); usableLabel(s) {
				return s
			}
		}
		if s := labelFromDescendants(child); s != "" {
			return s
		}
	}
	return ""
}
