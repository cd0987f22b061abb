package model

// Element represents a UI node read from one snapshot of the device screen.
// Elements are owned by the snapshot that produced them and must not be kept
// past the scan that read them.
type Element struct {
	ID          int       `yaml:"i" json:"i"`                         // Pre-order sequence number within the snapshot
	Class       string    `yaml:"cls" json:"cls"`                     // Widget class name
	Package     string    `yaml:"pkg,omitempty" json:"pkg,omitempty"` // Application that rendered the node
	ResourceID  string    `yaml:"rid,omitempty" json:"rid,omitempty"` // View resource ID
	Text        string    `yaml:"t,omitempty" json:"t,omitempty"`     // Visible text
	Description string    `yaml:"d,omitempty" json:"d,omitempty"`     // Content description
	Tooltip     string    `yaml:"tt,omitempty" json:"tt,omitempty"`   // Tooltip text
	Bounds      [4]int    `yaml:"b" json:"b"`                         // [x, y, width, height]
	Visible     bool      `yaml:"vis" json:"vis"`                     // Visible to the user
	Interactive bool      `yaml:"act,omitempty" json:"act,omitempty"` // Accepts activation (clickable)
	Enabled     bool      `yaml:"e,omitempty" json:"e,omitempty"`     // Enabled
	Children    []Element `yaml:"c,omitempty" json:"c,omitempty"`     // Child nodes in screen order
}

// Center returns the center point of the element's bounds.
func (el *Element) Center() (int, int) {
	return el.Bounds[0] + el.Bounds[2]/2, el.Bounds[1] + el.Bounds[3]/2
}

// HasArea reports whether the element occupies any screen space.
func (el *Element) HasArea() bool {
	return el.Bounds[2] > 0 && el.Bounds[3] > 0
}

// Walk visits el and its descendants in pre-order, children left to right.
// Returning false from fn skips the node's children.
func Walk(el *Element, fn func(*Element) bool) {
	if el == nil {
		return
	}
	if !fn(el) {
		return
	}
	for i := range el.Children {
		Walk(&el.Children[i], fn)
	}
}

// FindByID searches the tree for the element with the given ID.
func FindByID(root *Element, id int) *Element {
	var found *Element
	Walk(root, func(el *Element) bool {
		if found != nil {
			return false
		}
		if el.ID == id {
			found = el
			return false
		}
		return true
	})
	return found
}

// Count returns the number of nodes in the tree rooted at el.
func Count(el *Element) int {
	n := 0
	Walk(el, func(*Element) bool {
		n++
		return true
	})
	return n
}
