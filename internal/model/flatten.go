package model

// FlatElement is an element with a path breadcrumb instead of children.
type FlatElement struct {
	ID          int    `yaml:"i"             json:"i"`
	Class       string `yaml:"r"             json:"r"`
	Text        string `yaml:"t,omitempty"   json:"t,omitempty"`
	Description string `yaml:"d,omitempty"   json:"d,omitempty"`
	Tooltip     string `yaml:"tt,omitempty"  json:"tt,omitempty"`
	Bounds      [4]int `yaml:"b"             json:"b"`
	Interactive bool   `yaml:"act,omitempty" json:"act,omitempty"`
	Visible     bool   `yaml:"vis"           json:"vis"`
	Path        string `yaml:"p,omitempty"   json:"p,omitempty"`
}

// FlattenElements converts a tree of elements into a flat list.
// Each element gets a path string showing its location in the tree
// using compact class codes joined with " > ".
func FlattenElements(elements []Element) []FlatElement {
	var result []FlatElement
	for _, el := range elements {
		flattenRecursive(el, "", &result)
	}
	return result
}

func flattenRecursive(el Element, parentPath string, result *[]FlatElement) {
	short := ShortClass(el.Class)
	currentPath := short
	if parentPath != "" {
		currentPath = parentPath + " > " + short
	}

	flat := FlatElement{
		ID:          el.ID,
		Class:       short,
		Text:        el.Text,
		Description: el.Description,
		Tooltip:     el.Tooltip,
		Bounds:      el.Bounds,
		Interactive: el.Interactive,
		Visible:     el.Visible,
		Path:        currentPath,
	}
	*result = append(*result, flat)

	for _, child := range el.Children {
		flattenRecursive(child, currentPath, result)
	}
}
