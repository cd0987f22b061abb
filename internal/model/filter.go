package model

import "strings"

// FilterByText filters elements to only those whose text, description, or
// tooltip contains the given text (case-insensitive). It recursively
// searches children and returns matching elements with their matching
// children preserved. Parent elements are included if any descendant matches.
func FilterByText(elements []Element, text string) []Element {
	if text == "" {
		return elements
	}
	textLower := strings.ToLower(text)
	var result []Element
	for _, el := range elements {
		matched := textMatchesElement(el, textLower)
		childMatches := FilterByText(el.Children, text)

		if matched || len(childMatches) > 0 {
			filtered := el
			filtered.Children = childMatches
			result = append(result, filtered)
		}
	}
	return result
}

func textMatchesElement(el Element, textLower string) bool {
	return strings.Contains(strings.ToLower(el.Text), textLower) ||
		strings.Contains(strings.ToLower(el.Description), textLower) ||
		strings.Contains(strings.ToLower(el.Tooltip), textLower)
}

// FilterVisible removes invisible elements and their subtrees.
func FilterVisible(elements []Element) []Element {
	var result []Element
	for _, el := range elements {
		if !el.Visible {
			continue
		}
		kept := el
		kept.Children = FilterVisible(el.Children)
		result = append(result, kept)
	}
	return result
}

// FilterInteractive keeps interactive elements, promoting interactive
// descendants of non-interactive containers to the container's level.
func FilterInteractive(elements []Element) []Element {
	var result []Element
	for _, el := range elements {
		children := FilterInteractive(el.Children)
		if el.Interactive {
			kept := el
			kept.Children = children
			result = append(result, kept)
		} else if len(children) > 0 {
			result = append(result, children...)
		}
	}
	return result
}
