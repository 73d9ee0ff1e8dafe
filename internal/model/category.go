package model

import "slices"

// AllCategory is the synthetic category that matches every bookmark.
// It is always listed first and never stored.
const AllCategory = "All"

// Categories is the ordered, de-duplicated set of user-defined labels.
type Categories []string

// Contains reports whether label is present (exact, case-sensitive match).
func (c Categories) Contains(label string) bool {
	return slices.Contains(c, label)
}

// WithAll returns the labels shown in the category pane: All first.
func (c Categories) WithAll() []string {
	result := make([]string, 0, len(c)+1)
	result = append(result, AllCategory)
	return append(result, c...)
}

// Assignments maps a bookmark ID to its category label.
type Assignments map[string]string

// CategoryOf returns the category assigned to id.
// An entry with an empty label counts as uncategorized.
func (a Assignments) CategoryOf(id string) (string, bool) {
	category, ok := a[id]
	if !ok || category == "" {
		return "", false
	}
	return category, true
}

// Matches reports whether the bookmark id is shown under the given category filter.
func (a Assignments) Matches(id, category string) bool {
	if category == AllCategory {
		return true
	}
	return a[id] == category
}
