package models

import "strings"

// FilterState is the list view's search text and selected category.
type FilterState struct {
	Search   string `form:"q"`
	Category string `form:"category"`
}

// DefaultFilter returns the cleared filter state.
func DefaultFilter() FilterState {
	return FilterState{Category: AllCategories}
}

// Normalize fills in the "all" sentinel for an empty category.
func (f FilterState) Normalize() FilterState {
	if strings.TrimSpace(f.Category) == "" {
		f.Category = AllCategories
	}
	return f
}

// Active reports whether any filter differs from the defaults.
func (f FilterState) Active() bool {
	return f.Search != "" || (f.Category != "" && f.Category != AllCategories)
}
