package engine

// ============================================================================
// FILTERS — Dimension-based filtering via RecordView
// ============================================================================
// Single pass over the view; returns a SubView (index list into parent).
// ============================================================================

// Filters define which records to include.
// Keys are dimension names, values are allowed values (exact match).
// OR within a dimension, AND across dimensions. Empty = all.
type Filters struct {
	Dimensions map[string][]string `json:"dimensions"`
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ApplyFilters returns a view of records matching all dimension filters.
// Empty filter = no restriction (returns the original view).
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	sets := make(map[string]map[string]bool)
	for dim, allowed := range filters.Dimensions {
		if len(allowed) > 0 {
			sets[dim] = toSet(allowed)
		}
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for dim, set := range sets {
			if !set[view.Dimension(i, dim)] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// OnlyCategories keeps records whose dimension value is one of categories.
// A missing ("") value matches only when "" is listed.
func OnlyCategories(view RecordView, dimension string, categories []string) RecordView {
	return ApplyFilters(view, Filters{Dimensions: map[string][]string{dimension: categories}})
}

// MissingOnly keeps the records whose dimension value is missing.
func MissingOnly(view RecordView, dimension string) RecordView {
	return OnlyCategories(view, dimension, []string{""})
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
