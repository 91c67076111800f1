package engine

// ============================================================================
// FILTERS — Dimension- and Measure-Based Filtering via RecordView
// ============================================================================
// Single-pass filter: checks ALL constraints per record in one loop.
// Returns a SubView (index list into parent) — zero data copy.
// Matching is exact: team and player names are compared verbatim.
// ============================================================================

// ApplyFilters returns a view of records matching all filters.
// Keys are AND-combined; values within a key are OR-combined.
// Empty filter = no restriction (returns original view).
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	dimSets := make(map[string]map[string]bool)
	for dim, allowed := range filters.Dimensions {
		if len(allowed) > 0 {
			dimSets[dim] = toSet(allowed)
		}
	}
	mesSets := make(map[string]map[float64]bool)
	for key, allowed := range filters.Measures {
		if len(allowed) > 0 {
			set := make(map[float64]bool, len(allowed))
			for _, v := range allowed {
				set[v] = true
			}
			mesSets[key] = set
		}
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if matches(view, i, dimSets, mesSets) {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

func matches(view RecordView, i int, dimSets map[string]map[string]bool, mesSets map[string]map[float64]bool) bool {
	for dim, set := range dimSets {
		if !set[view.Dimension(i, dim)] {
			return false
		}
	}
	for key, set := range mesSets {
		if !set[view.Measure(i, key)] {
			return false
		}
	}
	return true
}

// Where returns a view of records for which keep returns true.
// Used for predicates that are not simple equality, such as anomaly scans.
func Where(view RecordView, keep func(view RecordView, i int) bool) RecordView {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if keep(view, i) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
