package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ============================================================================
// AGGREGATORS — Grouping, Aggregation, and Sorting via RecordView
// ============================================================================
// All functions operate on RecordView — zero-copy access to any data source.
// Grouping produces SubViews (index lists into parent view).
//
// Ordering is deterministic: groups are materialised in ascending key order
// and every value sort is stable, so ties keep ascending key order.
// ============================================================================

// GroupAndAggregate is the main entry point for the aggregation pipeline.
// Pipeline: group → aggregate → drop undefined → sort → limit.
func GroupAndAggregate(view RecordView, q Query, measure string) ([]Group, error) {
	if err := validateAggregation(q); err != nil {
		return nil, err
	}
	if view.Len() == 0 {
		return nil, nil
	}

	// 1. Group
	var groups []Group
	if q.GroupBy == "" {
		groups = []Group{{Key: "all", Label: "Total", View: view}}
	} else {
		groups = groupBySingle(view, q.GroupBy, q.SkipBlankKeys)
	}

	// 2. Aggregate
	kept := groups[:0]
	for i := range groups {
		if aggregateGroup(&groups[i], q, measure) {
			kept = append(kept, groups[i])
		}
	}
	groups = kept

	// 3. Sort
	SortGroups(groups, q.SortBy)

	// 4. Limit
	if q.Limit > 0 && len(groups) > q.Limit {
		groups = groups[:q.Limit]
	}

	return groups, nil
}

func validateAggregation(q Query) error {
	switch q.Aggregation {
	case AggSum, AggCount, "":
		return nil
	case AggRate:
		if q.Denominator == "" {
			return fmt.Errorf("query %q: rate aggregation needs a denominator", q.Name)
		}
		return nil
	default:
		return fmt.Errorf("query %q: unknown aggregation %q", q.Name, q.Aggregation)
	}
}

// ============================================================================
// GROUPING
// ============================================================================

func groupBySingle(view RecordView, dimension string, skipBlank bool) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if skipBlank && key == "" {
			continue
		}
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}
	sortStrings(order)

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

// ============================================================================
// AGGREGATION
// ============================================================================

// aggregateGroup fills in Count and Value. It returns false when the group's
// value is undefined (rate with a zero or sub-threshold denominator) and the
// group must be dropped.
func aggregateGroup(group *Group, q Query, measure string) bool {
	group.Count = group.View.Len()
	if group.Count == 0 {
		return false
	}

	switch q.Aggregation {
	case AggCount:
		group.Value = float64(group.Count)
	case AggRate:
		scale := q.DenominatorScale
		if scale <= 0 {
			scale = 1
		}
		denom := SumMeasure(group.View, q.Denominator) / scale
		if denom <= 0 || denom < q.MinDenominator {
			return false
		}
		group.Value = SumMeasure(group.View, measure) / denom
	default:
		group.Value = SumMeasure(group.View, measure)
	}
	return true
}

// SumMeasure sums a named measure across a view.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		total += view.Measure(i, measure)
	}
	return total
}

// CountWhere counts records whose measure is non-zero.
func CountWhere(view RecordView, measure string) int {
	n := 0
	for i := 0; i < view.Len(); i++ {
		if view.Measure(i, measure) != 0 {
			n++
		}
	}
	return n
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups sorts aggregate groups by the specified sort mode.
// All sorts are stable.
func SortGroups(groups []Group, sortBy string) {
	switch sortBy {
	case SortValueDesc:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	case SortValueAsc:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value < groups[j].Value })
	case SortKeyAsc:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	default:
		// preserve grouping order
	}
}

func sortStrings(keys []string) {
	sort.Strings(keys)
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

var printer = message.NewPrinter(language.English)

// FormatValue renders whole numbers with thousands separators and
// fractional values with two decimals.
func FormatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LabelForDimension returns a display label for a dimension key.
// "batting_team" → "Batting team".
func LabelForDimension(dimension string) string {
	if len(dimension) == 0 {
		return ""
	}
	s := strings.ReplaceAll(dimension, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}

// LabelForAggregation returns a human-readable label for an aggregation type.
func LabelForAggregation(aggregation string) string {
	switch aggregation {
	case AggSum:
		return "Total"
	case AggCount:
		return "Count"
	case AggRate:
		return "Rate"
	default:
		return "Value"
	}
}
