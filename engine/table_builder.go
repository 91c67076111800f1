package engine

import (
	"fmt"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from Query + Groups
// ============================================================================
// Used by the CSV and workbook exports; one row per group, in result order.
// ============================================================================

// BuildTable produces a TableData from a Query and its groups.
func BuildTable(q Query, groups []Group) *TableData {
	groupLabel := "Group"
	if q.XAxis != "" {
		groupLabel = q.XAxis
	} else if q.GroupBy != "" {
		groupLabel = LabelForDimension(q.GroupBy)
	}
	valueLabel := q.YAxis
	if valueLabel == "" {
		valueLabel = LabelForAggregation(q.Aggregation)
	}

	columns := []Column{
		{Key: "group", Label: groupLabel, Type: "text", Align: "left"},
		{Key: "value", Label: valueLabel, Type: "number", Align: "right"},
		{Key: "count", Label: "Deliveries", Type: "number", Align: "right"},
	}

	rows := make([][]string, 0, len(groups))
	var totalValue float64
	var totalCount int

	for _, g := range groups {
		rows = append(rows, []string{
			g.Label,
			formatCell(g.Value),
			fmt.Sprintf("%d", g.Count),
		})
		totalValue += g.Value
		totalCount += g.Count
	}

	table := &TableData{
		Title:   q.Title,
		Columns: columns,
		Rows:    rows,
	}
	// A total of rates means nothing.
	if q.Aggregation != AggRate {
		table.Summary = &Summary{
			Label: "Total",
			Values: map[string]string{
				"value": formatCell(totalValue),
				"count": fmt.Sprintf("%d", totalCount),
			},
		}
	}
	return table
}

// formatCell keeps table cells machine-readable (no grouping separators).
func formatCell(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
