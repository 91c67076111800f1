package engine

import (
	"regexp"
	"strings"
)

// ============================================================================
// EXECUTOR — Dispatcher + Placeholder Resolution
// ============================================================================
// Entry point: Execute(query, view, opts...)
//
// Pipeline:
//   1. Apply filters from Query → SubView
//   2. Group and aggregate (drop undefined rates)
//   3. Sort + limit
//   4. Build chart and table
//   5. Resolve reply template placeholders
//   6. Return Result
//
// An empty result is valid: Result.Empty is set and a warning is logged.
// Execute only fails on an invalid Query definition.
// ============================================================================

// Execute runs a Query against a RecordView and returns a render-ready Result.
//
// Options:
//   - WithLogger(logger) — routes diagnostics to a zap logger
//
// Count queries leave Query.Measure empty; sum and rate queries name it.
func Execute(q Query, view RecordView, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)
	log := cfg.Logger.With("query", q.Name)

	measure := q.Measure

	// 1. Apply filters → SubView (zero-copy)
	filtered := ApplyFilters(view, q.Filters)
	log.Debugw("filtered", "rows", filtered.Len(), "from", view.Len())

	// 2–3. Group, aggregate, sort, limit
	groups, err := GroupAndAggregate(filtered, q, measure)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Name:   q.Name,
		Title:  q.Title,
		Groups: groups,
		Rows:   filtered.Len(),
		Empty:  len(groups) == 0,
	}

	// 4. Builders
	result.ChartConfig = BuildChart(q, groups)
	result.TableData = BuildTable(q, groups)

	if result.Empty {
		log.Warnw("query produced no groups", "rows", filtered.Len())
		result.Reply = "No records match this query."
		return result, nil
	}

	// 5. Reply
	result.Reply = ResolvePlaceholders(q.Reply, groups, filtered)
	log.Debugw("aggregated", "groups", len(groups), "aggregation", q.Aggregation, "measure", measure)

	return result, nil
}

// ============================================================================
// PLACEHOLDER RESOLUTION
// ============================================================================

// ResolvePlaceholders substitutes computed values into the reply template.
//
//	{top_label}  first group's label (results are already ranked)
//	{top_value}  first group's value
//	{total}      sum of group values
//	{groups}     number of groups
//	{count}      number of records behind the result
func ResolvePlaceholders(template string, groups []Group, view RecordView) string {
	if template == "" {
		return buildDefaultReply(groups, view)
	}

	var total float64
	for _, g := range groups {
		total += g.Value
	}

	replacements := map[string]string{
		"{total}":  FormatValue(total),
		"{groups}": FormatValue(float64(len(groups))),
		"{count}":  FormatValue(float64(view.Len())),
	}
	if len(groups) > 0 {
		replacements["{top_label}"] = groups[0].Label
		replacements["{top_value}"] = FormatValue(RoundTo2(groups[0].Value))
	}

	result := template
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	// Safety net: strip unresolved placeholders
	return stripUnresolvedPlaceholders(result)
}

// ============================================================================
// INTERNAL HELPERS
// ============================================================================

func buildDefaultReply(groups []Group, view RecordView) string {
	if len(groups) == 0 {
		return "No records match this query."
	}
	return "Found " + FormatValue(float64(len(groups))) + " groups across " +
		FormatValue(float64(view.Len())) + " records."
}

var placeholderRegex = regexp.MustCompile(`\{[a-z_]+\}`)

func stripUnresolvedPlaceholders(text string) string {
	cleaned := placeholderRegex.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, "  ", " ")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimRight(cleaned, " .—-–")
	if cleaned == "" {
		return text
	}
	return cleaned
}
