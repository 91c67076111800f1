package engine

// ============================================================================
// CHART BUILDER — Produces ChartConfig from Query + Groups
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// BuildChart produces a ChartConfig from a Query and aggregated groups.
// Points keep the order of groups. Returns an empty-series config when
// there are no groups so callers can still name the omitted chart.
func BuildChart(q Query, groups []Group) *ChartConfig {
	chartType := q.Visualize
	if chartType == "" {
		chartType = ChartBar
	}

	config := &ChartConfig{
		Name:      q.Name,
		ChartType: chartType,
		Title:     q.Title,
		XAxis:     q.XAxis,
		YAxis:     q.YAxis,
		ShowGrid:  true,
	}
	if config.XAxis == "" {
		config.XAxis = LabelForDimension(q.GroupBy)
	}
	if config.YAxis == "" {
		config.YAxis = LabelForAggregation(q.Aggregation)
	}

	config.Series = buildSingleSeries(groups, q.Title)
	config.Colors = assignColors(len(config.Series))
	return config
}

// StackCharts combines single-series charts into one stacked chart.
// Categories are the union of all labels: the first chart's order, then
// labels unseen so far in the order later charts list them. Missing
// values are zero. Series names come from seriesNames, in order.
func StackCharts(name, title, xAxis, yAxis string, seriesNames []string, charts ...*ChartConfig) *ChartConfig {
	var labels []string
	seen := make(map[string]bool)
	for _, c := range charts {
		for _, l := range c.Labels() {
			if !seen[l] {
				seen[l] = true
				labels = append(labels, l)
			}
		}
	}

	series := make([]ChartSeries, 0, len(charts))
	for i, c := range charts {
		lookup := make(map[string]float64)
		if c != nil && len(c.Series) > 0 {
			for _, p := range c.Series[0].Data {
				lookup[p.Label] = p.Value
			}
		}

		points := make([]ChartPoint, 0, len(labels))
		for _, l := range labels {
			points = append(points, ChartPoint{Label: l, Value: lookup[l]})
		}

		seriesName := ""
		if i < len(seriesNames) {
			seriesName = seriesNames[i]
		}
		series = append(series, ChartSeries{
			Name:  seriesName,
			Data:  points,
			Color: defaultColors[i%len(defaultColors)],
		})
	}

	return &ChartConfig{
		Name:       name,
		ChartType:  ChartStackedBar,
		Title:      title,
		XAxis:      xAxis,
		YAxis:      yAxis,
		Series:     series,
		Colors:     assignColors(len(series)),
		ShowLegend: true,
		ShowGrid:   true,
	}
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func buildSingleSeries(groups []Group, seriesName string) []ChartSeries {
	if seriesName == "" {
		seriesName = "Value"
	}

	points := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, ChartPoint{
			Label: g.Label,
			Value: RoundTo2(g.Value),
		})
	}

	return []ChartSeries{{
		Name: seriesName,
		Data: points,
	}}
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
