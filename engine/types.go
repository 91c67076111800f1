package engine

// ============================================================================
// ENGINE TYPES — Domain-Agnostic Aggregation
// ============================================================================
// Rows are read through RecordView; the engine owns no row type.
// Query describes one filter → group → reduce → sort → limit pass.
//
// Dependencies: zap for logging, x/text for number formatting.
// ============================================================================

// Aggregation kinds understood by Execute.
const (
	AggSum   = "sum"
	AggCount = "count"
	AggRate  = "rate"
)

// Sort modes understood by SortGroups.
const (
	SortNone      = "none"
	SortValueDesc = "value_desc"
	SortValueAsc  = "value_asc"
	SortKeyAsc    = "key_asc"
)

// Chart kinds a renderer must support.
const (
	ChartBar        = "bar"
	ChartHBar       = "hbar"
	ChartStackedBar = "stacked_bar"
)

// ============================================================================
// QUERY — what the engine should compute
// ============================================================================

// Query defines one aggregation over a RecordView.
type Query struct {
	Name    string  `json:"name"`  // stable slug, used for file names
	Title   string  `json:"title"` // chart/table title
	Filters Filters `json:"filters"`
	GroupBy string  `json:"groupBy"` // dimension key

	// SkipBlankKeys drops records whose GroupBy value is empty.
	SkipBlankKeys bool `json:"skipBlankKeys,omitempty"`

	Aggregation string `json:"aggregation"` // "sum", "count", "rate"
	Measure     string `json:"measure"`     // measure to aggregate (empty → default)

	// Rate only: value = sum(Measure) / (sum(Denominator) / DenominatorScale).
	// Groups whose scaled denominator is zero or below MinDenominator are dropped.
	Denominator      string  `json:"denominator,omitempty"`
	DenominatorScale float64 `json:"denominatorScale,omitempty"`
	MinDenominator   float64 `json:"minDenominator,omitempty"`

	SortBy string `json:"sortBy"` // "value_desc", "value_asc", "key_asc", "none"
	Limit  int    `json:"limit"`  // 0 = all

	Visualize string `json:"visualize"` // "bar", "hbar", "stacked_bar"
	XAxis     string `json:"xAxis,omitempty"`
	YAxis     string `json:"yAxis,omitempty"`
	Reply     string `json:"reply,omitempty"` // "{top_label} leads with {top_value}."
}

// Filters define which records to include.
// AND across keys, OR within a key. Empty = all.
type Filters struct {
	Dimensions map[string][]string  `json:"dimensions,omitempty"`
	Measures   map[string][]float64 `json:"measures,omitempty"`
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	for _, vals := range f.Measures {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ============================================================================
// RESULT — Render-ready output
// ============================================================================

// Result is the engine's render-ready output for one query.
type Result struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Reply string `json:"reply"`

	// Empty is set when no group survived filtering. Not an error.
	Empty bool `json:"empty"`

	Groups      []Group      `json:"groups"`
	ChartConfig *ChartConfig `json:"chartConfig,omitempty"`
	TableData   *TableData   `json:"tableData,omitempty"`

	// Rows is the number of records left after filtering.
	Rows int `json:"rows"`
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group represents a grouped/aggregated result.
type Group struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Value float64    `json:"value"`
	Count int        `json:"count"`
	View  RecordView `json:"-"` // Sub-view for records in this group (zero-copy)
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
// A renderer visualizes exactly what it is given; it never re-sorts.
type ChartConfig struct {
	Name       string        `json:"name"`
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// Labels returns the category labels of the chart, taken from the first series.
func (c *ChartConfig) Labels() []string {
	if c == nil || len(c.Series) == 0 {
		return nil
	}
	labels := make([]string, len(c.Series[0].Data))
	for i, p := range c.Series[0].Data {
		labels[i] = p.Label
	}
	return labels
}

// IsEmpty reports whether the chart has no points to draw.
func (c *ChartConfig) IsEmpty() bool {
	if c == nil {
		return true
	}
	for _, s := range c.Series {
		if len(s.Data) > 0 {
			return false
		}
	}
	return true
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData is a tabular rendering of a result, used by exports.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}
