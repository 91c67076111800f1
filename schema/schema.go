package schema

import "strings"

// ============================================================================
// SCHEMA — Describes the shape of a dataset for loaders and the engine
// ============================================================================
// The loader uses Config to locate and coerce columns.
// The engine's labels come from the display names declared here.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions" yaml:"dimensions"`
	Measures   []MeasureMeta   `json:"measures" yaml:"measures"`
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key         string `json:"key" yaml:"key"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required" yaml:"required"`
	Optional    bool   `json:"optional,omitempty" yaml:"optional,omitempty"` // missing-value markers read as ""
	Derived     bool   `json:"derived,omitempty" yaml:"derived,omitempty"`   // computed, never read from input
}

// MeasureMeta describes a numeric field used for aggregation.
type MeasureMeta struct {
	Key                string `json:"key" yaml:"key"`
	DisplayName        string `json:"displayName" yaml:"displayName"`
	Description        string `json:"description,omitempty" yaml:"description,omitempty"`
	Unit               string `json:"unit,omitempty" yaml:"unit,omitempty"` // "runs", "deliveries", "wickets"
	Required           bool   `json:"required" yaml:"required"`
	Coerce             bool   `json:"coerce,omitempty" yaml:"coerce,omitempty"`           // missing → 0, cast to integer
	IsSynthetic        bool   `json:"isSynthetic,omitempty" yaml:"isSynthetic,omitempty"` // derived after load
	DefaultAggregation string `json:"defaultAggregation,omitempty" yaml:"defaultAggregation,omitempty"`
}

// DefaultDimension creates a required DimensionMeta.
func DefaultDimension(key, displayName string) DimensionMeta {
	return DimensionMeta{
		Key:         key,
		DisplayName: displayName,
		Required:    true,
	}
}

// DefaultMeasure creates a required, coerced MeasureMeta.
func DefaultMeasure(key, displayName string) MeasureMeta {
	return MeasureMeta{
		Key:                key,
		DisplayName:        displayName,
		Required:           true,
		Coerce:             true,
		DefaultAggregation: "sum",
	}
}

// RequiredColumns returns the input columns a source must carry,
// dimensions first, in declaration order. Derived fields are excluded.
func (c Config) RequiredColumns() []string {
	var cols []string
	for _, d := range c.Dimensions {
		if d.Required && !d.Derived {
			cols = append(cols, d.Key)
		}
	}
	for _, m := range c.Measures {
		if m.Required && !m.IsSynthetic {
			cols = append(cols, m.Key)
		}
	}
	return cols
}

// CoercedColumns returns the measure columns whose missing values become 0.
func (c Config) CoercedColumns() []string {
	var cols []string
	for _, m := range c.Measures {
		if m.Coerce && !m.IsSynthetic {
			cols = append(cols, m.Key)
		}
	}
	return cols
}

// OptionalColumns returns the dimension columns whose cells may be absent.
// The loader reads a missing-value marker in them as an empty string.
func (c Config) OptionalColumns() []string {
	var cols []string
	for _, d := range c.Dimensions {
		if d.Optional && !d.Derived {
			cols = append(cols, d.Key)
		}
	}
	return cols
}

// DisplayName returns the display name for a dimension or measure key,
// or a generated one for unknown keys.
func (c Config) DisplayName(key string) string {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d.DisplayName
		}
	}
	for _, m := range c.Measures {
		if m.Key == key {
			return m.DisplayName
		}
	}
	return ToDisplayName(key)
}

// MissingColumns returns the required columns absent from headers.
// Headers are normalised with ToSnakeCase before comparison.
func (c Config) MissingColumns(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[ToSnakeCase(h)] = true
	}
	var missing []string
	for _, col := range c.RequiredColumns() {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// missingMarkers are the cell values read as "no value", matching the
// markers common CSV exporters (pandas, R, spreadsheets) write for NA.
var missingMarkers = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// IsMissing reports whether a cell holds no value. Surrounding whitespace
// is ignored; the markers themselves are case-sensitive.
func IsMissing(cell string) bool {
	return missingMarkers[strings.TrimSpace(cell)]
}
