package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/innings/engine"
)

// ============================================================================
// RENDER — Draws a ChartConfig to an image file
// ============================================================================
// Renderers only visualise: labels and values are drawn in the order
// and with the numbers the ChartConfig carries.
// ============================================================================

// Backend names accepted by New.
const (
	BackendPlot    = "plot"
	BackendGoChart = "gochart"
)

// Output formats, used as file extensions.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// ErrEmptyChart is returned when a chart has no points to draw.
var ErrEmptyChart = errors.New("chart has no data")

// RenderError reports a chart that could not be written.
type RenderError struct {
	Chart string
	Path  string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s to %s: %v", e.Chart, e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Renderer draws one chart to path.
type Renderer interface {
	Render(chart *engine.ChartConfig, path string) error
}

// Size is the output size in pixels.
type Size struct {
	Width  int
	Height int
}

// DefaultSize is used when a dimension is zero.
var DefaultSize = Size{Width: 1000, Height: 500}

func (s Size) orDefault() Size {
	if s.Width <= 0 {
		s.Width = DefaultSize.Width
	}
	if s.Height <= 0 {
		s.Height = DefaultSize.Height
	}
	return s
}

// New returns the renderer for backend.
func New(backend string, size Size) (Renderer, error) {
	switch backend {
	case BackendPlot, "":
		return NewPlotRenderer(size), nil
	case BackendGoChart:
		return NewGoChartRenderer(size), nil
	default:
		return nil, fmt.Errorf("unknown render backend %q", backend)
	}
}

// ValidFormat reports whether format is a supported output format.
func ValidFormat(format string) bool {
	return format == FormatPNG || format == FormatSVG
}

// formatOf returns the output format implied by path's extension.
func formatOf(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !ValidFormat(ext) {
		return "", fmt.Errorf("unsupported image format %q", ext)
	}
	return ext, nil
}

// prepare checks the chart and creates the output directory.
func prepare(chart *engine.ChartConfig, path string) (string, error) {
	if chart.IsEmpty() {
		return "", ErrEmptyChart
	}
	format, err := formatOf(path)
	if err != nil {
		return "", err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	return format, nil
}

func wrap(chart *engine.ChartConfig, path string, err error) error {
	name := ""
	if chart != nil {
		name = chart.Name
	}
	return &RenderError{Chart: name, Path: path, Err: err}
}

// seriesColor returns the colour of series i, falling back to the
// chart palette.
func seriesColor(chart *engine.ChartConfig, i int) drawing.Color {
	hex := chart.Series[i].Color
	if hex == "" && i < len(chart.Colors) {
		hex = chart.Colors[i]
	}
	if hex == "" {
		hex = "#4F46E5"
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// values returns the values of series i in label order.
func values(chart *engine.ChartConfig, i int) []float64 {
	data := chart.Series[i].Data
	out := make([]float64, len(data))
	for j, p := range data {
		out[j] = p.Value
	}
	return out
}

func reversed[T any](in []T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
