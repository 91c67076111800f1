package render

import (
	"math"
	"os"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/innings/engine"
)

// GoChartRenderer draws charts with go-chart. Vertical bars use BarChart;
// horizontal and stacked bars use StackedBarChart.
type GoChartRenderer struct {
	size Size
}

// NewGoChartRenderer returns a go-chart renderer producing images of size.
func NewGoChartRenderer(size Size) *GoChartRenderer {
	return &GoChartRenderer{size: size.orDefault()}
}

// Render draws c and saves it to path; the extension picks the format.
func (r *GoChartRenderer) Render(c *engine.ChartConfig, path string) error {
	format, err := prepare(c, path)
	if err != nil {
		return wrap(c, path, err)
	}

	provider := chart.PNG
	if format == FormatSVG {
		provider = chart.SVG
	}

	f, err := os.Create(path)
	if err != nil {
		return wrap(c, path, err)
	}

	switch c.ChartType {
	case engine.ChartHBar, engine.ChartStackedBar:
		err = r.stacked(c).Render(provider, f)
	default:
		err = r.bar(c).Render(provider, f)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return wrap(c, path, err)
	}
	return nil
}

func (r *GoChartRenderer) bar(c *engine.ChartConfig) *chart.BarChart {
	color := seriesColor(c, 0)
	bars := make([]chart.Value, 0, len(c.Series[0].Data))
	for _, p := range c.Series[0].Data {
		bars = append(bars, chart.Value{
			Label: p.Label,
			Value: p.Value,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
	}

	barWidth := r.size.Width / (len(bars) + 1) * 7 / 10
	if barWidth < 4 {
		barWidth = 4
	}
	// A fixed range from zero keeps single-bar and equal-value charts drawable.
	peak := 0.0
	for _, b := range bars {
		peak = math.Max(peak, b.Value)
	}
	if peak <= 0 {
		peak = 1
	}
	return &chart.BarChart{
		Title:        c.Title,
		Width:        r.size.Width,
		Height:       r.size.Height,
		BarWidth:     barWidth,
		Background:   chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis:        chart.YAxis{Name: c.YAxis, Range: &chart.ContinuousRange{Min: 0, Max: peak * 1.1}},
		UseBaseValue: true,
		Bars:         bars,
	}
}

// stacked lays out one StackedBar per label with one segment per series.
// StackedBarChart scales every bar to full length, so each bar is padded
// with a transparent segment up to the tallest total. Horizontal bars fill
// from the right edge and vertical bars from the top, so the padding
// segment goes first and the series follow in reverse to keep the first
// series at the base.
func (r *GoChartRenderer) stacked(c *engine.ChartConfig) *chart.StackedBarChart {
	labels := c.Labels()
	totals := make([]float64, len(labels))
	for i := range c.Series {
		for j, v := range values(c, i) {
			if j < len(totals) && v > 0 {
				totals[j] += v
			}
		}
	}
	peak := 0.0
	for _, t := range totals {
		peak = math.Max(peak, t)
	}
	if peak == 0 {
		peak = 1
	}

	padding := chart.Style{FillColor: drawing.ColorTransparent, StrokeColor: drawing.ColorTransparent}
	bars := make([]chart.StackedBar, len(labels))
	for j, label := range labels {
		segments := []chart.Value{{Value: peak - totals[j], Style: padding}}
		for i := len(c.Series) - 1; i >= 0; i-- {
			data := c.Series[i].Data
			if j >= len(data) {
				continue
			}
			color := seriesColor(c, i)
			segments = append(segments, chart.Value{
				Value: data[j].Value,
				Style: chart.Style{FillColor: color, StrokeColor: color},
			})
		}
		bars[j] = chart.StackedBar{Name: label, Values: segments}
	}

	horizontal := c.ChartType == engine.ChartHBar
	span := r.size.Width
	if horizontal {
		span = r.size.Height
	}
	barWidth := span / (len(bars) + 1) * 7 / 10
	if barWidth < 4 {
		barWidth = 4
	}
	for j := range bars {
		bars[j].Width = barWidth
	}

	title := c.Title
	if c.ShowLegend && len(c.Series) > 1 {
		names := make([]string, len(c.Series))
		for i, s := range c.Series {
			names[i] = s.Name
		}
		title += " (" + strings.Join(names, " / ") + ")"
	}
	return &chart.StackedBarChart{
		Title:        title,
		Width:        r.size.Width,
		Height:       r.size.Height,
		Background:   chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		IsHorizontal: horizontal,
		Bars:         bars,
	}
}
