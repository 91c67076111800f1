package render

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/spektr-org/innings/engine"
)

// PlotRenderer draws charts with gonum/plot.
type PlotRenderer struct {
	size Size
}

// NewPlotRenderer returns a gonum/plot renderer producing images of size.
func NewPlotRenderer(size Size) *PlotRenderer {
	return &PlotRenderer{size: size.orDefault()}
}

// pixels converts a pixel count to a vg length at the default 96 DPI.
func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / 96
}

// Render draws chart and saves it to path; the extension picks the format.
func (r *PlotRenderer) Render(chart *engine.ChartConfig, path string) error {
	if _, err := prepare(chart, path); err != nil {
		return wrap(chart, path, err)
	}

	p := plot.New()
	p.Title.Text = chart.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	if chart.ShowGrid {
		p.Add(plotter.NewGrid())
	}

	horizontal := chart.ChartType == engine.ChartHBar
	labels := chart.Labels()
	if horizontal {
		// First entry at the top.
		labels = reversed(labels)
		p.X.Label.Text = chart.YAxis
		p.Y.Label.Text = chart.XAxis
	} else {
		p.X.Label.Text = chart.XAxis
		p.Y.Label.Text = chart.YAxis
	}

	span := r.size.Width
	if horizontal {
		span = r.size.Height
	}
	width := pixels(span) / vg.Length(len(labels)+1) * 0.7
	if width < vg.Points(2) {
		width = vg.Points(2)
	}

	var below *plotter.BarChart
	for i, s := range chart.Series {
		vals := values(chart, i)
		if horizontal {
			vals = reversed(vals)
		}
		bars, err := plotter.NewBarChart(plotter.Values(vals), width)
		if err != nil {
			return wrap(chart, path, err)
		}
		bars.Horizontal = horizontal
		bars.Color = seriesColor(chart, i)
		bars.LineStyle.Width = vg.Length(0)
		if chart.ChartType == engine.ChartStackedBar && below != nil {
			bars.StackOn(below)
		}
		below = bars

		p.Add(bars)
		if chart.ShowLegend {
			p.Legend.Add(s.Name, bars)
		}
	}
	p.Legend.Top = true

	if horizontal {
		p.NominalY(labels...)
	} else {
		p.NominalX(labels...)
		if len(labels) > 6 {
			p.X.Tick.Label.Rotation = math.Pi / 4
			p.X.Tick.Label.XAlign = draw.XRight
			p.X.Tick.Label.YAlign = draw.YCenter
		}
	}

	if err := p.Save(pixels(r.size.Width), pixels(r.size.Height), path); err != nil {
		return wrap(chart, path, err)
	}
	return nil
}
