// Package innings computes descriptive statistics over delivery-level
// cricket data for a single team and renders each statistic as a chart.
//
// Usage:
//
//	import "github.com/spektr-org/innings/cricket"
//
//	deliveries, err := helpers.LoadDeliveries("csk_deliveries.csv")
//	renderer, err := render.New(render.BackendPlot, render.DefaultSize)
//	report := cricket.NewReport(renderer, cricket.WithOutputDir("charts"))
//	summary, err := report.Run(ctx, deliveries)
//
// The engine package holds the domain-agnostic filter → group → aggregate →
// sort → limit pipeline; the cricket package defines the queries over it.
// Nothing here calls an external service — all computation is local.
package innings
