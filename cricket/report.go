package cricket

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spektr-org/innings/engine"
	"github.com/spektr-org/innings/schema"
)

// ============================================================================
// REPORT — runs every query, stacks the opponent charts, renders each chart
// ============================================================================
// Query failures can only come from a bad definition and abort the run.
// Render failures are recorded per chart and never stop the other charts.
// Empty results are recorded and their chart is omitted.
// ============================================================================

// Renderer draws one chart to path. It must not filter, sort, or
// recompute the values it is given.
type Renderer interface {
	Render(chart *engine.ChartConfig, path string) error
}

// Status is the outcome of one chart.
type Status string

const (
	StatusRendered Status = "rendered"
	StatusEmpty    Status = "empty"
	StatusFailed   Status = "failed"
)

// Outcome records what happened to one chart.
type Outcome struct {
	Name   string
	Title  string
	Path   string
	Status Status
	Err    error
	Reply  string

	Chart *engine.ChartConfig
	Table *engine.TableData // nil for the stacked chart
}

// Summary is the result of a report run, in chart order.
type Summary struct {
	Deliveries    int
	SelfPartnered int // batting deliveries with striker == non-striker
	UnnamedPair   int // batting deliveries missing either batter's name
	Outcomes      []Outcome
}

// Failed returns the outcomes whose chart could not be written.
func (s *Summary) Failed() []Outcome {
	var failed []Outcome
	for _, o := range s.Outcomes {
		if o.Status == StatusFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

// Count returns how many outcomes have status st.
func (s *Summary) Count(st Status) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == st {
			n++
		}
	}
	return n
}

// Charts returns every computed chart, rendered or not.
func (s *Summary) Charts() []*engine.ChartConfig {
	charts := make([]*engine.ChartConfig, 0, len(s.Outcomes))
	for _, o := range s.Outcomes {
		charts = append(charts, o.Chart)
	}
	return charts
}

// ReportOption configures a Report.
type ReportOption func(*Report)

// WithOutputDir sets the directory charts are written to.
func WithOutputDir(dir string) ReportOption {
	return func(r *Report) { r.outputDir = dir }
}

// WithExtension sets the chart file extension ("png" or "svg").
func WithExtension(ext string) ReportOption {
	return func(r *Report) { r.ext = ext }
}

// WithParallel runs queries and renders on up to n goroutines.
// n <= 0 runs everything sequentially.
func WithParallel(n int) ReportOption {
	return func(r *Report) { r.parallel = n }
}

// WithReportLogger sets the logger. Nil keeps the nop logger.
func WithReportLogger(logger *zap.SugaredLogger) ReportOption {
	return func(r *Report) {
		if logger != nil {
			r.log = logger
		}
	}
}

// Report computes every statistic and renders one chart per statistic.
type Report struct {
	renderer  Renderer
	outputDir string
	ext       string
	parallel  int
	log       *zap.SugaredLogger
}

// NewReport creates a Report that draws with renderer.
func NewReport(renderer Renderer, opts ...ReportOption) *Report {
	r := &Report{
		renderer:  renderer,
		outputDir: ".",
		ext:       "png",
		log:       zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ChartPath returns the deterministic output path for a chart name.
func (r *Report) ChartPath(name string) string {
	return filepath.Join(r.outputDir, name+"."+r.ext)
}

// Run derives the deliveries, executes every query and renders the charts.
// deliveries is modified in place by Derive and then only read.
func (r *Report) Run(ctx context.Context, deliveries []Delivery) (*Summary, error) {
	DeriveAll(deliveries)
	view := View(deliveries)

	batted := engine.ApplyFilters(view, batting())
	summary := &Summary{
		Deliveries:    len(deliveries),
		SelfPartnered: SelfPartnered(batted),
		UnnamedPair:   UnnamedPair(batted),
	}
	if summary.SelfPartnered > 0 {
		r.log.Warnw("deliveries with striker equal to non-striker left out of partnerships",
			"count", summary.SelfPartnered)
	}
	if summary.UnnamedPair > 0 {
		r.log.Warnw("deliveries without a striker or non-striker left out of partnerships",
			"count", summary.UnnamedPair)
	}
	r.log.Infow("deliveries loaded",
		"rows", len(deliveries),
		"wickets", engine.CountWhere(view, schema.Dismissal),
		"team", Team)

	results, err := r.execute(ctx, view)
	if err != nil {
		return nil, err
	}

	// The stacked chart leads; the rest follow query order.
	queries := Queries()
	outcomes := make([]Outcome, 0, len(queries)+1)
	outcomes = append(outcomes, Outcome{
		Name:  CombinedVsOpponents,
		Title: TeamShort + " batting & bowling vs opponent teams",
		Chart: Combine(results[0], results[1]),
	})
	for i, q := range queries {
		outcomes = append(outcomes, Outcome{
			Name:  q.Name,
			Title: q.Title,
			Reply: results[i].Reply,
			Chart: results[i].ChartConfig,
			Table: results[i].TableData,
		})
	}

	if err := r.render(ctx, outcomes); err != nil {
		return nil, err
	}
	summary.Outcomes = outcomes
	return summary, nil
}

func (r *Report) execute(ctx context.Context, view engine.RecordView) ([]*engine.Result, error) {
	queries := Queries()
	results := make([]*engine.Result, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit())
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := engine.Execute(q, view, engine.WithLogger(r.log))
			if err != nil {
				return fmt.Errorf("execute %s: %w", q.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// render fills in Path, Status and Err of every outcome. Only context
// cancellation is returned as an error.
func (r *Report) render(ctx context.Context, outcomes []Outcome) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit())
	for i := range outcomes {
		o := &outcomes[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.renderOne(o)
			return nil
		})
	}
	return g.Wait()
}

func (r *Report) renderOne(o *Outcome) {
	log := r.log.With("chart", o.Name)
	if o.Chart.IsEmpty() {
		o.Status = StatusEmpty
		log.Warn("no data for chart, skipping")
		return
	}

	o.Path = r.ChartPath(o.Name)
	if err := r.renderer.Render(o.Chart, o.Path); err != nil {
		o.Status = StatusFailed
		o.Err = err
		log.Errorw("chart not written", "path", o.Path, "error", err)
		return
	}
	o.Status = StatusRendered
	log.Infow("chart written", "path", o.Path)
}

func (r *Report) limit() int {
	if r.parallel <= 0 {
		return 1
	}
	return r.parallel
}
