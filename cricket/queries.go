package cricket

import (
	"fmt"

	"github.com/spektr-org/innings/engine"
	"github.com/spektr-org/innings/schema"
)

// TeamShort abbreviates Team in chart titles.
const TeamShort = "CSK"

// TopN caps every ranked query.
const TopN = 10

// Economy thresholds: an over is six balls, and only bowlers with at
// least MinOvers overs are ranked.
const (
	BallsPerOver = 6
	MinOvers     = 30
)

// Query names double as output file stems.
const (
	BattingVsOpponents   = "batting-vs-opponents"
	BowlingVsOpponents   = "bowling-vs-opponents"
	RunsBySeason         = "runs-by-season"
	WicketsBySeason      = "wickets-by-season"
	TopPartnerships      = "top-10-partnerships"
	TopBoundaryHitters   = "top-10-boundary-hitters"
	TopRunScorers        = "top-10-run-scorers"
	TopEconomicalBowlers = "top-10-economical-bowlers"
	WicketsVsOpponents   = "wickets-vs-opponents"
	TopWicketTakers      = "top-10-wicket-takers"

	// CombinedVsOpponents stacks BattingVsOpponents and BowlingVsOpponents.
	CombinedVsOpponents = "batting-and-bowling-vs-opponents"
)

// columns supplies axis labels for columns the charts are keyed on.
var columns = schema.Deliveries()

func label(key string) string { return columns.DisplayName(key) }

func batting() engine.Filters {
	return engine.Filters{Dimensions: map[string][]string{schema.BattingTeam: {Team}}}
}

func bowling() engine.Filters {
	return engine.Filters{Dimensions: map[string][]string{schema.BowlingTeam: {Team}}}
}

func wicketsTaken() engine.Filters {
	f := bowling()
	f.Measures = map[string][]float64{schema.Dismissal: {1}}
	return f
}

func boundaries() engine.Filters {
	f := batting()
	f.Measures = map[string][]float64{schema.RunsOffBat: {4, 6}}
	return f
}

// Queries returns the query definitions in report order. Rows with a blank
// group key are left out of every query.
func Queries() []engine.Query {
	return []engine.Query{
		{
			Name:          BattingVsOpponents,
			Title:         TeamShort + " runs scored vs opponent teams",
			Filters:       batting(),
			GroupBy:       schema.BowlingTeam,
			SkipBlankKeys: true,
			Aggregation:   engine.AggSum,
			Measure:       schema.TotalRuns,
			SortBy:        engine.SortValueDesc,
			Visualize:     engine.ChartBar,
			XAxis:         "Opponent",
			YAxis:         label(schema.TotalRuns),
			Reply:         "Most runs scored against {top_label}: {top_value}",
		},
		{
			Name:          BowlingVsOpponents,
			Title:         TeamShort + " runs conceded vs opponent teams",
			Filters:       bowling(),
			GroupBy:       schema.BattingTeam,
			SkipBlankKeys: true,
			Aggregation:   engine.AggSum,
			Measure:       schema.TotalRuns,
			SortBy:        engine.SortValueDesc,
			Visualize:     engine.ChartBar,
			XAxis:         "Opponent",
			YAxis:         label(schema.TotalRuns),
			Reply:         "Most runs conceded to {top_label}: {top_value}",
		},
		{
			Name:          RunsBySeason,
			Title:         TeamShort + " total runs by season",
			Filters:       batting(),
			GroupBy:       schema.Season,
			SkipBlankKeys: true,
			Aggregation:   engine.AggSum,
			Measure:       schema.TotalRuns,
			SortBy:        engine.SortNone,
			Visualize:     engine.ChartBar,
			XAxis:         label(schema.Season),
			YAxis:         label(schema.TotalRuns),
			Reply:         "{total} runs over {groups} seasons",
		},
		{
			Name:          WicketsBySeason,
			Title:         TeamShort + " wickets taken by season",
			Filters:       wicketsTaken(),
			GroupBy:       schema.Season,
			SkipBlankKeys: true,
			Aggregation:   engine.AggCount,
			SortBy:        engine.SortNone,
			Visualize:     engine.ChartBar,
			XAxis:         label(schema.Season),
			YAxis:         label(schema.Dismissal),
			Reply:         "{total} wickets over {groups} seasons",
		},
		{
			Name:          TopPartnerships,
			Title:         "Top 10 " + TeamShort + " batting partnerships",
			Filters:       batting(),
			GroupBy:       schema.Partnership,
			SkipBlankKeys: true,
			Aggregation:   engine.AggSum,
			Measure:       schema.RunsOffBat,
			SortBy:        engine.SortValueDesc,
			Limit:         TopN,
			Visualize:     engine.ChartHBar,
			XAxis:         label(schema.Partnership),
			YAxis:         "Runs",
			Reply:         "Best partnership: {top_label} with {top_value} runs",
		},
		{
			Name:          TopBoundaryHitters,
			Title:         "Top 10 " + TeamShort + " batsmen: 4s & 6s (counts)",
			Filters:       boundaries(),
			GroupBy:       schema.Striker,
			SkipBlankKeys: true,
			Aggregation:   engine.AggCount,
			SortBy:        engine.SortValueDesc,
			Limit:         TopN,
			Visualize:     engine.ChartHBar,
			XAxis:         "Batsman",
			YAxis:         "Boundaries",
			Reply:         "{top_label} hit the most boundaries: {top_value}",
		},
		{
			Name:          TopRunScorers,
			Title:         "Top 10 " + TeamShort + " batsmen: total runs",
			Filters:       batting(),
			GroupBy:       schema.Striker,
			SkipBlankKeys: true,
			Aggregation:   engine.AggSum,
			Measure:       schema.RunsOffBat,
			SortBy:        engine.SortValueDesc,
			Limit:         TopN,
			Visualize:     engine.ChartHBar,
			XAxis:         "Batsman",
			YAxis:         "Runs",
			Reply:         "{top_label} scored the most runs: {top_value}",
		},
		{
			Name:             TopEconomicalBowlers,
			Title:            "Top 10 " + TeamShort + " most economical bowlers (>=30 overs)",
			Filters:          bowling(),
			GroupBy:          schema.Bowler,
			SkipBlankKeys:    true,
			Aggregation:      engine.AggRate,
			Measure:          schema.TotalRuns,
			Denominator:      schema.BallsBowled,
			DenominatorScale: BallsPerOver,
			MinDenominator:   MinOvers,
			SortBy:           engine.SortValueAsc,
			Limit:            TopN,
			Visualize:        engine.ChartHBar,
			XAxis:            label(schema.Bowler),
			YAxis:            "Economy rate",
			Reply:            "{top_label} has the best economy: {top_value} runs per over",
		},
		{
			Name:          WicketsVsOpponents,
			Title:         "Total wickets taken by " + TeamShort + " bowlers vs opponents",
			Filters:       wicketsTaken(),
			GroupBy:       schema.BattingTeam,
			SkipBlankKeys: true,
			Aggregation:   engine.AggCount,
			SortBy:        engine.SortValueDesc,
			Visualize:     engine.ChartBar,
			XAxis:         "Opponent",
			YAxis:         label(schema.Dismissal),
			Reply:         "Most wickets taken against {top_label}: {top_value}",
		},
		{
			Name:          TopWicketTakers,
			Title:         "Top 10 " + TeamShort + " bowlers: wickets",
			Filters:       wicketsTaken(),
			GroupBy:       schema.Bowler,
			SkipBlankKeys: true,
			Aggregation:   engine.AggCount,
			SortBy:        engine.SortValueDesc,
			Limit:         TopN,
			Visualize:     engine.ChartHBar,
			XAxis:         label(schema.Bowler),
			YAxis:         label(schema.Dismissal),
			Reply:         "{top_label} took the most wickets: {top_value}",
		},
	}
}

// Lookup returns the query named name.
func Lookup(name string) (engine.Query, bool) {
	for _, q := range Queries() {
		if q.Name == name {
			return q, true
		}
	}
	return engine.Query{}, false
}

// Run executes the named query over deliveries that have already been derived.
func Run(name string, view engine.RecordView, opts ...engine.Option) (*engine.Result, error) {
	q, ok := Lookup(name)
	if !ok {
		return nil, &UnknownQueryError{Name: name}
	}
	return engine.Execute(q, view, opts...)
}

// Combine stacks runs conceded on top of runs scored, keyed by the union
// of opponents.
func Combine(batting, bowling *engine.Result) *engine.ChartConfig {
	return engine.StackCharts(
		CombinedVsOpponents,
		TeamShort+" batting & bowling vs opponent teams",
		"Opponent", "Runs",
		[]string{"Runs scored", "Runs conceded"},
		chartOf(batting), chartOf(bowling),
	)
}

func chartOf(r *engine.Result) *engine.ChartConfig {
	if r == nil {
		return nil
	}
	return r.ChartConfig
}

// UnknownQueryError is returned by Run for a name Queries does not define.
type UnknownQueryError struct {
	Name string
}

func (e *UnknownQueryError) Error() string {
	return fmt.Sprintf("unknown query %q", e.Name)
}
