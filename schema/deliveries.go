package schema

// Column keys of the delivery table (cricsheet naming).
const (
	Season      = "season"
	BattingTeam = "batting_team"
	BowlingTeam = "bowling_team"
	Striker     = "striker"
	NonStriker  = "non_striker"
	Bowler      = "bowler"
	Ball        = "ball"
	WicketType  = "wicket_type"

	RunsOffBat = "runs_off_bat"
	Extras     = "extras"
	Wides      = "wides"
	Noballs    = "noballs"
	Byes       = "byes"
	Legbyes    = "legbyes"
	Penalty    = "penalty"

	// Derived after load.
	TotalRuns   = "total_runs"
	Dismissal   = "dismissal"
	BallsBowled = "balls"
	Partnership = "partnership"
)

// Deliveries describes the delivery-level input table. Every dimension and
// numeric column is required in the header; wicket_type may be missing per row.
func Deliveries() Config {
	wicket := DefaultDimension(WicketType, "Wicket Type")
	wicket.Optional = true
	wicket.Description = "Empty when no dismissal happened on the delivery"

	ball := DefaultDimension(Ball, "Ball")
	ball.Description = "Over.ball identifier; only counted"

	return Config{
		Name:        "Deliveries",
		Version:     "1.0",
		Description: "One row per ball bowled",
		Dimensions: []DimensionMeta{
			DefaultDimension(Season, "Season"),
			DefaultDimension(BattingTeam, "Batting Team"),
			DefaultDimension(BowlingTeam, "Bowling Team"),
			DefaultDimension(Striker, "Striker"),
			DefaultDimension(NonStriker, "Non-Striker"),
			DefaultDimension(Bowler, "Bowler"),
			ball,
			wicket,
			{Key: Partnership, DisplayName: "Partnership", Derived: true},
		},
		Measures: []MeasureMeta{
			withUnit(DefaultMeasure(RunsOffBat, "Runs Off Bat"), "runs"),
			withUnit(DefaultMeasure(Extras, "Extras"), "runs"),
			withUnit(DefaultMeasure(Wides, "Wides"), "runs"),
			withUnit(DefaultMeasure(Noballs, "No-balls"), "runs"),
			withUnit(DefaultMeasure(Byes, "Byes"), "runs"),
			withUnit(DefaultMeasure(Legbyes, "Leg Byes"), "runs"),
			withUnit(DefaultMeasure(Penalty, "Penalty"), "runs"),
			{Key: TotalRuns, DisplayName: "Runs", Unit: "runs", IsSynthetic: true, DefaultAggregation: "sum"},
			{Key: Dismissal, DisplayName: "Wickets", Unit: "wickets", IsSynthetic: true, DefaultAggregation: "count"},
			{Key: BallsBowled, DisplayName: "Balls", Unit: "deliveries", IsSynthetic: true, DefaultAggregation: "count"},
		},
	}
}

func withUnit(m MeasureMeta, unit string) MeasureMeta {
	m.Unit = unit
	return m
}
