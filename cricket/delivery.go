package cricket

import (
	"github.com/spektr-org/innings/engine"
	"github.com/spektr-org/innings/schema"
)

// Team is the subject team every query is computed for.
const Team = "Chennai Super Kings"

// PairSeparator joins the two names of a partnership key.
const PairSeparator = " & "

// Delivery is one ball bowled in a match.
type Delivery struct {
	Season      string
	BattingTeam string
	BowlingTeam string
	Striker     string
	NonStriker  string
	Bowler      string
	Ball        string
	WicketType  string

	RunsOffBat int
	Extras     int
	Wides      int
	Noballs    int
	Byes       int
	Legbyes    int
	Penalty    int

	// Derived by Derive.
	TotalRuns int
	Dismissal bool
}

// Derive computes the derived columns of d from its base fields.
// It is pure and idempotent.
func Derive(d Delivery) Delivery {
	d.TotalRuns = d.RunsOffBat + d.Extras
	d.Dismissal = d.WicketType != ""
	return d
}

// DeriveAll derives every delivery in place and returns the slice.
func DeriveAll(deliveries []Delivery) []Delivery {
	for i := range deliveries {
		deliveries[i] = Derive(deliveries[i])
	}
	return deliveries
}

// CanonicalPair returns the partnership key for two batters: the
// lexicographically smaller name first, joined by PairSeparator. The key is
// also the display label. ok is false when the names are equal or either
// is blank, neither of which the data legitimately contains.
func CanonicalPair(a, b string) (key string, ok bool) {
	if a == b || a == "" || b == "" {
		return "", false
	}
	if b < a {
		a, b = b, a
	}
	return a + PairSeparator + b, true
}

// partnership is the Partnership dimension accessor. Deliveries with a
// self-pairing get an empty key and are filtered out by the query.
func partnership(d Delivery) string {
	key, _ := CanonicalPair(d.Striker, d.NonStriker)
	return key
}

var adapter = engine.NewDomainAdapter[Delivery]().
	Dimension(schema.Season, func(d Delivery) string { return d.Season }).
	Dimension(schema.BattingTeam, func(d Delivery) string { return d.BattingTeam }).
	Dimension(schema.BowlingTeam, func(d Delivery) string { return d.BowlingTeam }).
	Dimension(schema.Striker, func(d Delivery) string { return d.Striker }).
	Dimension(schema.NonStriker, func(d Delivery) string { return d.NonStriker }).
	Dimension(schema.Bowler, func(d Delivery) string { return d.Bowler }).
	Dimension(schema.Ball, func(d Delivery) string { return d.Ball }).
	Dimension(schema.WicketType, func(d Delivery) string { return d.WicketType }).
	Dimension(schema.Partnership, partnership).
	Measure(schema.RunsOffBat, func(d Delivery) float64 { return float64(d.RunsOffBat) }).
	Measure(schema.Extras, func(d Delivery) float64 { return float64(d.Extras) }).
	Measure(schema.Wides, func(d Delivery) float64 { return float64(d.Wides) }).
	Measure(schema.Noballs, func(d Delivery) float64 { return float64(d.Noballs) }).
	Measure(schema.Byes, func(d Delivery) float64 { return float64(d.Byes) }).
	Measure(schema.Legbyes, func(d Delivery) float64 { return float64(d.Legbyes) }).
	Measure(schema.Penalty, func(d Delivery) float64 { return float64(d.Penalty) }).
	Measure(schema.TotalRuns, func(d Delivery) float64 { return float64(d.TotalRuns) }).
	Measure(schema.Dismissal, func(d Delivery) float64 { return boolToFloat(d.Dismissal) }).
	Measure(schema.BallsBowled, func(d Delivery) float64 { return boolToFloat(d.Ball != "") })

// View binds deliveries to an engine view. The slice is not copied and
// must not be modified while queries run.
func View(deliveries []Delivery) engine.RecordView {
	return adapter.Bind(deliveries)
}

// SelfPartnered counts deliveries within view whose striker and non-striker
// are the same non-blank name.
func SelfPartnered(view engine.RecordView) int {
	return engine.Where(view, func(v engine.RecordView, i int) bool {
		striker := v.Dimension(i, schema.Striker)
		return striker != "" && striker == v.Dimension(i, schema.NonStriker)
	}).Len()
}

// UnnamedPair counts deliveries within view missing the striker or the
// non-striker.
func UnnamedPair(view engine.RecordView) int {
	return engine.Where(view, func(v engine.RecordView, i int) bool {
		return v.Dimension(i, schema.Striker) == "" || v.Dimension(i, schema.NonStriker) == ""
	}).Len()
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
