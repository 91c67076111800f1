package cricket

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/innings/engine"
)

const opponent = "X"

// exampleDeliveries is the three-row table used throughout the tests.
func exampleDeliveries() []Delivery {
	return DeriveAll([]Delivery{
		{BattingTeam: Team, BowlingTeam: opponent, Striker: "A", NonStriker: "B", Bowler: "P", Ball: "0.1", RunsOffBat: 4, Season: "2020"},
		{BattingTeam: Team, BowlingTeam: opponent, Striker: "B", NonStriker: "A", Bowler: "P", Ball: "0.2", RunsOffBat: 2, Extras: 1, Season: "2020"},
		{BattingTeam: opponent, BowlingTeam: Team, Striker: "C", NonStriker: "D", Bowler: "Q", Ball: "0.1", WicketType: "caught", Season: "2020"},
	})
}

func run(t *testing.T, name string, deliveries []Delivery) *engine.Result {
	t.Helper()
	res, err := Run(name, View(deliveries))
	require.NoError(t, err)
	return res
}

func points(res *engine.Result) map[string]float64 {
	out := make(map[string]float64)
	for _, p := range res.ChartConfig.Series[0].Data {
		out[p.Label] = p.Value
	}
	return out
}

func TestExample(t *testing.T) {
	deliveries := exampleDeliveries()

	assert.Equal(t, map[string]float64{"2020": 7}, points(run(t, RunsBySeason, deliveries)))
	assert.Equal(t, map[string]float64{"A & B": 6}, points(run(t, TopPartnerships, deliveries)))
	assert.Equal(t, map[string]float64{opponent: 1}, points(run(t, WicketsVsOpponents, deliveries)))
	assert.Equal(t, map[string]float64{opponent: 7}, points(run(t, BattingVsOpponents, deliveries)))
	assert.Equal(t, map[string]float64{"Q": 1}, points(run(t, TopWicketTakers, deliveries)))
	assert.Equal(t, map[string]float64{"2020": 1}, points(run(t, WicketsBySeason, deliveries)))
	assert.Equal(t, map[string]float64{"A": 1}, points(run(t, TopBoundaryHitters, deliveries)), "one boundary delivery")
}

func TestDerive(t *testing.T) {
	t.Run("dismissal follows wicket type", func(t *testing.T) {
		assert.True(t, Derive(Delivery{WicketType: "bowled"}).Dismissal)
		assert.True(t, Derive(Delivery{WicketType: "run out"}).Dismissal)
		assert.False(t, Derive(Delivery{}).Dismissal)
	})

	t.Run("total runs include extras", func(t *testing.T) {
		assert.Equal(t, 7, Derive(Delivery{RunsOffBat: 6, Extras: 1}).TotalRuns)
	})

	t.Run("idempotent", func(t *testing.T) {
		d := Delivery{RunsOffBat: 2, Extras: 3, WicketType: "lbw"}
		once := Derive(d)
		assert.Equal(t, once, Derive(once))
	})
}

func TestCanonicalPair(t *testing.T) {
	ab, ok := CanonicalPair("Raina", "Dhoni")
	require.True(t, ok)
	ba, ok := CanonicalPair("Dhoni", "Raina")
	require.True(t, ok)

	assert.Equal(t, "Dhoni & Raina", ab)
	assert.Equal(t, ab, ba)

	for _, pair := range [][2]string{{"Dhoni", "Dhoni"}, {"", ""}, {"Dhoni", ""}, {"", "Raina"}} {
		key, ok := CanonicalPair(pair[0], pair[1])
		assert.False(t, ok, "%q", pair)
		assert.Empty(t, key)
	}
}

func TestPartnerships(t *testing.T) {
	deliveries := DeriveAll([]Delivery{
		{BattingTeam: Team, Striker: "Raina", NonStriker: "Dhoni", RunsOffBat: 4},
		{BattingTeam: Team, Striker: "Dhoni", NonStriker: "Raina", RunsOffBat: 6},
		{BattingTeam: Team, Striker: "Jadeja", NonStriker: "Jadeja", RunsOffBat: 6},
		{BattingTeam: opponent, Striker: "Kohli", NonStriker: "Dhoni", RunsOffBat: 6},
		{BattingTeam: Team, RunsOffBat: 4},
		{BattingTeam: Team, Striker: "Gaikwad", RunsOffBat: 1},
	})

	res := run(t, TopPartnerships, deliveries)
	assert.Equal(t, map[string]float64{"Dhoni & Raina": 10}, points(res))

	batters := engine.ApplyFilters(View(deliveries), batting())
	assert.Equal(t, 1, SelfPartnered(batters), "blank names are not a self-pairing")
	assert.Equal(t, 2, UnnamedPair(batters))

	scorers := run(t, TopRunScorers, deliveries).ChartConfig.Labels()
	assert.Equal(t, []string{"Dhoni", "Jadeja", "Raina", "Gaikwad"}, scorers, "a blank striker is not a batter")
}

func TestTopTenCap(t *testing.T) {
	var deliveries []Delivery
	for i := 0; i < 15; i++ {
		name := fmt.Sprintf("player%02d", i)
		for j := 0; j <= i; j++ {
			deliveries = append(deliveries,
				Delivery{BattingTeam: Team, Striker: name, NonStriker: "anchor", RunsOffBat: 4},
				Delivery{BowlingTeam: Team, BattingTeam: opponent, Bowler: name, Ball: "1", WicketType: "bowled"},
			)
		}
	}
	DeriveAll(deliveries)

	tests := []struct {
		name   string
		leader string
		value  float64
	}{
		{TopPartnerships, "anchor & player14", 60},
		{TopBoundaryHitters, "player14", 15},
		{TopRunScorers, "player14", 60},
		{TopWicketTakers, "player14", 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.name, deliveries)
			labels := res.ChartConfig.Labels()
			require.Len(t, labels, TopN)
			assert.Equal(t, tt.leader, labels[0])
			assert.Equal(t, tt.value, res.Groups[0].Value)
			assert.NotContains(t, labels, "player04", "smallest groups fall outside the cap")
		})
	}

	t.Run("fewer groups than the cap", func(t *testing.T) {
		res := run(t, TopRunScorers, exampleDeliveries())
		assert.Equal(t, []string{"A", "B"}, res.ChartConfig.Labels())
	})
}

func TestEconomy(t *testing.T) {
	overs := func(bowler string, n int, runsPerBall int) []Delivery {
		var out []Delivery
		for i := 0; i < n*BallsPerOver; i++ {
			out = append(out, Delivery{BowlingTeam: Team, BattingTeam: opponent, Bowler: bowler, Ball: "1", RunsOffBat: runsPerBall})
		}
		return out
	}

	var deliveries []Delivery
	deliveries = append(deliveries, overs("exactly30", 30, 1)...)
	deliveries = append(deliveries, overs("short", 29, 0)...)
	deliveries = append(deliveries, overs("long", 40, 2)...)
	// No legal ball counted: zero overs.
	deliveries = append(deliveries, Delivery{BowlingTeam: Team, Bowler: "noballs", Extras: 1})
	DeriveAll(deliveries)

	res := run(t, TopEconomicalBowlers, deliveries)

	assert.Equal(t, []string{"exactly30", "long"}, res.ChartConfig.Labels())
	assert.Equal(t, map[string]float64{"exactly30": 6, "long": 12}, points(res))
	assert.Nil(t, res.TableData.Summary, "rates are not totalled")
}

func TestSumConservation(t *testing.T) {
	deliveries := DeriveAll([]Delivery{
		{BattingTeam: Team, Season: "2019", RunsOffBat: 4, Extras: 1},
		{BattingTeam: Team, Season: "2021", RunsOffBat: 6},
		{BattingTeam: Team, Season: "2020", RunsOffBat: 1, Extras: 2},
		{BattingTeam: Team, Season: "2019", RunsOffBat: 0, Extras: 5},
		{BattingTeam: opponent, Season: "2019", RunsOffBat: 6},
	})

	res := run(t, RunsBySeason, deliveries)

	var total float64
	for _, p := range res.ChartConfig.Series[0].Data {
		total += p.Value
	}
	assert.Equal(t, 19.0, total)
	assert.Equal(t, []string{"2019", "2020", "2021"}, res.ChartConfig.Labels())
}

func TestDeterminism(t *testing.T) {
	deliveries := DeriveAll([]Delivery{
		{BattingTeam: Team, BowlingTeam: "Y", Striker: "b", NonStriker: "a", RunsOffBat: 4},
		{BattingTeam: Team, BowlingTeam: "Z", Striker: "c", NonStriker: "d", RunsOffBat: 4},
		{BattingTeam: Team, BowlingTeam: "W", Striker: "e", NonStriker: "f", RunsOffBat: 4},
	})

	first := map[string][]string{}
	for _, q := range Queries() {
		first[q.Name] = run(t, q.Name, deliveries).ChartConfig.Labels()
	}
	for i := 0; i < 10; i++ {
		for _, q := range Queries() {
			assert.Equal(t, first[q.Name], run(t, q.Name, deliveries).ChartConfig.Labels(), q.Name)
		}
	}
	assert.Equal(t, []string{"W", "Y", "Z"}, first[BattingVsOpponents], "ties keep ascending key order")
}

func TestCombine(t *testing.T) {
	deliveries := DeriveAll([]Delivery{
		{BattingTeam: Team, BowlingTeam: "MI", RunsOffBat: 10},
		{BattingTeam: Team, BowlingTeam: "RCB", RunsOffBat: 4},
		{BattingTeam: "KKR", BowlingTeam: Team, RunsOffBat: 6},
		{BattingTeam: "MI", BowlingTeam: Team, RunsOffBat: 2},
	})

	c := Combine(run(t, BattingVsOpponents, deliveries), run(t, BowlingVsOpponents, deliveries))

	assert.Equal(t, CombinedVsOpponents, c.Name)
	assert.Equal(t, engine.ChartStackedBar, c.ChartType)
	assert.Equal(t, []string{"MI", "RCB", "KKR"}, c.Labels())
	require.Len(t, c.Series, 2)
	assert.Equal(t, "Runs scored", c.Series[0].Name)
	assert.Equal(t, []engine.ChartPoint{{Label: "MI", Value: 10}, {Label: "RCB", Value: 4}, {Label: "KKR", Value: 0}}, c.Series[0].Data)
	assert.Equal(t, []engine.ChartPoint{{Label: "MI", Value: 2}, {Label: "RCB", Value: 0}, {Label: "KKR", Value: 6}}, c.Series[1].Data)
}

func TestRun_UnknownQuery(t *testing.T) {
	_, err := Run("top-11-anything", View(nil))
	var unknown *UnknownQueryError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "top-11-anything", unknown.Name)
}

func TestQueries(t *testing.T) {
	queries := Queries()
	assert.Len(t, queries, 10)

	seen := map[string]bool{}
	for _, q := range queries {
		assert.False(t, seen[q.Name], "duplicate name %s", q.Name)
		seen[q.Name] = true
		assert.NotEmpty(t, q.Title)

		_, err := engine.Execute(q, View(nil))
		assert.NoError(t, err, q.Name)
	}

	t.Run("axis labels", func(t *testing.T) {
		seasons, _ := Lookup(RunsBySeason)
		assert.Equal(t, "Season", seasons.XAxis)
		assert.Equal(t, "Runs", seasons.YAxis)

		takers, _ := Lookup(TopWicketTakers)
		assert.Equal(t, "Bowler", takers.XAxis)
		assert.Equal(t, "Wickets", takers.YAxis)
	})
}
