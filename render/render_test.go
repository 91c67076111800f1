package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/innings/engine"
)

func barChart(chartType string) *engine.ChartConfig {
	return &engine.ChartConfig{
		Name:      "runs-by-season",
		ChartType: chartType,
		Title:     "CSK total runs by season",
		XAxis:     "Season",
		YAxis:     "Runs",
		Series: []engine.ChartSeries{{
			Name: "Runs",
			Data: []engine.ChartPoint{{Label: "2019", Value: 2100}, {Label: "2020", Value: 1800}, {Label: "2021", Value: 2400}},
		}},
		Colors:   []string{"#4F46E5"},
		ShowGrid: true,
	}
}

func stackedChart() *engine.ChartConfig {
	return engine.StackCharts("batting-and-bowling-vs-opponents", "CSK batting & bowling vs opponent teams",
		"Opponent", "Runs", []string{"Runs scored", "Runs conceded"},
		barChart(engine.ChartBar), barChart(engine.ChartBar))
}

func TestRenderers(t *testing.T) {
	charts := map[string]*engine.ChartConfig{
		"bar":     barChart(engine.ChartBar),
		"hbar":    barChart(engine.ChartHBar),
		"stacked": stackedChart(),
	}
	small := Size{Width: 400, Height: 300}

	for _, backend := range []string{BackendPlot, BackendGoChart} {
		renderer, err := New(backend, small)
		require.NoError(t, err)

		for kind, chart := range charts {
			for _, format := range []string{FormatPNG, FormatSVG} {
				t.Run(backend+"/"+kind+"/"+format, func(t *testing.T) {
					path := filepath.Join(t.TempDir(), "nested", kind+"."+format)

					require.NoError(t, renderer.Render(chart, path))

					info, err := os.Stat(path)
					require.NoError(t, err)
					assert.Greater(t, info.Size(), int64(0))
				})
			}
		}
	}
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()

	for _, backend := range []string{BackendPlot, BackendGoChart} {
		renderer, err := New(backend, Size{})
		require.NoError(t, err)

		t.Run(backend+"/empty chart", func(t *testing.T) {
			err := renderer.Render(&engine.ChartConfig{Name: "empty"}, filepath.Join(dir, "empty.png"))

			var renderErr *RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Equal(t, "empty", renderErr.Chart)
			assert.ErrorIs(t, err, ErrEmptyChart)
		})

		t.Run(backend+"/unknown format", func(t *testing.T) {
			err := renderer.Render(barChart(engine.ChartBar), filepath.Join(dir, "chart.gif"))
			var renderErr *RenderError
			assert.ErrorAs(t, err, &renderErr)
		})

		t.Run(backend+"/unwritable directory", func(t *testing.T) {
			blocker := filepath.Join(dir, backend+"-file")
			require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

			err := renderer.Render(barChart(engine.ChartBar), filepath.Join(blocker, "chart.png"))
			var renderErr *RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Equal(t, "runs-by-season", renderErr.Chart)
		})
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New("matplotlib", DefaultSize)
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []*engine.ChartConfig{
		{Name: "economy", Series: []engine.ChartSeries{{Name: "Economy", Data: []engine.ChartPoint{{Label: "Jadeja, R", Value: 6.75}}}}},
		nil,
		stackedChart(),
	}))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1+1+6)
	assert.Equal(t, "chart,series,label,value", string(lines[0]))
	assert.Equal(t, `economy,Economy,"Jadeja, R",6.75`, string(lines[1]))
	assert.Equal(t, "batting-and-bowling-vs-opponents,Runs scored,2019,2100", string(lines[2]))
	assert.Equal(t, "batting-and-bowling-vs-opponents,Runs conceded,2021,2400", string(lines[7]))
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "series.csv")
	require.NoError(t, WriteCSVFile(path, []*engine.ChartConfig{barChart(engine.ChartBar)}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "runs-by-season,Runs,2020,1800")
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.xlsx")
	q := engine.Query{Name: "runs-by-season", Title: "Runs", XAxis: "Season", YAxis: "Runs", Aggregation: engine.AggSum}
	table := engine.BuildTable(q, []engine.Group{{Label: "2020", Value: 7, Count: 2}})

	err := WriteWorkbook(path, []Sheet{
		{Name: "batting-and-bowling-vs-opponents", Title: "Combined", Chart: stackedChart()},
		{Name: "runs-by-season", Title: "Runs", Table: table},
		{Name: "top-10-economical-bowlers", Title: "Economy", Chart: &engine.ChartConfig{}},
	})
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"batting-and-bowling-vs-opponent", "runs-by-season", "top-10-economical-bowlers"}, f.GetSheetList())

	rows, err := f.GetRows("runs-by-season")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Season", "Runs", "Deliveries"}, rows[1])
	assert.Equal(t, []string{"2020", "7", "2"}, rows[2])
	assert.Equal(t, []string{"Total", "7", "2"}, rows[3])

	combined, err := f.GetRows("batting-and-bowling-vs-opponent")
	require.NoError(t, err)
	assert.Equal(t, []string{"Opponent", "Runs scored", "Runs conceded"}, combined[1])
	assert.Equal(t, []string{"2019", "2100", "2100"}, combined[2])
}

func TestWriteWorkbook_NoSheets(t *testing.T) {
	assert.Error(t, WriteWorkbook(filepath.Join(t.TempDir(), "x.xlsx"), nil))
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{}
	long := "a-sheet-name-well-over-the-limit-of-xlsx"

	first := sheetName(long, 0, used)
	second := sheetName(long, 1, used)
	third := sheetName(long, 2, used)

	assert.Len(t, first, maxSheetName)
	assert.Len(t, second, maxSheetName)
	assert.Equal(t, "~2", second[len(second)-2:])
	assert.Equal(t, "~3", third[len(third)-2:])
	assert.Equal(t, "Sheet4", sheetName("", 3, used))
}

func TestRenderError(t *testing.T) {
	cause := errors.New("disk full")
	err := &RenderError{Chart: "runs-by-season", Path: "out/runs-by-season.png", Err: cause}
	assert.Equal(t, "render runs-by-season to out/runs-by-season.png: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
}
