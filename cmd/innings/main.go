package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/logrusorgru/aurora"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spektr-org/innings/config"
	"github.com/spektr-org/innings/cricket"
	"github.com/spektr-org/innings/helpers"
	"github.com/spektr-org/innings/render"
)

// ============================================================================
// INNINGS CLI — Team statistics charts from a delivery table
// ============================================================================

const version = "0.1.0"

// Exit codes.
const (
	exitOK         = 0
	exitLoadFailed = 1
	exitRenderFail = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("innings", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// ── Flags ─────────────────────────────────────────────────────────────
	configPath := fs.String("config", "", "Path to YAML run configuration")
	filePath := fs.String("file", "", "Path to delivery CSV (default csk_deliveries.csv)")
	outDir := fs.String("out", "", "Directory charts are written to")
	backend := fs.String("backend", "", "Chart backend: plot, gochart")
	format := fs.String("format", "", "Image format: png, svg")
	csvPath := fs.String("csv", "", "Also write every series to this CSV file")
	workbook := fs.String("workbook", "", "Also write every series to this xlsx workbook")
	parallel := fs.Int("parallel", -1, "Queries and renders run at once (0 = sequential)")
	asJSON := fs.Bool("json", false, "Print the computed charts as JSON instead of the summary")
	quiet := fs.Bool("quiet", false, "Only log warnings and errors")
	noColor := fs.Bool("no-color", false, "Disable coloured output")
	showVersion := fs.Bool("version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Innings — %s statistics charts from ball-by-ball data

Usage:
  innings --file csk_deliveries.csv --out charts
  innings --config innings.yaml --backend gochart --format svg
  innings --file deliveries.csv --csv series.csv --workbook series.xlsx

Flags:
`, cricket.Team)
		fs.PrintDefaults()
		fmt.Fprintf(stderr, `
Exit codes:
  0   every chart written or skipped as empty
  1   configuration or data load failure
  3   at least one chart could not be written
`)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitLoadFailed
	}

	if *showVersion {
		fmt.Fprintf(stdout, "innings %s\n", version)
		return exitOK
	}

	au := aurora.NewAurora(!*noColor)
	log := newLogger(stderr, *quiet)
	defer log.Sync()

	// ── Config ────────────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, au.Red("Error:"), err)
		return exitLoadFailed
	}
	override(&cfg.Input, *filePath)
	override(&cfg.OutputDir, *outDir)
	override(&cfg.Backend, *backend)
	override(&cfg.Format, *format)
	override(&cfg.CSV, *csvPath)
	override(&cfg.Workbook, *workbook)
	if *parallel >= 0 {
		cfg.Parallel = *parallel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, au.Red("Error:"), err)
		return exitLoadFailed
	}

	renderer, err := render.New(cfg.Backend, cfg.Size())
	if err != nil {
		fmt.Fprintln(stderr, au.Red("Error:"), err)
		return exitLoadFailed
	}

	// ── Data ──────────────────────────────────────────────────────────────
	deliveries, err := helpers.LoadDeliveries(cfg.Input)
	if err != nil {
		var loadErr *helpers.DataLoadError
		if errors.As(err, &loadErr) {
			log.Errorw("data load failed", "path", loadErr.Path, "row", loadErr.Row, "column", loadErr.Column)
		}
		fmt.Fprintln(stderr, au.Red("Error:"), err)
		return exitLoadFailed
	}

	// ── Report ────────────────────────────────────────────────────────────
	report := cricket.NewReport(renderer,
		cricket.WithOutputDir(cfg.OutputDir),
		cricket.WithExtension(cfg.Format),
		cricket.WithParallel(cfg.Parallel),
		cricket.WithReportLogger(log),
	)
	summary, err := report.Run(context.Background(), deliveries)
	if err != nil {
		fmt.Fprintln(stderr, au.Red("Error:"), err)
		return exitLoadFailed
	}

	// ── Exports ───────────────────────────────────────────────────────────
	exportFailed := false
	if cfg.CSV != "" {
		if err := render.WriteCSVFile(cfg.CSV, summary.Charts()); err != nil {
			log.Errorw("csv export failed", "path", cfg.CSV, "error", err)
			exportFailed = true
		} else {
			log.Infow("csv written", "path", cfg.CSV)
		}
	}
	if cfg.Workbook != "" {
		if err := render.WriteWorkbook(cfg.Workbook, sheets(summary)); err != nil {
			log.Errorw("workbook export failed", "path", cfg.Workbook, "error", err)
			exportFailed = true
		} else {
			log.Infow("workbook written", "path", cfg.Workbook)
		}
	}

	// ── Output ────────────────────────────────────────────────────────────
	if *asJSON {
		if err := writeJSON(stdout, summary); err != nil {
			fmt.Fprintln(stderr, au.Red("Error:"), err)
			return exitLoadFailed
		}
	} else {
		printSummary(stdout, au, summary)
	}

	if len(summary.Failed()) > 0 || exportFailed {
		return exitRenderFail
	}
	if !*asJSON {
		fmt.Fprintln(stdout, au.Bold(au.Green("All charts have been generated and saved successfully.")))
	}
	return exitOK
}

func override(dst *string, flagValue string) {
	if flagValue != "" {
		*dst = flagValue
	}
}

func newLogger(w io.Writer, quiet bool) *zap.SugaredLogger {
	level := zap.InfoLevel
	if quiet {
		level = zap.WarnLevel
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core).Named("innings").Sugar()
}

// ============================================================================
// OUTPUT
// ============================================================================

var printer = message.NewPrinter(language.English)

func printSummary(w io.Writer, au aurora.Aurora, s *cricket.Summary) {
	fmt.Fprintf(w, "%s %s deliveries\n", au.Bold("Loaded"), printer.Sprintf("%d", s.Deliveries))
	for _, o := range s.Outcomes {
		var status aurora.Value
		switch o.Status {
		case cricket.StatusRendered:
			status = au.Green("ok     ")
		case cricket.StatusEmpty:
			status = au.Brown("empty  ")
		default:
			status = au.Red("failed ")
		}
		line := fmt.Sprintf("  %s %-34s", status, o.Name)
		switch {
		case o.Err != nil:
			line += " " + au.Red(o.Err.Error()).String()
		case o.Path != "":
			line += " " + o.Path
		}
		fmt.Fprintln(w, line)
		if o.Reply != "" && o.Status == cricket.StatusRendered {
			fmt.Fprintf(w, "           %s\n", au.Cyan(o.Reply))
		}
	}
	fmt.Fprintf(w, "%s %d written, %d empty, %d failed\n",
		au.Bold("Charts:"),
		s.Count(cricket.StatusRendered),
		s.Count(cricket.StatusEmpty),
		s.Count(cricket.StatusFailed))
}

func sheets(s *cricket.Summary) []render.Sheet {
	out := make([]render.Sheet, 0, len(s.Outcomes))
	for _, o := range s.Outcomes {
		out = append(out, render.Sheet{Name: o.Name, Title: o.Title, Chart: o.Chart, Table: o.Table})
	}
	return out
}

type jsonChart struct {
	Status string      `json:"status"`
	Path   string      `json:"path,omitempty"`
	Error  string      `json:"error,omitempty"`
	Reply  string      `json:"reply,omitempty"`
	Chart  interface{} `json:"chart"`
}

func writeJSON(w io.Writer, s *cricket.Summary) error {
	out := make([]jsonChart, 0, len(s.Outcomes))
	for _, o := range s.Outcomes {
		jc := jsonChart{Status: string(o.Status), Path: o.Path, Reply: o.Reply, Chart: o.Chart}
		if o.Err != nil {
			jc.Error = o.Err.Error()
		}
		out = append(out, jc)
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal charts: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
