package helpers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spektr-org/innings/cricket"
	"github.com/spektr-org/innings/schema"
)

// ============================================================================
// CSV HELPER — Parses a delivery CSV into []cricket.Delivery
// ============================================================================
// Headers are matched after snake_case normalisation. Unknown columns are
// ignored. The schema decides which numeric columns are coerced (missing
// becomes 0) and which text columns may hold missing-value markers. A
// non-numeric, negative or oversized count fails the load with the row and
// column that caused it.
// ============================================================================

// DataLoadError reports why a delivery table could not be loaded.
// Row is 1-based and counts the header; it is 0 for file or header errors.
type DataLoadError struct {
	Path   string
	Row    int
	Column string
	Err    error
}

func (e *DataLoadError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("load %s: row %d, column %s: %v", e.Path, e.Row, e.Column, e.Err)
	case e.Row > 0:
		return fmt.Sprintf("load %s: row %d: %v", e.Path, e.Row, e.Err)
	default:
		return fmt.Sprintf("load %s: %v", e.Path, e.Err)
	}
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// ErrMissingColumns is wrapped by DataLoadError when the header lacks
// required columns.
var ErrMissingColumns = errors.New("missing required columns")

// LoadDeliveries reads the delivery table at path. The returned deliveries
// are not derived yet.
func LoadDeliveries(path string) ([]cricket.Delivery, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}
	defer f.Close()
	return ParseDeliveries(f, path)
}

// ParseDeliveries parses a delivery table from r. name is only used in errors.
func ParseDeliveries(r io.Reader, name string) ([]cricket.Delivery, error) {
	sch := schema.Deliveries()

	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			err = errors.New("empty file")
		}
		return nil, &DataLoadError{Path: name, Err: fmt.Errorf("read header: %w", err)}
	}
	if missing := sch.MissingColumns(headers); len(missing) > 0 {
		return nil, &DataLoadError{
			Path: name,
			Err:  fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", ")),
		}
	}

	// Build column key → index mapping; first occurrence wins.
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := schema.ToSnakeCase(h)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	p := rowParser{
		index:    index,
		path:     name,
		optional: make(map[string]bool),
	}
	for _, col := range sch.OptionalColumns() {
		p.optional[col] = true
	}
	coerced := sch.CoercedColumns()

	var deliveries []cricket.Delivery
	for row := 2; ; row++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DataLoadError{Path: name, Row: row, Err: err}
		}

		p.rec, p.row = rec, row
		d := cricket.Delivery{
			Season:      p.text(schema.Season),
			BattingTeam: p.text(schema.BattingTeam),
			BowlingTeam: p.text(schema.BowlingTeam),
			Striker:     p.text(schema.Striker),
			NonStriker:  p.text(schema.NonStriker),
			Bowler:      p.text(schema.Bowler),
			Ball:        p.text(schema.Ball),
			WicketType:  p.text(schema.WicketType),
		}
		for _, col := range coerced {
			field := countField(&d, col)
			if field == nil {
				return nil, &DataLoadError{Path: name, Column: col, Err: errors.New("no delivery field for column")}
			}
			*field = p.number(col)
		}
		if p.err != nil {
			return nil, p.err
		}
		deliveries = append(deliveries, d)
	}

	return deliveries, nil
}

// countField returns the integer field of d that holds column col.
func countField(d *cricket.Delivery, col string) *int {
	switch col {
	case schema.RunsOffBat:
		return &d.RunsOffBat
	case schema.Extras:
		return &d.Extras
	case schema.Wides:
		return &d.Wides
	case schema.Noballs:
		return &d.Noballs
	case schema.Byes:
		return &d.Byes
	case schema.Legbyes:
		return &d.Legbyes
	case schema.Penalty:
		return &d.Penalty
	}
	return nil
}

// rowParser extracts typed cells from one record and keeps the first error.
type rowParser struct {
	rec      []string
	index    map[string]int
	optional map[string]bool
	row      int
	path     string
	err      error
}

func (p *rowParser) cell(col string) string {
	i, ok := p.index[col]
	if !ok || i >= len(p.rec) {
		return ""
	}
	return strings.TrimSpace(p.rec[i])
}

// text returns a string cell. Optional columns read missing-value markers
// as "".
func (p *rowParser) text(col string) string {
	v := p.cell(col)
	if p.optional[col] && schema.IsMissing(v) {
		return ""
	}
	return v
}

func (p *rowParser) number(col string) int {
	if p.err != nil {
		return 0
	}
	n, err := ParseCount(p.cell(col))
	if err != nil {
		p.err = &DataLoadError{Path: p.path, Row: p.row, Column: col, Err: err}
	}
	return n
}

// MaxCount is the largest value a numeric cell may hold.
const MaxCount = math.MaxInt32

var (
	ErrNegativeCount   = errors.New("negative count")
	ErrCountOutOfRange = fmt.Errorf("count above %d", MaxCount)
)

// ParseCount converts a numeric cell to a non-negative integer. Missing
// values (see schema.IsMissing) are 0; fractional values such as "1.0" are
// truncated. Negative values and values above MaxCount are errors.
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if schema.IsMissing(s) {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	switch {
	case f < 0:
		return 0, fmt.Errorf("%w: %q", ErrNegativeCount, s)
	case f > MaxCount:
		return 0, fmt.Errorf("%w: %q", ErrCountOutOfRange, s)
	}
	return int(f), nil
}
