package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/innings/engine"
)

// ============================================================================
// EXPORTS — The computed series as CSV rows or an xlsx workbook
// ============================================================================

// WriteCSV writes every point of every chart as a "chart,series,label,value"
// row, in chart order then series order then label order. Values are
// written unformatted so the file can be re-read.
func WriteCSV(w io.Writer, charts []*engine.ChartConfig) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"chart", "series", "label", "value"}); err != nil {
		return err
	}
	for _, c := range charts {
		if c == nil {
			continue
		}
		for _, s := range c.Series {
			for _, p := range s.Data {
				row := []string{c.Name, s.Name, p.Label, strconv.FormatFloat(p.Value, 'f', -1, 64)}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes WriteCSV output to path.
func WriteCSVFile(path string, charts []*engine.ChartConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, charts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Sheet is one worksheet of an exported workbook. Table is used when
// present; otherwise the chart's series are written as columns.
type Sheet struct {
	Name  string
	Title string
	Chart *engine.ChartConfig
	Table *engine.TableData
}

// maxSheetName is the xlsx limit on worksheet name length.
const maxSheetName = 31

// WriteWorkbook writes one worksheet per sheet to an xlsx file at path.
// Empty sheets are kept so the workbook always lists every chart.
func WriteWorkbook(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("workbook %s: no sheets", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	used := make(map[string]bool, len(sheets))
	for i, sh := range sheets {
		name := sheetName(sh.Name, i, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("workbook %s: %w", path, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("workbook %s: %w", path, err)
		}

		var rows [][]interface{}
		if sh.Table != nil {
			rows = tableRows(sh.Title, sh.Table)
		} else {
			rows = chartRows(sh.Title, sh.Chart)
		}
		if err := writeRows(f, name, rows); err != nil {
			return fmt.Errorf("workbook %s: sheet %s: %w", path, name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("workbook %s: %w", path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// tableRows lays out a title row, a header row, the data rows and the
// summary row if any. Numeric cells are stored as numbers.
func tableRows(title string, t *engine.TableData) [][]interface{} {
	rows := [][]interface{}{{title}}

	header := make([]interface{}, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col.Label
	}
	rows = append(rows, header)

	for _, r := range t.Rows {
		row := make([]interface{}, len(r))
		for i, cell := range r {
			row[i] = cellValue(t, i, cell)
		}
		rows = append(rows, row)
	}

	if t.Summary != nil {
		row := make([]interface{}, len(t.Columns))
		row[0] = t.Summary.Label
		for i, col := range t.Columns {
			if v, ok := t.Summary.Values[col.Key]; ok {
				row[i] = cellValue(t, i, v)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// chartRows lays out a title row, a header of series names and one row
// per label.
func chartRows(title string, c *engine.ChartConfig) [][]interface{} {
	rows := [][]interface{}{{title}}
	if c == nil {
		return rows
	}

	header := []interface{}{c.XAxis}
	for _, s := range c.Series {
		header = append(header, s.Name)
	}
	rows = append(rows, header)

	for j, label := range c.Labels() {
		row := []interface{}{label}
		for _, s := range c.Series {
			if j < len(s.Data) {
				row = append(row, s.Data[j].Value)
			} else {
				row = append(row, nil)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// cellValue stores number columns as numbers rather than text.
func cellValue(t *engine.TableData, col int, cell string) interface{} {
	if col >= len(t.Columns) || t.Columns[col].Type != "number" {
		return cell
	}
	if v, err := strconv.ParseFloat(cell, 64); err == nil {
		return v
	}
	return cell
}

// sheetName truncates name to the xlsx limit and keeps it unique.
func sheetName(name string, i int, used map[string]bool) string {
	if name == "" {
		name = fmt.Sprintf("Sheet%d", i+1)
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	base := name
	for n := 2; used[name]; n++ {
		suffix := fmt.Sprintf("~%d", n)
		trimmed := base
		if len(trimmed)+len(suffix) > maxSheetName {
			trimmed = trimmed[:maxSheetName-len(suffix)]
		}
		name = trimmed + suffix
	}
	used[name] = true
	return name
}
