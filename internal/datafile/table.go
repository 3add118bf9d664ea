package datafile

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/chrissnell/laketemp/internal/types"
)

// table is a header row plus data rows, addressed by column name.
type table struct {
	columns map[string]int
	rows    [][]string
}

func newTable(header []string, rows [][]string) (*table, error) {
	t := &table{columns: make(map[string]int), rows: rows}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, dup := t.columns[name]; dup {
			return nil, fmt.Errorf("duplicate column %q: %w", name, types.ErrInvalidInput)
		}
		t.columns[name] = i
	}
	return t, nil
}

func (t *table) has(column string) bool {
	_, ok := t.columns[column]
	return ok
}

// cell returns the trimmed value of column in row i, or "" when the row is
// short.
func (t *table) cell(i int, column string) string {
	c := t.columns[column]
	if c >= len(t.rows[i]) {
		return ""
	}
	return strings.TrimSpace(t.rows[i][c])
}

func (t *table) dates(column string) ([]time.Time, error) {
	out := make([]time.Time, len(t.rows))
	for i := range t.rows {
		d, err := time.Parse(types.DateLayout, t.cell(i, column))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad date %q: %w", i+1, t.cell(i, column), types.ErrInvalidInput)
		}
		out[i] = d
	}
	return out, nil
}

// floats parses a numeric column. Cells in missing parse as NaN; with a nil
// missing set every cell must be a number.
func (t *table) floats(column string, missing map[string]bool) ([]float64, error) {
	out := make([]float64, len(t.rows))
	for i := range t.rows {
		raw := t.cell(i, column)
		if missing[strings.ToLower(raw)] {
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: column %s: bad number %q: %w", i+1, column, raw, types.ErrInvalidInput)
		}
		out[i] = v
	}
	return out, nil
}

// readTable loads a whitespace-separated text table, or the first sheet of
// a workbook when path ends in .xlsx.
func readTable(path string) (*table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readWorkbook(path)
	}
	return readText(path)
}

func readText(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		header []string
		rows   [][]string
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if header == nil {
			header = fields
			continue
		}
		rows = append(rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	if header == nil {
		return nil, fmt.Errorf("%s: no header row: %w", path, types.ErrInvalidInput)
	}
	return newTable(header, rows)
}

func readWorkbook(path string) (*table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets: %w", path, types.ErrInvalidInput)
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s of %s: %w", sheets[0], path, err)
	}

	var rows [][]string
	for _, row := range all {
		if blankRow(row) {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no header row: %w", path, types.ErrInvalidInput)
	}
	return newTable(rows[0], rows[1:])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
