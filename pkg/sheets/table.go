package sheets

import (
	"context"
	"strconv"
	"strings"
)

// Store is the spreadsheet boundary: whole-table snapshot reads and
// single-cell writes addressed with 1-based row and column indexes, the
// way the remote sheet service addresses them. There is no richer query
// surface; callers re-fetch the full table on every pass.
type Store interface {
	Snapshot(ctx context.Context) (*Table, error)
	UpdateCell(ctx context.Context, row, col int, value string) error
}

// Record is one sheet row keyed by normalized column header. Absent
// columns read as the zero value, never as an error.
type Record map[string]string

// Get returns the trimmed cell value for a normalized header.
func (r Record) Get(name string) string {
	return strings.TrimSpace(r[name])
}

// Float parses the cell as a float, returning 0 for absent or
// non-numeric values.
func (r Record) Float(name string) float64 {
	v, err := strconv.ParseFloat(r.Get(name), 64)
	if err != nil {
		return 0
	}
	return v
}

// Table is an immutable snapshot of one worksheet: the normalized header
// row plus every data row beneath it.
type Table struct {
	Headers []string
	Rows    []Record

	cols map[string]int
}

// NewTable builds a snapshot from a raw header row and data rows.
// Headers are normalized; rows shorter than the header row read as empty
// cells for the missing columns.
func NewTable(headers []string, rows [][]string) *Table {
	t := &Table{
		Headers: make([]string, len(headers)),
		cols:    make(map[string]int, len(headers)),
	}
	for i, h := range headers {
		name := NormalizeHeader(h)
		t.Headers[i] = name
		if _, dup := t.cols[name]; !dup {
			t.cols[name] = i + 1
		}
	}

	t.Rows = make([]Record, len(rows))
	for i, row := range rows {
		rec := make(Record, len(t.Headers))
		for j, name := range t.Headers {
			if j < len(row) {
				rec[name] = row[j]
			}
		}
		t.Rows[i] = rec
	}
	return t
}

// Column returns the 1-based column index for a normalized header.
func (t *Table) Column(name string) (int, bool) {
	col, ok := t.cols[name]
	return col, ok
}

// HasColumn reports whether the sheet carries the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// SheetRow converts a Rows index to the 1-based sheet row, accounting
// for the header row.
func (t *Table) SheetRow(i int) int {
	return i + 2
}
