// Package models defines data structures for billing sheet extraction.
package models

// Table represents a loaded sheet as ordered, named string columns.
// Headers keep the order the sheet presented them in; every column has
// the same length and cells are always trimmed strings (never null).
type Table struct {
	// Headers lists the cleaned column headers in sheet order.
	Headers []string `json:"headers"`
	// Columns maps each header to its cell values, one per row.
	Columns map[string][]string `json:"columns"`
}

// NewTable builds a Table from cleaned headers and row-major cells.
// Duplicate headers keep the first occurrence; empty headers are dropped.
// Short rows are padded with empty strings.
func NewTable(headers []string, rows [][]string) *Table {
	t := &Table{Columns: make(map[string][]string, len(headers))}

	cols := make([]int, 0, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		if _, dup := t.Columns[h]; dup {
			continue
		}
		t.Headers = append(t.Headers, h)
		t.Columns[h] = make([]string, 0, len(rows))
		cols = append(cols, i)
	}

	for _, row := range rows {
		for n, i := range cols {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			h := t.Headers[n]
			t.Columns[h] = append(t.Columns[h], v)
		}
	}

	return t
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	if len(t.Headers) == 0 {
		return 0
	}
	return len(t.Columns[t.Headers[0]])
}

// HasColumn reports whether header exists in the table.
func (t *Table) HasColumn(header string) bool {
	_, ok := t.Columns[header]
	return ok
}

// Column returns the cells of header, or nil if absent.
func (t *Table) Column(header string) []string {
	return t.Columns[header]
}

// Cell returns the value at (header, row), or "" when out of range.
func (t *Table) Cell(header string, row int) string {
	col := t.Columns[header]
	if row < 0 || row >= len(col) {
		return ""
	}
	return col[row]
}
