package roster

import (
	"strconv"
)

// Table is an immutable, column-addressed view of the roster. Every stage of the
// pipeline returns a new Table; rows are shared between tables but never written
// after construction.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// NewTable copies columns and rows into a new Table. Short rows are padded with
// empty cells and long rows are truncated to the header width.
func NewTable(columns []string, rows [][]string) *Table {
	cols := append([]string(nil), columns...)
	out := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(cols))
		copy(cells, row)
		out[i] = cells
	}
	return newTable(cols, out)
}

func newTable(columns []string, rows [][]string) *Table {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, exists := index[c]; !exists {
			index[c] = i
		}
	}
	return &Table{columns: columns, index: index, rows: rows}
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Empty reports whether the table has no records.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// Columns returns the column names in display order.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.columns...)
}

// Has reports whether the column exists.
func (t *Table) Has(column string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[column]
	return ok
}

// Value returns the cell at row i for column, or "" when the column is absent.
func (t *Table) Value(i int, column string) string {
	idx, ok := t.index[column]
	if !ok {
		return ""
	}
	return t.rows[i][idx]
}

// Row returns a copy of row i aligned with Columns.
func (t *Table) Row(i int) []string {
	return append([]string(nil), t.rows[i]...)
}

// Column returns a copy of every value in column, or nil when it is absent.
func (t *Table) Column(column string) []string {
	idx, ok := t.index[column]
	if !ok {
		return nil
	}
	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx]
	}
	return out
}

// EmployeeID returns the numeric LEGAJO of row i. ok is false when the identifier
// is missing or did not coerce to a number.
func (t *Table) EmployeeID(i int) (float64, bool) {
	raw := t.Value(i, ColLegajo)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// subset returns a table holding the given rows, in the given order.
func (t *Table) subset(indices []int) *Table {
	rows := make([][]string, len(indices))
	for i, idx := range indices {
		rows[i] = t.rows[idx]
	}
	return &Table{columns: t.columns, index: t.index, rows: rows}
}

// withColumn returns a new table where column holds values. An existing column is
// replaced in place; a new one is appended.
func (t *Table) withColumn(column string, values []string) *Table {
	cols := t.columns
	idx, exists := t.index[column]
	if !exists {
		cols = append(append([]string(nil), t.columns...), column)
		idx = len(cols) - 1
	}
	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		cells := make([]string, len(cols))
		copy(cells, row)
		cells[idx] = values[i]
		rows[i] = cells
	}
	if exists {
		return &Table{columns: cols, index: t.index, rows: rows}
	}
	return newTable(cols, rows)
}
