// Package pivot aggregates roster tables into wide frames: grouped counts,
// cross-tabulations with totals, percentage columns and period-over-period
// variation.
package pivot

import (
	"encoding/json"
	"strconv"
)

type cellKind uint8

const (
	blankCell cellKind = iota
	intCell
	textCell
)

// Cell is one frame value: a count, a text, or blank.
type Cell struct {
	kind cellKind
	n    int
	s    string
}

// Int returns a count cell.
func Int(n int) Cell { return Cell{kind: intCell, n: n} }

// Text returns a text cell.
func Text(s string) Cell { return Cell{kind: textCell, s: s} }

// Blank returns an empty cell.
func Blank() Cell { return Cell{} }

// IsBlank reports whether the cell holds nothing.
func (c Cell) IsBlank() bool { return c.kind == blankCell }

// AsInt returns the count held by the cell.
func (c Cell) AsInt() (int, bool) {
	if c.kind != intCell {
		return 0, false
	}
	return c.n, true
}

// String renders the cell as it appears in exports.
func (c Cell) String() string {
	switch c.kind {
	case intCell:
		return strconv.Itoa(c.n)
	case textCell:
		return c.s
	default:
		return ""
	}
}

// Value returns the cell as a plain Go value: int, string or nil.
func (c Cell) Value() any {
	switch c.kind {
	case intCell:
		return c.n
	case textCell:
		return c.s
	default:
		return nil
	}
}

func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Value())
}

// Frame is a rectangular table with a header row. Every operation in this
// package returns a new Frame and leaves its input untouched.
type Frame struct {
	Columns []string
	Rows    [][]Cell
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// ColumnIndex returns the position of name, or -1.
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at row i in column name; blank when the column is absent.
func (f *Frame) Cell(i int, name string) Cell {
	idx := f.ColumnIndex(name)
	if idx < 0 || idx >= len(f.Rows[i]) {
		return Blank()
	}
	return f.Rows[i][idx]
}

// Records renders the frame as strings, header first.
func (f *Frame) Records() [][]string {
	out := make([][]string, 0, len(f.Rows)+1)
	out = append(out, append([]string(nil), f.Columns...))
	for _, row := range f.Rows {
		rec := make([]string, len(f.Columns))
		for j := range rec {
			if j < len(row) {
				rec[j] = row[j].String()
			}
		}
		out = append(out, rec)
	}
	return out
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	out := &Frame{Columns: append([]string(nil), f.Columns...)}
	out.Rows = make([][]Cell, len(f.Rows))
	for i, row := range f.Rows {
		out.Rows[i] = append([]Cell(nil), row...)
	}
	return out
}

func (f *Frame) MarshalJSON() ([]byte, error) {
	rows := f.Rows
	if rows == nil {
		rows = [][]Cell{}
	}
	return json.Marshal(struct {
		Columns []string `json:"columns"`
		Rows    [][]Cell `json:"rows"`
	}{Columns: f.Columns, Rows: rows})
}
