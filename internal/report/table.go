package report

import (
	"math"

	"github.com/Tincho2002/dotacion-assa-2025/internal/pivot"
	"github.com/Tincho2002/dotacion-assa-2025/internal/roster"
)

// TableFrame renders a roster table as a frame. LEGAJO becomes a count cell when
// it holds a whole number and is blank when missing; every other cell is text.
func TableFrame(t *roster.Table) *pivot.Frame {
	cols := t.Columns()
	f := &pivot.Frame{Columns: cols}
	for i := 0; i < t.Len(); i++ {
		row := make([]pivot.Cell, len(cols))
		for j, c := range cols {
			row[j] = pivot.Text(t.Value(i, c))
		}
		if j := f.ColumnIndex(roster.ColLegajo); j >= 0 {
			row[j] = legajoCell(t, i)
		}
		f.Rows = append(f.Rows, row)
	}
	return f
}

func legajoCell(t *roster.Table, i int) pivot.Cell {
	id, ok := t.EmployeeID(i)
	switch {
	case !ok:
		return pivot.Blank()
	case id == math.Trunc(id) && math.Abs(id) < math.MaxInt32:
		return pivot.Int(int(id))
	default:
		return pivot.Text(t.Value(i, roster.ColLegajo))
	}
}
