package pivot

import (
	"fmt"
	"sort"

	"github.com/Tincho2002/dotacion-assa-2025/internal/roster"
)

// Column and label names shared by every aggregate.
const (
	TotalLabel  = "Total"
	CountColumn = "Cantidad"
)

// ZeroPercent is emitted for every row when a percentage has a zero denominator.
const ZeroPercent = "0.00%"

// FormatPercent renders v with two decimals and a trailing percent sign.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func dimValue(t *roster.Table, i int, dim roster.Dimension) string {
	if !t.Has(string(dim)) {
		return roster.Unavailable
	}
	return t.Value(i, string(dim))
}

func groupCounts(t *roster.Table, dim roster.Dimension) (map[string]int, []string) {
	counts := make(map[string]int)
	var values []string
	for i := 0; i < t.Len(); i++ {
		v := dimValue(t, i, dim)
		if _, seen := counts[v]; !seen {
			values = append(values, v)
		}
		counts[v]++
	}
	return counts, roster.SortValues(dim, values)
}

// CountBy counts records per value of dim, in resolver order, followed by a
// Total row holding the sum. An empty table yields a header-only frame.
func CountBy(t *roster.Table, dim roster.Dimension) *Frame {
	f := &Frame{Columns: []string{string(dim), CountColumn}}
	if t.Empty() {
		return f
	}
	counts, order := groupCounts(t, dim)
	total := 0
	for _, v := range order {
		f.Rows = append(f.Rows, []Cell{Text(v), Int(counts[v])})
		total += counts[v]
	}
	f.Rows = append(f.Rows, []Cell{Text(TotalLabel), Int(total)})
	return f
}

// PivotCount cross-tabulates rowDim against colDim. Rows and columns follow
// resolver order; absent combinations are zero; a Total column holds each
// row's sum.
func PivotCount(t *roster.Table, rowDim, colDim roster.Dimension) *Frame {
	rowCounts, rowOrder := groupCounts(t, rowDim)
	_, colOrder := groupCounts(t, colDim)

	f := &Frame{Columns: make([]string, 0, len(colOrder)+2)}
	f.Columns = append(f.Columns, string(rowDim))
	f.Columns = append(f.Columns, colOrder...)
	f.Columns = append(f.Columns, TotalLabel)
	if t.Empty() {
		return f
	}

	colIndex := make(map[string]int, len(colOrder))
	for j, c := range colOrder {
		colIndex[c] = j
	}
	rowIndex := make(map[string]int, len(rowOrder))
	cells := make([][]int, len(rowOrder))
	for i, r := range rowOrder {
		rowIndex[r] = i
		cells[i] = make([]int, len(colOrder))
	}
	for i := 0; i < t.Len(); i++ {
		r := rowIndex[dimValue(t, i, rowDim)]
		c := colIndex[dimValue(t, i, colDim)]
		cells[r][c]++
	}

	for i, r := range rowOrder {
		row := make([]Cell, 0, len(f.Columns))
		row = append(row, Text(r))
		for _, n := range cells[i] {
			row = append(row, Int(n))
		}
		row = append(row, Int(rowCounts[r]))
		f.Rows = append(f.Rows, row)
	}
	return f
}

// SortByCount orders the rows of f by column descending, ties by the first
// column ascending. Rows labelled TotalLabel stay at the end.
func SortByCount(f *Frame, column string) *Frame {
	out := f.Clone()
	idx := out.ColumnIndex(column)
	if idx < 0 {
		return out
	}
	var body, totals [][]Cell
	for _, row := range out.Rows {
		if len(row) > 0 && row[0].String() == TotalLabel {
			totals = append(totals, row)
			continue
		}
		body = append(body, row)
	}
	sort.SliceStable(body, func(i, j int) bool {
		a, _ := body[i][idx].AsInt()
		b, _ := body[j][idx].AsInt()
		if a != b {
			return a > b
		}
		return body[i][0].String() < body[j][0].String()
	})
	out.Rows = append(body, totals...)
	return out
}

// WithTotalRow appends a row labelled label whose count columns hold the column
// sums. Text columns other than the first are left blank. Input without rows
// is returned unchanged.
func WithTotalRow(f *Frame, label string) *Frame {
	out := f.Clone()
	if len(f.Rows) == 0 {
		return out
	}
	total := make([]Cell, len(f.Columns))
	for j := range f.Columns {
		sum, numeric := 0, false
		for _, row := range f.Rows {
			if j >= len(row) {
				continue
			}
			if n, ok := row[j].AsInt(); ok {
				sum += n
				numeric = true
			}
		}
		if numeric {
			total[j] = Int(sum)
		}
	}
	total[0] = Text(label)
	out.Rows = append(out.Rows, total)
	return out
}

// PercentageColumn appends column name holding each row's totalColumn value as
// a percentage of denominator. A zero denominator yields ZeroPercent on every
// row; a row without a count yields a blank.
func PercentageColumn(f *Frame, totalColumn string, denominator int, name string) *Frame {
	out := f.Clone()
	out.Columns = append(out.Columns, name)
	for i := range out.Rows {
		var cell Cell
		switch n, ok := f.Cell(i, totalColumn).AsInt(); {
		case denominator == 0:
			cell = Text(ZeroPercent)
		case ok:
			cell = Text(FormatPercent(float64(n) / float64(denominator) * 100))
		}
		out.Rows[i] = append(out.Rows[i], cell)
	}
	return out
}

// Column names of the period-over-period frame.
const (
	ColCurrent  = "Cantidad_Actual"
	ColPrevious = "Cantidad_Mes_Anterior"
	ColDelta    = "Variacion_Cantidad"
	ColDeltaPct = "Variacion_Porcentual"
)

// PeriodChange is one step of the period-over-period series.
type PeriodChange struct {
	Period      string
	Count       int
	Previous    int
	HasPrevious bool
	Delta       int
	Percent     float64
	HasPercent  bool
}

// PeriodOverPeriod counts records per period in canonical order and compares
// each period with the one before it. The first period has no previous count;
// the percentage is undefined when the previous count is missing or zero.
func PeriodOverPeriod(t *roster.Table) []PeriodChange {
	counts, order := groupCounts(t, roster.Periodo)
	out := make([]PeriodChange, 0, len(order))
	for i, p := range order {
		ch := PeriodChange{Period: p, Count: counts[p]}
		if i > 0 {
			prev := out[i-1].Count
			ch.Previous = prev
			ch.HasPrevious = true
			ch.Delta = ch.Count - prev
			if prev != 0 {
				ch.Percent = float64(ch.Delta) / float64(prev) * 100
				ch.HasPercent = true
			}
		}
		out = append(out, ch)
	}
	return out
}

// PeriodOverPeriodFrame renders the series as a frame with blanks for undefined
// values.
func PeriodOverPeriodFrame(changes []PeriodChange) *Frame {
	f := &Frame{Columns: []string{string(roster.Periodo), ColCurrent, ColPrevious, ColDelta, ColDeltaPct}}
	for _, ch := range changes {
		row := []Cell{Text(ch.Period), Int(ch.Count), Blank(), Blank(), Blank()}
		if ch.HasPrevious {
			row[2] = Int(ch.Previous)
			row[3] = Int(ch.Delta)
		}
		if ch.HasPercent {
			row[4] = Text(FormatPercent(ch.Percent))
		}
		f.Rows = append(f.Rows, row)
	}
	return f
}
