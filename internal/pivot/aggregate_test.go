package pivot

import (
	"testing"

	"github.com/Tincho2002/dotacion-assa-2025/internal/roster"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(columns []string, rows ...[]string) *roster.Table {
	return roster.NewTable(columns, rows)
}

func periods(counts map[string]int) *roster.Table {
	var rows [][]string
	for p, n := range counts {
		for i := 0; i < n; i++ {
			rows = append(rows, []string{p})
		}
	}
	return roster.NewTable([]string{string(roster.Periodo)}, rows)
}

func TestCountBy(t *testing.T) {
	tbl := table([]string{string(roster.Periodo)},
		[]string{"Febrero"}, []string{"Enero"}, []string{"Febrero"}, []string{"Marzo"},
	)

	got := CountBy(tbl, roster.Periodo)

	want := [][]string{
		{"Periodo", "Cantidad"},
		{"Enero", "1"},
		{"Febrero", "2"},
		{"Marzo", "1"},
		{"Total", "4"},
	}
	if diff := cmp.Diff(want, got.Records()); diff != "" {
		t.Fatalf("CountBy mismatch (-want +got):\n%s", diff)
	}
}

func TestCountByEmpty(t *testing.T) {
	got := CountBy(table([]string{string(roster.Sexo)}), roster.Sexo)
	assert.Equal(t, []string{"Sexo", CountColumn}, got.Columns)
	assert.Zero(t, got.Len())
}

func TestPivotCountTotalsEqualRowSums(t *testing.T) {
	tbl := table([]string{string(roster.Periodo), string(roster.Sexo)},
		[]string{"Febrero", "M"},
		[]string{"Enero", "F"},
		[]string{"Enero", "M"},
		[]string{"Enero", "M"},
		[]string{"Febrero", "X"},
	)

	got := PivotCount(tbl, roster.Periodo, roster.Sexo)

	want := [][]string{
		{"Periodo", "F", "M", "X", "Total"},
		{"Enero", "1", "2", "0", "3"},
		{"Febrero", "0", "1", "1", "2"},
	}
	if diff := cmp.Diff(want, got.Records()); diff != "" {
		t.Fatalf("PivotCount mismatch (-want +got):\n%s", diff)
	}

	for i, row := range got.Rows {
		sum := 0
		for _, c := range row[1 : len(row)-1] {
			n, ok := c.AsInt()
			require.True(t, ok)
			sum += n
		}
		total, _ := got.Cell(i, TotalLabel).AsInt()
		assert.Equal(t, sum, total, "row %d", i)
	}
}

func TestPivotCountCanonicalBandOrder(t *testing.T) {
	tbl := table([]string{string(roster.RangoEdad), string(roster.Relacion)},
		[]string{"más de 65 años", "Permanente"},
		[]string{"de 0 a 19 años", "Contratado"},
		[]string{roster.Unavailable, "Permanente"},
	)

	got := PivotCount(tbl, roster.RangoEdad, roster.Relacion)

	var labels []string
	for _, row := range got.Rows {
		labels = append(labels, row[0].String())
	}
	assert.Equal(t, []string{"de 0 a 19 años", "más de 65 años", roster.Unavailable}, labels)
}

func TestWithTotalRow(t *testing.T) {
	f := &Frame{
		Columns: []string{"Rango", "A", "Total", "Nota"},
		Rows: [][]Cell{
			{Text("x"), Int(1), Int(3), Text("n")},
			{Text("y"), Int(2), Int(4), Blank()},
		},
	}

	got := WithTotalRow(f, TotalLabel)

	require.Equal(t, 3, got.Len())
	assert.Equal(t, []string{"Total", "3", "7", ""}, got.Records()[3])
	assert.Equal(t, 2, f.Len())
}

func TestPercentageColumn(t *testing.T) {
	f := &Frame{
		Columns: []string{"Gerencia", CountColumn},
		Rows: [][]Cell{
			{Text("a"), Int(1)},
			{Text("b"), Int(3)},
			{Text(TotalLabel), Int(4)},
		},
	}

	got := PercentageColumn(f, CountColumn, 4, "%")

	assert.Equal(t, [][]string{
		{"Gerencia", "Cantidad", "%"},
		{"a", "1", "25.00%"},
		{"b", "3", "75.00%"},
		{"Total", "4", "100.00%"},
	}, got.Records())
	assert.Len(t, f.Columns, 2)
}

func TestPercentageColumnOwnTotalIsHundred(t *testing.T) {
	f := &Frame{Columns: []string{"x", TotalLabel}, Rows: [][]Cell{{Text("a"), Int(37)}}}
	got := PercentageColumn(f, TotalLabel, 37, "%")
	assert.Equal(t, "100.00%", got.Cell(0, "%").String())
}

func TestPercentageColumnZeroDenominator(t *testing.T) {
	f := &Frame{
		Columns: []string{"x", CountColumn},
		Rows:    [][]Cell{{Text("a"), Int(0)}, {Text("b"), Blank()}},
	}
	got := PercentageColumn(f, CountColumn, 0, "%")
	assert.Equal(t, ZeroPercent, got.Cell(0, "%").String())
	assert.Equal(t, ZeroPercent, got.Cell(1, "%").String())
}

func TestPeriodOverPeriod(t *testing.T) {
	tbl := periods(map[string]int{"Febrero": 95, "Enero": 100})

	got := PeriodOverPeriod(tbl)

	require.Len(t, got, 2)
	assert.Equal(t, PeriodChange{Period: "Enero", Count: 100}, got[0])
	assert.Equal(t, "Febrero", got[1].Period)
	assert.Equal(t, 100, got[1].Previous)
	assert.Equal(t, -5, got[1].Delta)

	frame := PeriodOverPeriodFrame(got)
	assert.Equal(t, []string{"Febrero", "95", "100", "-5", "-5.00%"}, frame.Records()[2])
	assert.Equal(t, []string{"Enero", "100", "", "", ""}, frame.Records()[1])
}

func TestPeriodOverPeriodSinglePeriod(t *testing.T) {
	frame := PeriodOverPeriodFrame(PeriodOverPeriod(periods(map[string]int{"Marzo": 12})))

	require.Equal(t, 1, frame.Len())
	assert.True(t, frame.Cell(0, ColDelta).IsBlank())
	assert.True(t, frame.Cell(0, ColDeltaPct).IsBlank())
}

func TestPeriodOverPeriodFrameZeroPrevious(t *testing.T) {
	frame := PeriodOverPeriodFrame([]PeriodChange{
		{Period: "Enero", Count: 0},
		{Period: "Febrero", Count: 3, Previous: 0, HasPrevious: true, Delta: 3},
	})
	assert.Equal(t, []string{"Febrero", "3", "0", "3", ""}, frame.Records()[2])
}

func TestPeriodOverPeriodPercent(t *testing.T) {
	got := PeriodOverPeriod(periods(map[string]int{"Enero": 2, "Febrero": 4, "Marzo": 1}))
	require.Len(t, got, 3)
	assert.True(t, got[1].HasPercent)
	assert.InDelta(t, 100.0, got[1].Percent, 1e-9)
	assert.InDelta(t, -75.0, got[2].Percent, 1e-9)
}

func TestSortByCount(t *testing.T) {
	f := &Frame{
		Columns: []string{"Gerencia", CountColumn},
		Rows: [][]Cell{
			{Text("b"), Int(1)},
			{Text("a"), Int(1)},
			{Text("c"), Int(5)},
			{Text(TotalLabel), Int(7)},
		},
	}
	got := SortByCount(f, CountColumn)
	assert.Equal(t, [][]string{
		{"Gerencia", "Cantidad"},
		{"c", "5"},
		{"a", "1"},
		{"b", "1"},
		{"Total", "7"},
	}, got.Records())
}
