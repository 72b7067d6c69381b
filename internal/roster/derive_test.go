package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = func() time.Time { return time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC) }

func derive(t *testing.T, header []string, rows ...[]string) (*Table, Derivation) {
	t.Helper()
	return Deriver{Now: testNow}.Derive(Normalize(&RawSheet{Header: header, Rows: rows}))
}

func TestDeriveTenureFromDates(t *testing.T) {
	tbl, d := derive(t, []string{"Fecha ing."},
		[]string{"2018-06-30"},
		[]string{"2018-06-30"},
	)

	assert.Equal(t, StrategyDates, d.Tenure)
	assert.Equal(t, []string{"de 5 a 10 años", "de 5 a 10 años"}, tbl.Column(string(RangoAntiguedad)))
	assert.Equal(t, []string{"7.00", "7.00"}, tbl.Column(ColAntiguedadYears))
}

func TestDeriveTenureUnparseableDateIsSentinel(t *testing.T) {
	tbl, d := derive(t, []string{"Fecha ing."},
		[]string{"2024-01-01"},
		[]string{"sin fecha"},
	)

	assert.Equal(t, StrategyDates, d.Tenure)
	assert.Equal(t, []string{"de 0 a 5 años", Unavailable}, tbl.Column(string(RangoAntiguedad)))
}

func TestDeriveAgeFromDates(t *testing.T) {
	tbl, d := derive(t, []string{"Fecha Nac."},
		[]string{"1985-01-01"},
		[]string{"1950-01-01"},
		[]string{"2010-01-01"},
	)

	assert.Equal(t, StrategyDates, d.Age)
	assert.Equal(t, []string{"de 41 a 45 años", "más de 65 años", "de 0 a 19 años"}, tbl.Column(string(RangoEdad)))
}

func TestDeriveExplicitBandsWin(t *testing.T) {
	tbl, d := derive(t, []string{"Rango (Antigüedad)", "Fecha ing."},
		[]string{" De 0 a 5 Años ", "1990-01-01"},
		[]string{"", "1990-01-01"},
	)

	assert.Equal(t, StrategyExplicit, d.Tenure)
	assert.Equal(t, []string{"de 0 a 5 años", Unavailable}, tbl.Column(string(RangoAntiguedad)))
	assert.False(t, tbl.Has(ColAntiguedadYears))
}

func TestDeriveExplicitColumnAllMissingFallsThrough(t *testing.T) {
	_, d := derive(t, []string{"Rango (Edad)", "Fecha Nac."},
		[]string{"none", "1985-01-01"},
	)
	assert.Equal(t, StrategyDates, d.Age)
}

func TestDeriveUnavailable(t *testing.T) {
	tbl, d := derive(t, []string{"Sexo"}, []string{"M"}, []string{"F"})

	assert.Equal(t, Derivation{Tenure: StrategyUnavailable, Age: StrategyUnavailable, Period: StrategyUnavailable}, d)
	assert.Equal(t, []string{Unavailable, Unavailable}, tbl.Column(string(RangoAntiguedad)))
	assert.Equal(t, []string{Unavailable, Unavailable}, tbl.Column(string(RangoEdad)))
	assert.Equal(t, []string{PeriodUnavailable, PeriodUnavailable}, tbl.Column(string(Periodo)))
}

func TestDerivePeriodFromDates(t *testing.T) {
	tbl, d := derive(t, []string{"Periodo"},
		[]string{"2025-02-10"},
		[]string{"2025-01-15"},
		[]string{"???"},
	)

	assert.Equal(t, StrategyDates, d.Period)
	assert.Equal(t, []string{"Febrero", "Enero", PeriodUnavailable}, tbl.Column(string(Periodo)))
	assert.Equal(t, []string{"Enero", "Febrero", PeriodUnavailable}, OrderedOptions(tbl, Periodo))
}

func TestDerivePeriodFromText(t *testing.T) {
	tbl, d := derive(t, []string{"Periodo"},
		[]string{" marzo "},
		[]string{"ENERO"},
		[]string{"None"},
	)

	assert.Equal(t, StrategyText, d.Period)
	assert.Equal(t, []string{"Marzo", "Enero", PeriodUnavailable}, tbl.Column(string(Periodo)))
}

func TestDeriveEveryDimensionIsTotal(t *testing.T) {
	tbl, _ := derive(t, []string{"Periodo", "Sexo", "Fecha ing.", "Fecha Nac."},
		[]string{"2025-01-15", "", "bad", ""},
		[]string{"", "F", "2020-01-01", "1980-01-01"},
	)

	for _, dim := range Dimensions {
		require.True(t, tbl.Has(string(dim)), dim)
		for i, v := range tbl.Column(string(dim)) {
			assert.NotEmpty(t, v, "row %d of %s", i, dim)
		}
	}
}

func TestBandsLabel(t *testing.T) {
	cases := []struct {
		years float64
		want  string
		ok    bool
	}{
		{0, "de 0 a 5 años", true},
		{4.99, "de 0 a 5 años", true},
		{5, "de 5 a 10 años", true},
		{35, "más de 35 años", true},
		{80, "más de 35 años", true},
		{-1, "", false},
	}
	for _, tc := range cases {
		got, ok := TenureBands.Label(tc.years)
		assert.Equal(t, tc.ok, ok, "years %v", tc.years)
		assert.Equal(t, tc.want, got, "years %v", tc.years)
	}
	assert.Len(t, TenureBands.Labels(), 8)
	assert.Len(t, AgeBands.Labels(), 11)
}

func TestDeriveDayFirstTextDates(t *testing.T) {
	tbl, d := derive(t, []string{"Fecha Nac.", "Fecha ing.", "Periodo"},
		[]string{"25/03/1980", "15/01/2018", "15/01/2025"},
		[]string{"05/03/1980", "01/02/2018", "10/02/2025"},
	)

	assert.Equal(t, StrategyDates, d.Period)
	assert.Equal(t, []string{"Enero", "Febrero"}, tbl.Column(string(Periodo)))
	assert.Equal(t, []string{"1980-03-25", "1980-03-05"}, tbl.Column(ColFechaNacimiento))
	assert.Equal(t, []string{"de 46 a 50 años", "de 46 a 50 años"}, tbl.Column(string(RangoEdad)))
	assert.NotContains(t, tbl.Column(string(RangoAntiguedad)), Unavailable)
}

func TestDeriveMonthFirstPeriod(t *testing.T) {
	tbl, _ := derive(t, []string{"Periodo"},
		[]string{"01/15/2025"},
		[]string{"02/10/2025"},
	)

	assert.Equal(t, []string{"Enero", "Febrero"}, tbl.Column(string(Periodo)))
}
