package report

import (
	"testing"
	"time"

	"github.com/Tincho2002/dotacion-assa-2025/internal/pivot"
	"github.com/Tincho2002/dotacion-assa-2025/internal/roster"
	"github.com/Tincho2002/dotacion-assa-2025/internal/roster/rostertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset(t *testing.T) *roster.Dataset {
	t.Helper()
	p := roster.Pipeline{
		SheetName: roster.DefaultSheetName,
		Now:       func() time.Time { return time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC) },
	}
	ds, err := p.Run(rostertest.Sample(t), "dotacion.xlsx")
	require.NoError(t, err)
	return ds
}

func TestBuildViewNames(t *testing.T) {
	ds := sampleDataset(t)
	d := Build(ds.Key, ds.Table, nil, "")

	assert.Equal(t, "Febrero", d.Period)
	assert.Equal(t, []string{"Enero", "Febrero"}, d.Periods)

	var names []string
	for _, v := range d.Views {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{
		ViewTotalByPeriod, ViewSexByPeriod, ViewRelationByPeriod, ViewMonthlyChange,
		"edad_febrero", "antiguedad_febrero",
		"gerencia", "ministerio", "funcion", "distrito", "nivel",
		ViewFilteredData,
	}, names)

	v, ok := d.View("edad_febrero")
	require.True(t, ok)
	assert.Equal(t, "distribucion_edad_febrero", v.Filename)
	assert.Len(t, d.Section(SectionSummary), 4)
	assert.Len(t, d.Section(SectionCategories), 5)
	assert.Equal(t, 5, d.Total())
	assert.False(t, d.Empty())
}

func TestBuildSummaryViews(t *testing.T) {
	ds := sampleDataset(t)
	d := Build(ds.Key, ds.Table, nil, "")

	total, _ := d.View(ViewTotalByPeriod)
	assert.Equal(t, [][]string{
		{"Periodo", "Cantidad"},
		{"Enero", "3"},
		{"Febrero", "2"},
		{"Total", "5"},
	}, total.Frame.Records())

	change, _ := d.View(ViewMonthlyChange)
	assert.Equal(t, []string{"Febrero", "2", "3", "-1", "-33.33%"}, change.Frame.Records()[2])

	sex, _ := d.View(ViewSexByPeriod)
	assert.Equal(t, []string{"Periodo", "F", "M", "Total"}, sex.Frame.Columns)
}

func TestBuildDetailViews(t *testing.T) {
	ds := sampleDataset(t)
	d := Build(ds.Key, ds.Table, nil, "Enero")
	require.Equal(t, "Enero", d.Period)

	gerencia, ok := d.View("gerencia")
	require.True(t, ok)
	assert.Equal(t, "dotacion_gerencia_enero", gerencia.Filename)
	assert.Equal(t, [][]string{
		{"Gerencia", "Cantidad", "%"},
		{"Operaciones", "2", "66.67%"},
		{"Comercial", "1", "33.33%"},
		{"Total", "3", "100.00%"},
	}, gerencia.Frame.Records())

	tenure, ok := d.View("antiguedad_enero")
	require.True(t, ok)
	last := tenure.Frame.Rows[tenure.Frame.Len()-1]
	assert.Equal(t, pivot.TotalLabel, last[0].String())
	assert.Equal(t, "100.00%", tenure.Frame.Cell(tenure.Frame.Len()-1, ColPeriodShare).String())
	assert.Equal(t, ColPeriodShare, tenure.Frame.Columns[len(tenure.Frame.Columns)-1])
}

func TestBuildFilteredDataFrame(t *testing.T) {
	ds := sampleDataset(t)
	d := Build(ds.Key, ds.Table, roster.Selection{roster.Sexo: {"F"}}, "")

	raw, ok := d.View(ViewFilteredData)
	require.True(t, ok)
	require.Equal(t, 3, raw.Frame.Len())
	id, ok := raw.Frame.Cell(0, roster.ColLegajo).AsInt()
	require.True(t, ok)
	assert.Equal(t, 1002, id)
}

func TestBuildEmptySelection(t *testing.T) {
	ds := sampleDataset(t)
	d := Build(ds.Key, ds.Table, roster.Selection{roster.Gerencia: {"Inexistente"}}, "")

	assert.True(t, d.Empty())
	for _, v := range d.Views {
		assert.NotEmpty(t, v.Frame.Columns, v.Name)
	}
	total, _ := d.View(ViewTotalByPeriod)
	assert.Zero(t, total.Frame.Len())
}

func TestViewSeries(t *testing.T) {
	ds := sampleDataset(t)
	d := Build(ds.Key, ds.Table, nil, "")

	total, _ := d.View(ViewTotalByPeriod)
	s, err := total.Series()
	require.NoError(t, err)
	assert.Len(t, s.Points, 2)

	raw, _ := d.View(ViewFilteredData)
	_, err = raw.Series()
	assert.Error(t, err)
}

func TestDefaultPeriod(t *testing.T) {
	assert.Equal(t, "Marzo", DefaultPeriod([]string{"Enero", "Marzo", roster.PeriodUnavailable}))
	assert.Equal(t, roster.PeriodUnavailable, DefaultPeriod([]string{roster.PeriodUnavailable}))
	assert.Equal(t, "", DefaultPeriod(nil))
}

func TestResolvePeriod(t *testing.T) {
	periods := []string{"Enero", "Febrero"}
	assert.Equal(t, "Enero", ResolvePeriod(periods, "Enero"))
	assert.Equal(t, "Febrero", ResolvePeriod(periods, "Junio"))
	assert.Equal(t, "Febrero", ResolvePeriod(periods, ""))
}

func TestDetailPeriodsFollowSelection(t *testing.T) {
	ds := sampleDataset(t)
	sel := roster.Selection{roster.Periodo: {"Febrero", "Enero", "Enero"}}
	assert.Equal(t, []string{"Enero", "Febrero"}, DetailPeriods(ds.Table, sel))

	sel = roster.Selection{roster.Periodo: {"Enero"}}
	d := Build(ds.Key, ds.Table, sel, "Febrero")
	assert.Equal(t, "Enero", d.Period)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "no_disponible", Slug("No disponible"))
	assert.Equal(t, "enero", Slug(" Enero "))
}

func TestCacheMemoizesAndForgets(t *testing.T) {
	ds := sampleDataset(t)
	c := NewCache(8)

	a := c.Dashboard(ds, roster.Selection{roster.Sexo: {"M", "F"}}, "")
	b := c.Dashboard(ds, roster.Selection{roster.Sexo: {"F", "M"}}, "Febrero")
	assert.Same(t, a, b)

	other := c.Dashboard(ds, nil, "Enero")
	assert.NotSame(t, a, other)
	assert.Equal(t, 2, c.Stats().Len)

	assert.Equal(t, 2, c.Forget(ds.Key))
	assert.Equal(t, 0, c.Stats().Len)
}
