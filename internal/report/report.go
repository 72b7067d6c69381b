// Package report composes the dashboard: every table shown or exported for one
// dataset, filter selection and detail period.
package report

import (
	"strings"

	"github.com/Tincho2002/dotacion-assa-2025/internal/chart"
	"github.com/Tincho2002/dotacion-assa-2025/internal/pivot"
	"github.com/Tincho2002/dotacion-assa-2025/internal/roster"
)

// Section groups views the way the dashboard tabs do.
type Section string

const (
	SectionSummary    Section = "resumen"
	SectionBands      Section = "edad_antiguedad"
	SectionCategories Section = "categorias"
	SectionData       Section = "datos"
)

// Sections lists the tabs in display order.
var Sections = []Section{SectionSummary, SectionBands, SectionCategories, SectionData}

// Title is the tab caption.
func (s Section) Title() string {
	switch s {
	case SectionSummary:
		return "Resumen general"
	case SectionBands:
		return "Edad y antigüedad"
	case SectionCategories:
		return "Distribución por categoría"
	default:
		return "Datos filtrados"
	}
}

// Column names added by the detail views.
const (
	ColPeriodShare   = "% sobre Total Periodo"
	ColCategoryShare = "%"
)

// View names that do not depend on the detail period.
const (
	ViewTotalByPeriod    = "total_por_periodo"
	ViewSexByPeriod      = "sexo_por_periodo"
	ViewRelationByPeriod = "relacion_por_periodo"
	ViewMonthlyChange    = "variacion_mensual"
	ViewFilteredData     = "datos_filtrados"
)

// ChartSpec says which frame columns a view charts.
type ChartSpec struct {
	Kind        chart.Kind
	LabelColumn string
	ValueColumn string
}

// View is one named table of the dashboard.
type View struct {
	Name    string
	Title   string
	Section Section
	// Filename is the export file name without extension.
	Filename string
	Frame    *pivot.Frame
	Chart    *ChartSpec
}

// Series returns the chart data of v.
func (v *View) Series() (chart.Series, error) {
	if v.Chart == nil {
		return chart.Series{}, chart.ErrNoData
	}
	s, err := chart.FromFrame(v.Frame, v.Chart.LabelColumn, v.Chart.ValueColumn, v.Chart.Kind)
	if err != nil {
		return chart.Series{}, err
	}
	s.Title = v.Title
	return s, nil
}

// Dashboard is the full set of views for one request.
type Dashboard struct {
	DatasetKey string
	Selection  roster.Selection
	// Period is the detail period; Periods are the choices offered for it.
	Period   string
	Periods  []string
	Filtered *roster.Table
	Views    []*View
}

// Empty reports whether the selection matched no records.
func (d *Dashboard) Empty() bool {
	return d.Filtered.Empty()
}

// Total is the number of records in the selection.
func (d *Dashboard) Total() int {
	return d.Filtered.Len()
}

// View looks a view up by name.
func (d *Dashboard) View(name string) (*View, bool) {
	for _, v := range d.Views {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// Section returns the views of s in display order.
func (d *Dashboard) Section(s Section) []*View {
	var out []*View
	for _, v := range d.Views {
		if v.Section == s {
			out = append(out, v)
		}
	}
	return out
}

// categoryViews are the per-category breakdowns of the detail period.
var categoryViews = []struct {
	dim   roster.Dimension
	title string
}{
	{roster.Gerencia, "Dotación por gerencia"},
	{roster.Ministerio, "Dotación por ministerio"},
	{roster.Funcion, "Dotación por función"},
	{roster.Distrito, "Dotación por distrito"},
	{roster.Nivel, "Dotación por nivel"},
}

// Build filters t by sel and computes every view. period chooses the detail
// period; an empty or unselected value falls back to DefaultPeriod.
func Build(datasetKey string, t *roster.Table, sel roster.Selection, period string) *Dashboard {
	filtered := roster.Filter(t, sel)
	periods := DetailPeriods(t, sel)
	period = ResolvePeriod(periods, period)

	d := &Dashboard{
		DatasetKey: datasetKey,
		Selection:  sel,
		Period:     period,
		Periods:    periods,
		Filtered:   filtered,
	}

	d.Views = append(d.Views,
		&View{
			Name:     ViewTotalByPeriod,
			Title:    "Dotación total por periodo",
			Section:  SectionSummary,
			Filename: "dotacion_total_por_periodo",
			Frame:    pivot.CountBy(filtered, roster.Periodo),
			Chart:    &ChartSpec{Kind: chart.Line, LabelColumn: string(roster.Periodo), ValueColumn: pivot.CountColumn},
		},
		&View{
			Name:     ViewSexByPeriod,
			Title:    "Distribución por sexo y periodo",
			Section:  SectionSummary,
			Filename: "distribucion_sexo_por_periodo",
			Frame:    pivot.PivotCount(filtered, roster.Periodo, roster.Sexo),
			Chart:    &ChartSpec{Kind: chart.Bar, LabelColumn: string(roster.Periodo), ValueColumn: pivot.TotalLabel},
		},
		&View{
			Name:     ViewRelationByPeriod,
			Title:    "Distribución por relación y periodo",
			Section:  SectionSummary,
			Filename: "distribucion_relacion_por_periodo",
			Frame:    pivot.PivotCount(filtered, roster.Periodo, roster.Relacion),
			Chart:    &ChartSpec{Kind: chart.Bar, LabelColumn: string(roster.Periodo), ValueColumn: pivot.TotalLabel},
		},
		&View{
			Name:     ViewMonthlyChange,
			Title:    "Variación mensual de dotación",
			Section:  SectionSummary,
			Filename: "variacion_mensual_total",
			Frame:    pivot.PeriodOverPeriodFrame(pivot.PeriodOverPeriod(filtered)),
			Chart:    &ChartSpec{Kind: chart.Bar, LabelColumn: string(roster.Periodo), ValueColumn: pivot.ColDelta},
		},
	)

	detail := filtered
	if period != "" {
		detail = roster.Where(filtered, roster.Periodo, period)
	}
	slug := Slug(period)

	d.Views = append(d.Views,
		bandView("edad_"+slug, "Distribución por rango de edad ("+period+")",
			"distribucion_edad_"+slug, detail, roster.RangoEdad),
		bandView("antiguedad_"+slug, "Distribución por rango de antigüedad ("+period+")",
			"distribucion_antiguedad_"+slug, detail, roster.RangoAntiguedad),
	)

	for _, c := range categoryViews {
		frame := pivot.SortByCount(pivot.CountBy(detail, c.dim), pivot.CountColumn)
		frame = pivot.PercentageColumn(frame, pivot.CountColumn, detail.Len(), ColCategoryShare)
		d.Views = append(d.Views, &View{
			Name:     c.dim.Slug(),
			Title:    c.title + " (" + period + ")",
			Section:  SectionCategories,
			Filename: "dotacion_" + c.dim.Slug() + "_" + slug,
			Frame:    frame,
			Chart:    &ChartSpec{Kind: chart.Bar, LabelColumn: string(c.dim), ValueColumn: pivot.CountColumn},
		})
	}

	d.Views = append(d.Views, &View{
		Name:     ViewFilteredData,
		Title:    "Datos filtrados",
		Section:  SectionData,
		Filename: "datos_filtrados_dotacion",
		Frame:    TableFrame(filtered),
	})
	return d
}

// bandView crosses a band dimension with the employment relationship for one
// period, with a Total row and each row's share of the period.
func bandView(name, title, filename string, t *roster.Table, dim roster.Dimension) *View {
	frame := pivot.PivotCount(t, dim, roster.Relacion)
	frame = pivot.WithTotalRow(frame, pivot.TotalLabel)
	frame = pivot.PercentageColumn(frame, pivot.TotalLabel, t.Len(), ColPeriodShare)
	return &View{
		Name:     name,
		Title:    title,
		Section:  SectionBands,
		Filename: filename,
		Frame:    frame,
		Chart:    &ChartSpec{Kind: chart.Bar, LabelColumn: string(dim), ValueColumn: pivot.TotalLabel},
	}
}

// Slug lowercases s and joins its words with underscores, for view and file
// names.
func Slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "_")
}
