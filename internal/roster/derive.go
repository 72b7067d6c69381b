package roster

import (
	"math"
	"strconv"
	"time"
)

// PeriodUnavailable is the sentinel as it appears in the capitalised period column.
const PeriodUnavailable = "No disponible"

// Months holds the canonical period names, January first.
var Months = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// Bands bins a duration in years into named, left-closed right-open intervals.
// The last band is open-ended.
type Bands struct {
	bounds []float64
	labels []string
}

// TenureBands bins years of service.
var TenureBands = Bands{
	bounds: []float64{0, 5, 10, 15, 20, 25, 30, 35},
	labels: []string{
		"de 0 a 5 años", "de 5 a 10 años", "de 11 a 15 años", "de 16 a 20 años",
		"de 21 a 25 años", "de 26 a 30 años", "de 31 a 35 años", "más de 35 años",
	},
}

// AgeBands bins age in years.
var AgeBands = Bands{
	bounds: []float64{0, 19, 25, 30, 35, 40, 45, 50, 55, 60, 65},
	labels: []string{
		"de 0 a 19 años", "de 19 a 25 años", "de 26 a 30 años", "de 31 a 35 años",
		"de 36 a 40 años", "de 41 a 45 años", "de 46 a 50 años", "de 51 a 55 años",
		"de 56 a 60 años", "de 61 a 65 años", "más de 65 años",
	},
}

// Label returns the band holding years. Negative or non-finite input has no band.
func (b Bands) Label(years float64) (string, bool) {
	if math.IsNaN(years) || math.IsInf(years, 0) || years < b.bounds[0] {
		return "", false
	}
	for i := len(b.bounds) - 1; i >= 0; i-- {
		if years >= b.bounds[i] {
			return b.labels[i], true
		}
	}
	return "", false
}

// Labels returns the band names in ascending order.
func (b Bands) Labels() []string {
	return append([]string(nil), b.labels...)
}

// Strategy names the tier that produced a derived attribute.
type Strategy int

const (
	// StrategyExplicit uses a band column supplied by the workbook.
	StrategyExplicit Strategy = iota
	// StrategyDates computes bands from a date column.
	StrategyDates
	// StrategyUnavailable fills the sentinel.
	StrategyUnavailable
	// StrategyText reads the period column as free text.
	StrategyText
)

func (s Strategy) String() string {
	switch s {
	case StrategyExplicit:
		return "explicit"
	case StrategyDates:
		return "dates"
	case StrategyText:
		return "text"
	default:
		return "unavailable"
	}
}

// bandRule describes where a band dimension may come from.
type bandRule struct {
	target   Dimension
	explicit string
	dates    string
	years    string
	bands    Bands
}

var (
	tenureRule = bandRule{
		target:   RangoAntiguedad,
		explicit: ColRangoAntiguedadIn,
		dates:    ColFechaIngreso,
		years:    ColAntiguedadYears,
		bands:    TenureBands,
	}
	ageRule = bandRule{
		target:   RangoEdad,
		explicit: ColRangoEdadIn,
		dates:    ColFechaNacimiento,
		years:    ColEdadYears,
		bands:    AgeBands,
	}
)

// bandTiers is the decision table for band dimensions, evaluated top to bottom.
var bandTiers = []struct {
	strategy Strategy
	applies  func(bandRule, *Table) bool
}{
	{StrategyExplicit, func(r bandRule, t *Table) bool { return anyValue(t, r.explicit) }},
	{StrategyDates, func(r bandRule, t *Table) bool { return anyDate(t, r.dates) }},
	{StrategyUnavailable, func(bandRule, *Table) bool { return true }},
}

func (r bandRule) resolve(t *Table) Strategy {
	for _, tier := range bandTiers {
		if tier.applies(r, t) {
			return tier.strategy
		}
	}
	return StrategyUnavailable
}

func (r bandRule) apply(t *Table, s Strategy, now time.Time) *Table {
	switch s {
	case StrategyExplicit:
		return t.withColumn(string(r.target), mapColumn(t, r.explicit, func(v string) string {
			return lowerText(cleanText(v))
		}))
	case StrategyDates:
		dates := t.Column(r.dates)
		reader := columnDates(dates)
		bands := make([]string, len(dates))
		years := make([]string, len(dates))
		for i, raw := range dates {
			bands[i] = Unavailable
			d, ok := reader.parse(raw)
			if !ok {
				continue
			}
			y := yearsBetween(d, now)
			years[i] = strconv.FormatFloat(y, 'f', 2, 64)
			if label, ok := r.bands.Label(y); ok {
				bands[i] = label
			}
		}
		return t.withColumn(r.years, years).withColumn(string(r.target), bands)
	default:
		return t.withColumn(string(r.target), fill(t.Len(), Unavailable))
	}
}

// resolvePeriod is the decision table for the period column.
func resolvePeriod(t *Table) Strategy {
	switch {
	case !t.Has(string(Periodo)):
		return StrategyUnavailable
	case anyDate(t, string(Periodo)):
		return StrategyDates
	default:
		return StrategyText
	}
}

func applyPeriod(t *Table, s Strategy) *Table {
	switch s {
	case StrategyDates:
		reader := columnDates(t.Column(string(Periodo)))
		return t.withColumn(string(Periodo), mapColumn(t, string(Periodo), func(v string) string {
			d, ok := reader.parse(v)
			if !ok {
				return PeriodUnavailable
			}
			return Months[d.Month()-1]
		}))
	case StrategyText:
		return t.withColumn(string(Periodo), mapColumn(t, string(Periodo), func(v string) string {
			return capitalize(cleanText(v))
		}))
	default:
		return t.withColumn(string(Periodo), fill(t.Len(), PeriodUnavailable))
	}
}

// Derivation records which tier produced each derived attribute.
type Derivation struct {
	Tenure Strategy
	Age    Strategy
	Period Strategy
}

// Deriver computes band and period dimensions. Now is the reference instant for
// tenure and age; nil means time.Now.
type Deriver struct {
	Now func() time.Time
}

// Derive enriches a normalized table with Rango Antiguedad, Rango Edad and a
// canonical Periodo. It never fails: each attribute falls back to the sentinel.
func (d Deriver) Derive(t *Table) (*Table, Derivation) {
	now := time.Now()
	if d.Now != nil {
		now = d.Now()
	}

	var out Derivation
	out.Tenure = tenureRule.resolve(t)
	t = tenureRule.apply(t, out.Tenure, now)
	out.Age = ageRule.resolve(t)
	t = ageRule.apply(t, out.Age, now)
	out.Period = resolvePeriod(t)
	t = applyPeriod(t, out.Period)
	return t, out
}

// Derive runs a Deriver anchored at the current time.
func Derive(t *Table) *Table {
	enriched, _ := Deriver{}.Derive(t)
	return enriched
}

func anyValue(t *Table, column string) bool {
	for _, v := range t.Column(column) {
		if !isMissing(v) {
			return true
		}
	}
	return false
}

func anyDate(t *Table, column string) bool {
	values := t.Column(column)
	reader := columnDates(values)
	for _, v := range values {
		if _, ok := reader.parse(v); ok {
			return true
		}
	}
	return false
}
