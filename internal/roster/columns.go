package roster

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Unavailable is the sentinel for any missing categorical value.
const Unavailable = "no disponible"

// DefaultSheetName is the worksheet the roster is read from.
const DefaultSheetName = "Dotacion_25"

// Source column names, as they appear in the workbook header.
const (
	ColLegajo            = "LEGAJO"
	ColFechaIngreso      = "Fecha ing."
	ColFechaNacimiento   = "Fecha Nac."
	ColRangoAntiguedadIn = "Rango (Antigüedad)"
	ColRangoEdadIn       = "Rango (Edad)"
)

// Derived numeric columns, added when bands are computed from dates.
const (
	ColAntiguedadYears = "Antiguedad (años)"
	ColEdadYears       = "Edad (años)"
)

// Dimension names a categorical column used for filtering and grouping.
type Dimension string

const (
	Periodo         Dimension = "Periodo"
	Gerencia        Dimension = "Gerencia"
	Relacion        Dimension = "Relación"
	Sexo            Dimension = "Sexo"
	RangoAntiguedad Dimension = "Rango Antiguedad"
	RangoEdad       Dimension = "Rango Edad"
	Funcion         Dimension = "Función"
	Distrito        Dimension = "Distrito"
	Ministerio      Dimension = "Ministerio"
	Nivel           Dimension = "Nivel"
)

// Dimensions lists every filterable dimension in filter-panel order.
var Dimensions = []Dimension{
	Periodo, Gerencia, Relacion, Sexo, RangoAntiguedad,
	RangoEdad, Funcion, Distrito, Ministerio, Nivel,
}

// freeTextDimensions are normalized by the schema normalizer; the remaining
// dimensions are produced by the derivation engine.
var freeTextDimensions = []Dimension{
	Gerencia, Relacion, Sexo, Funcion, Distrito, Ministerio, Nivel,
}

var dimensionSlugs = map[Dimension]string{
	Periodo:         "periodo",
	Gerencia:        "gerencia",
	Relacion:        "relacion",
	Sexo:            "sexo",
	RangoAntiguedad: "rango_antiguedad",
	RangoEdad:       "rango_edad",
	Funcion:         "funcion",
	Distrito:        "distrito",
	Ministerio:      "ministerio",
	Nivel:           "nivel",
}

var dimensionLabels = map[Dimension]string{
	Periodo:         "Periodo(s)",
	Gerencia:        "Gerencia(s)",
	Relacion:        "Relación(es)",
	Sexo:            "Sexo(s)",
	RangoAntiguedad: "Rango(s) de Antigüedad",
	RangoEdad:       "Rango(s) de Edad",
	Funcion:         "Función(es)",
	Distrito:        "Distrito(s)",
	Ministerio:      "Ministerio(s)",
	Nivel:           "Nivel(es)",
}

// Slug is the ASCII key used in query strings and file names.
func (d Dimension) Slug() string {
	if s, ok := dimensionSlugs[d]; ok {
		return s
	}
	return strings.ToLower(string(d))
}

// Label is the filter-panel caption.
func (d Dimension) Label() string {
	if l, ok := dimensionLabels[d]; ok {
		return l
	}
	return string(d)
}

func (d Dimension) String() string { return string(d) }

// DimensionBySlug resolves a query-string key back to its dimension.
func DimensionBySlug(slug string) (Dimension, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for d, s := range dimensionSlugs {
		if s == slug {
			return d, true
		}
	}
	return "", false
}

// nullLiterals are textual spellings of a missing cell.
var nullLiterals = map[string]struct{}{
	"":     {},
	"none": {},
	"nan":  {},
	"nat":  {},
	"null": {},
	"<na>": {},
}

func isMissing(value string) bool {
	_, ok := nullLiterals[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

// cleanText trims value and maps every null spelling to the sentinel.
func cleanText(value string) string {
	value = strings.TrimSpace(value)
	if isMissing(value) {
		return Unavailable
	}
	return value
}

// Casers carry state, so each call builds its own.
func lowerText(value string) string {
	return cases.Lower(language.Spanish).String(value)
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(value string) string {
	if value == "" {
		return value
	}
	r, size := utf8.DecodeRuneInString(value)
	return cases.Upper(language.Spanish).String(string(r)) + lowerText(value[size:])
}

// headerKey is the lookup key used to match workbook headers to expected columns.
func headerKey(header string) string {
	return lowerText(norm.NFC.String(strings.TrimSpace(header)))
}
