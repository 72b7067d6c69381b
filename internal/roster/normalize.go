package roster

import (
	"math"
	"strconv"
	"strings"
)

// canonicalColumns are renamed to their canonical spelling when a header matches
// them ignoring case, surrounding space and Unicode composition.
var canonicalColumns = []string{
	ColLegajo,
	ColFechaIngreso,
	ColFechaNacimiento,
	ColRangoAntiguedadIn,
	ColRangoEdadIn,
	string(Periodo),
	string(Gerencia),
	string(Relacion),
	string(Sexo),
	string(Funcion),
	string(Distrito),
	string(Ministerio),
	string(Nivel),
}

var dateColumns = []string{ColFechaIngreso, ColFechaNacimiento}

// Normalize turns a raw worksheet into a clean table: headers are canonicalised,
// every cell is trimmed, LEGAJO is coerced to a number or left missing, date
// columns are rewritten as ISO dates, and every free-text dimension exists and
// holds either a trimmed value or the sentinel. Zero rows is a valid input and
// yields a table with no records.
func Normalize(raw *RawSheet) *Table {
	if raw == nil {
		raw = &RawSheet{}
	}

	columns := canonicalHeader(raw.Header)
	rows := make([][]string, len(raw.Rows))
	for i, row := range raw.Rows {
		cells := make([]string, len(columns))
		for j := range cells {
			if j < len(row) {
				cells[j] = strings.TrimSpace(row[j])
			}
		}
		rows[i] = cells
	}
	t := newTable(columns, rows)

	if t.Has(ColLegajo) {
		t = t.withColumn(ColLegajo, mapColumn(t, ColLegajo, coerceIdentifier))
	}
	for _, col := range dateColumns {
		if t.Has(col) {
			dates := columnDates(t.Column(col))
			t = t.withColumn(col, mapColumn(t, col, dates.iso))
		}
	}
	for _, dim := range freeTextDimensions {
		col := string(dim)
		if !t.Has(col) {
			t = t.withColumn(col, fill(t.Len(), Unavailable))
			continue
		}
		t = t.withColumn(col, mapColumn(t, col, cleanText))
	}
	return t
}

func canonicalHeader(header []string) []string {
	byKey := make(map[string]string, len(canonicalColumns))
	for _, c := range canonicalColumns {
		byKey[headerKey(c)] = c
	}
	taken := map[string]bool{}
	out := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if canonical, ok := byKey[headerKey(name)]; ok && !taken[canonical] {
			name = canonical
			taken[canonical] = true
		}
		out[i] = name
	}
	return out
}

// coerceIdentifier keeps numeric identifiers and blanks everything else.
func coerceIdentifier(value string) string {
	if isMissing(value) {
		return ""
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// iso rewrites value as YYYY-MM-DD, or blanks it when it is not a date.
func (r dateReader) iso(value string) string {
	parsed, ok := r.parse(value)
	if !ok {
		return ""
	}
	return parsed.Format(isoDate)
}

func mapColumn(t *Table, column string, fn func(string) string) []string {
	values := t.Column(column)
	for i, v := range values {
		values[i] = fn(v)
	}
	return values
}

func fill(n int, value string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = value
	}
	return out
}
