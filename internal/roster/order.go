package roster

import (
	"sort"
)

// unorderedPeriodKey is the sort key of any period that is not a month name.
const unorderedPeriodKey = 99

var periodKeys = func() map[string]int {
	keys := make(map[string]int, len(Months)+1)
	for i, m := range Months {
		keys[m] = i + 1
	}
	keys[PeriodUnavailable] = unorderedPeriodKey
	return keys
}()

// CanonicalOrder returns the fixed domain order of dim, or nil when dim has none.
// Band orders end with the sentinel.
func CanonicalOrder(dim Dimension) []string {
	switch dim {
	case RangoAntiguedad:
		return append(TenureBands.Labels(), Unavailable)
	case RangoEdad:
		return append(AgeBands.Labels(), Unavailable)
	case Periodo:
		return append(Months[:], PeriodUnavailable)
	default:
		return nil
	}
}

// OrderedOptions returns the distinct values of dim present in t. Tenure and age
// bands come in canonical order followed by unexpected labels sorted
// lexicographically; periods sort by month with every non-month value keyed 99;
// other dimensions sort lexicographically. An absent dimension yields the
// sentinel alone. Filters, charts and pivots all order through this function.
func OrderedOptions(t *Table, dim Dimension) []string {
	if !t.Has(string(dim)) {
		return []string{Unavailable}
	}
	return SortValues(dim, distinct(t.Column(string(dim))))
}

// SortValues orders an arbitrary set of values of dim the same way
// OrderedOptions does. values is not modified.
func SortValues(dim Dimension, values []string) []string {
	out := append([]string(nil), values...)
	switch dim {
	case RangoAntiguedad, RangoEdad:
		return sortByCanonical(CanonicalOrder(dim), out)
	case Periodo:
		sort.SliceStable(out, func(i, j int) bool {
			ki, kj := periodKey(out[i]), periodKey(out[j])
			if ki != kj {
				return ki < kj
			}
			return out[i] < out[j]
		})
		return out
	default:
		sort.Strings(out)
		return out
	}
}

// periodKey is the position of a month name, 1-based, or 99.
func periodKey(value string) int {
	if k, ok := periodKeys[value]; ok {
		return k
	}
	return unorderedPeriodKey
}

func sortByCanonical(canonical, values []string) []string {
	present := make(map[string]bool, len(values))
	for _, v := range values {
		present[v] = true
	}
	out := make([]string, 0, len(values))
	known := make(map[string]bool, len(canonical))
	for _, c := range canonical {
		known[c] = true
		if present[c] {
			out = append(out, c)
		}
	}
	var others []string
	for _, v := range values {
		if !known[v] {
			others = append(others, v)
		}
	}
	sort.Strings(others)
	return append(out, others...)
}

func distinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0)
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// IsMonthPeriod reports whether value is one of the twelve canonical month names.
func IsMonthPeriod(value string) bool {
	return periodKey(value) != unorderedPeriodKey
}
