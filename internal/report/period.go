package report

import (
	"github.com/Tincho2002/dotacion-assa-2025/internal/roster"
)

// DetailPeriods returns the periods offered for the detail views: the selected
// periods, or every period in t when none is selected, in canonical order.
func DetailPeriods(t *roster.Table, sel roster.Selection) []string {
	if selected := sel.Values(roster.Periodo); len(selected) > 0 {
		return roster.SortValues(roster.Periodo, dedupe(selected))
	}
	if t.Empty() {
		return nil
	}
	return roster.OrderedOptions(t, roster.Periodo)
}

// DefaultPeriod is the latest month among periods. The sentinel or another
// non-month value is chosen only when no month is available.
func DefaultPeriod(periods []string) string {
	for i := len(periods) - 1; i >= 0; i-- {
		if roster.IsMonthPeriod(periods[i]) {
			return periods[i]
		}
	}
	if len(periods) > 0 {
		return periods[len(periods)-1]
	}
	return ""
}

// ResolvePeriod returns requested when it is one of periods, else the default.
func ResolvePeriod(periods []string, requested string) string {
	for _, p := range periods {
		if p == requested {
			return p
		}
	}
	return DefaultPeriod(periods)
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
