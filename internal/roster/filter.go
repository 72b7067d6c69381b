package roster

import (
	"net/url"
	"sort"
	"strings"
)

// Selection maps a dimension to the set of values a record must hold. A missing
// or empty entry places no constraint on that dimension.
type Selection map[Dimension][]string

// Filter keeps the rows of t that satisfy every non-empty constraint in sel.
// Dimensions are AND-combined, values within a dimension OR-combined. Row order
// is preserved and t is left untouched.
func Filter(t *Table, sel Selection) *Table {
	type constraint struct {
		column  string
		allowed map[string]bool
	}
	var constraints []constraint
	for _, dim := range sel.dimensions() {
		values := sel[dim]
		set := make(map[string]bool, len(values))
		for _, v := range values {
			set[v] = true
		}
		constraints = append(constraints, constraint{column: string(dim), allowed: set})
	}
	if len(constraints) == 0 {
		return t
	}

	indices := make([]int, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		pass := true
		for _, c := range constraints {
			if !c.allowed[t.Value(i, c.column)] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}
	return t.subset(indices)
}

// Where keeps the rows whose dim equals value.
func Where(t *Table, dim Dimension, value string) *Table {
	return Filter(t, Selection{dim: {value}})
}

// dimensions returns the constrained dimensions in a stable order.
func (s Selection) dimensions() []Dimension {
	dims := make([]Dimension, 0, len(s))
	for d, values := range s {
		if len(values) > 0 {
			dims = append(dims, d)
		}
	}
	sort.Slice(dims, func(i, j int) bool { return dims[i] < dims[j] })
	return dims
}

// Values returns the selected values of dim, or nil when dim is unconstrained.
func (s Selection) Values(dim Dimension) []string {
	return s[dim]
}

// Key is a canonical encoding of the selection, stable across map iteration order
// and value order. Unconstrained dimensions do not contribute.
func (s Selection) Key() string {
	var b strings.Builder
	for _, d := range s.dimensions() {
		values := append([]string(nil), s[d]...)
		sort.Strings(values)
		b.WriteString(url.QueryEscape(d.Slug()))
		b.WriteByte('=')
		for i, v := range values {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(url.QueryEscape(v))
		}
		b.WriteByte('&')
	}
	return b.String()
}

// Query encodes the selection as URL query parameters keyed by dimension slug.
func (s Selection) Query() url.Values {
	q := url.Values{}
	for _, d := range s.dimensions() {
		for _, v := range s[d] {
			q.Add(d.Slug(), v)
		}
	}
	return q
}

// SelectionFromQuery reads a selection from query parameters keyed by dimension
// slug. Unknown keys are ignored.
func SelectionFromQuery(q url.Values) Selection {
	sel := Selection{}
	for key, values := range q {
		dim, ok := DimensionBySlug(key)
		if !ok {
			continue
		}
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				sel[dim] = append(sel[dim], v)
			}
		}
	}
	return sel
}
