package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnDatesOrder(t *testing.T) {
	for _, tc := range []struct {
		name     string
		values   []string
		dayFirst bool
	}{
		{"day above twelve", []string{"", "03/04/2020", "25/03/2020"}, true},
		{"month first", []string{"03/04/2020", "12/31/2020"}, false},
		{"ambiguous defaults to day first", []string{"03/04/2020", "01-02-2021"}, true},
		{"iso only", []string{"2020-12-31"}, true},
		{"with time", []string{"4/13/2020 08:30"}, false},
	} {
		assert.Equal(t, tc.dayFirst, columnDates(tc.values).dayFirst, tc.name)
	}
}

func TestDateReaderParse(t *testing.T) {
	day := columnDates(nil)
	got, ok := day.parse("03/04/2020")
	require.True(t, ok)
	assert.Equal(t, time.Date(2020, time.April, 3, 0, 0, 0, 0, time.UTC), got)

	month := columnDates([]string{"12/31/2020"})
	got, ok = month.parse("03/04/2020")
	require.True(t, ok)
	assert.Equal(t, time.Date(2020, time.March, 4, 0, 0, 0, 0, time.UTC), got)

	_, ok = day.parse("12/31/2020")
	assert.False(t, ok)

	got, ok = day.parse("45658")
	require.True(t, ok)
	assert.Equal(t, "2025-01-01", got.Format(isoDate))

	_, ok = day.parse("12")
	assert.False(t, ok)
	_, ok = day.parse("nan")
	assert.False(t, ok)
}
