package roster

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const isoDate = "2006-01-02"

// Excel serials outside this range are treated as plain numbers rather than
// dates; small integers in a period column are month numbers, not 1900 dates.
const (
	minDateSerial = 367
	maxDateSerial = 80000
)

// commonLayouts carry no day/month ambiguity.
var commonLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006/01/02",
	"2006-01",
	"01/2006",
	"1/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan-06",
	"January 2006",
}

var dayFirstLayouts = []string{
	"2/1/2006",
	"02/01/2006",
	"2/1/06",
	"02/01/06",
	"2-1-2006",
	"02-01-2006",
	"2-1-06",
	"02-01-06",
	"2/1/2006 15:04",
	"02/01/2006 15:04",
	"2/1/2006 15:04:05",
	"02/01/2006 15:04:05",
}

var monthFirstLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"01/02/06",
	"1-2-2006",
	"01-02-2006",
	"1-2-06",
	"01-02-06",
	"1/2/2006 15:04",
	"01/02/2006 15:04",
	"1/2/2006 15:04:05",
	"01/02/2006 15:04:05",
	"1/2/2006 3:04 PM",
	"01/02/2006 03:04 PM",
}

// dateReader parses the cells of one column with a single day/month order.
type dateReader struct {
	dayFirst bool
	layouts  []string
}

// columnDates picks the day/month order for values: the first numeric date whose
// leading or middle field exceeds 12 settles it, otherwise day-first.
func columnDates(values []string) dateReader {
	dayFirst := true
	for _, v := range values {
		a, b, ok := numericDateFields(v)
		if !ok {
			continue
		}
		if a > 12 && b <= 12 {
			break
		}
		if b > 12 && a <= 12 {
			dayFirst = false
			break
		}
	}
	r := dateReader{dayFirst: dayFirst}
	r.layouts = append(r.layouts, commonLayouts...)
	if dayFirst {
		r.layouts = append(r.layouts, dayFirstLayouts...)
	} else {
		r.layouts = append(r.layouts, monthFirstLayouts...)
	}
	return r
}

// numericDateFields returns the first two fields of an a/b/yyyy or a-b-yy date.
func numericDateFields(value string) (int, int, bool) {
	value = strings.TrimSpace(value)
	if i := strings.IndexByte(value, ' '); i >= 0 {
		value = value[:i]
	}
	parts := strings.FieldsFunc(value, func(r rune) bool { return r == '/' || r == '-' })
	if len(parts) != 3 || len(parts[0]) > 2 || len(parts[1]) > 2 {
		return 0, 0, false
	}
	a, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}

// parse reads a workbook cell as a calendar date. It accepts Excel serial
// numbers and the reader's layouts.
func (r dateReader) parse(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if isMissing(value) {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial < minDateSerial || serial > maxDateSerial {
			return time.Time{}, false
		}
		parsed, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}

	for _, layout := range r.layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// yearsBetween returns whole elapsed days divided by 365.25.
func yearsBetween(from, now time.Time) float64 {
	days := int64(now.Sub(from) / (24 * time.Hour))
	return float64(days) / 365.25
}
