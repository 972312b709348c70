package extractor

import (
	"strconv"
	"strings"
	"time"
)

// Excel's 1900 date system counts whole days from this epoch. Using
// Dec 30 (not 31) absorbs the historical leap-year bug in serial 60.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Serials outside this range are treated as plain numbers, not dates;
// this keeps stray numeric IDs from being misread as dates.
const (
	minExcelSerial = 20000
	maxExcelSerial = 90000
)

// dateLayouts is tried in order against string cells. Non-padded Go
// layouts accept both "1/2/2024" and "01/02/2024". Datetime variants
// come last; their time component is discarded.
var dateLayouts = []string{
	"1/2/2006",
	"2006-01-02",
	"02/01/2006",
	"1/2/06",
	"2-Jan-2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2-Jan-06",
	"Jan-06",
	"Jan 06",
	"Jan-2006",
	"Jan 2006",
}

// ParseCellDate interprets a raw cell value as a calendar date. Numeric
// values in the Excel serial range become 1900-system dates; strings are
// tried against the layout list. The bool result is false when the cell
// is not a date; that is never an error condition for callers.
func ParseCellDate(cell any) (time.Time, bool) {
	switch v := cell.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC), true
	case float64:
		return fromExcelSerial(v)
	case float32:
		return fromExcelSerial(float64(v))
	case int:
		return fromExcelSerial(float64(v))
	case int64:
		return fromExcelSerial(float64(v))
	case string:
		return parseDateString(v)
	default:
		return time.Time{}, false
	}
}

func fromExcelSerial(f float64) (time.Time, bool) {
	if f <= minExcelSerial || f >= maxExcelSerial {
		return time.Time{}, false
	}
	// Date-only: the fractional time-of-day part is ignored.
	return excelEpoch.AddDate(0, 0, int(f)), true
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "Z")
	if s == "" {
		return time.Time{}, false
	}
	// Loaders that hand back raw cell values serialize date serials as
	// numeric strings.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromExcelSerial(f)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// IsSaneDate bounds accepted dates to [2000-01-01, now+31d]. Anything
// outside is assumed to be a misparsed number rather than a real period.
func IsSaneDate(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	lo := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	hi := time.Now().UTC().AddDate(0, 0, 31)
	return !t.Before(lo) && !t.After(hi)
}

// ExcelSerial is the inverse of the serial branch of ParseCellDate.
func ExcelSerial(t time.Time) int {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(day.Sub(excelEpoch).Hours() / 24)
}

func saneCellDate(cell any) (time.Time, bool) {
	d, ok := ParseCellDate(cell)
	if !ok || !IsSaneDate(d) {
		return time.Time{}, false
	}
	return d, true
}
