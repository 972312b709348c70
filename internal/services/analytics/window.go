// Package analytics computes performance overviews from stored period
// metrics: it resolves a measurement window from a basis, selects the
// initial and current values inside it, and derives MOIC, ROI and IRR.
package analytics

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/findosh/fundsight/internal/models"
)

var (
	// ErrNoPeriods means no stored periods exist for the sheet.
	ErrNoPeriods = errors.New("no periods available")

	// ErrInvalidPeriodSpec means an explicit period_end or year was
	// supplied but matched nothing in the available periods.
	ErrInvalidPeriodSpec = errors.New("period spec matched no available period")
)

// Window is a resolved [Start, End] measurement interval. End always
// lands on an available period date; Start is a calendar boundary and
// need not. Single-point bases (month, day, latest) have Start == End;
// their opening value comes from the prior period, not the window.
type Window struct {
	Start time.Time
	End   time.Time
}

// ResolveWindow turns a basis plus optional explicit period end into a
// concrete window over the available period dates. dates must be the
// sheet's as-of dates; order is not assumed. The end is clamped to the
// latest available date so a future-dated request cannot produce an
// empty window.
func ResolveWindow(dates []time.Time, basis models.Basis, periodEnd, year string) (Window, error) {
	if len(dates) == 0 {
		return Window{}, ErrNoPeriods
	}
	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
	latest := sorted[len(sorted)-1]

	end, err := resolvePeriodEnd(sorted, periodEnd, year)
	if err != nil {
		return Window{}, err
	}
	if end.After(latest) {
		end = latest
	}

	var start time.Time
	switch basis {
	case models.BasisInception:
		start = sorted[0]
	case models.BasisYTD:
		start = time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case models.BasisQuarter:
		start = quarterStart(end)
	case models.BasisMonth, models.BasisDay, models.BasisLatest:
		start = end
	default:
		start = sorted[0]
	}
	return Window{Start: start, End: end}, nil
}

// resolvePeriodEnd picks the window end from the explicit spec, in
// priority order: a year selects that year's latest period, a YYYY-MM
// selects that month's latest period, a bare YYYY behaves like year,
// and a full date is used as-is. No spec means the latest period.
func resolvePeriodEnd(sorted []time.Time, periodEnd, year string) (time.Time, error) {
	latest := sorted[len(sorted)-1]

	if year != "" {
		y, err := strconv.Atoi(year)
		if err != nil {
			return time.Time{}, fmt.Errorf("year %q: %w", year, ErrInvalidPeriodSpec)
		}
		if d, ok := latestInYear(sorted, y); ok {
			return d, nil
		}
		return time.Time{}, fmt.Errorf("year %d: %w", y, ErrInvalidPeriodSpec)
	}

	if periodEnd == "" {
		return latest, nil
	}
	if t, err := time.Parse("2006-01", periodEnd); err == nil {
		if d, ok := latestInMonth(sorted, t.Year(), t.Month()); ok {
			return d, nil
		}
		return time.Time{}, fmt.Errorf("month %s: %w", periodEnd, ErrInvalidPeriodSpec)
	}
	if y, err := strconv.Atoi(periodEnd); err == nil && y >= 1000 && y <= 9999 {
		if d, ok := latestInYear(sorted, y); ok {
			return d, nil
		}
		return time.Time{}, fmt.Errorf("year %d: %w", y, ErrInvalidPeriodSpec)
	}
	if t, err := time.Parse("2006-01-02", periodEnd); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("period end %q: %w", periodEnd, ErrInvalidPeriodSpec)
}

func latestInYear(sorted []time.Time, year int) (time.Time, bool) {
	var out time.Time
	found := false
	for _, d := range sorted {
		if d.Year() == year {
			out = d
			found = true
		}
	}
	return out, found
}

func latestInMonth(sorted []time.Time, year int, month time.Month) (time.Time, bool) {
	var out time.Time
	found := false
	for _, d := range sorted {
		if d.Year() == year && d.Month() == month {
			out = d
			found = true
		}
	}
	return out, found
}

func quarterStart(t time.Time) time.Time {
	q := (int(t.Month()) - 1) / 3
	return time.Date(t.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC)
}
