package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/findosh/fundsight/internal/models"
)

// Service computes performance overviews from extracted or stored
// period facts.
type Service struct{}

// NewService creates a new analytics service.
func NewService() *Service {
	return &Service{}
}

// Request describes one overview computation.
type Request struct {
	Sheet     string
	Basis     models.Basis
	PeriodEnd string
	Year      string
	Source    string
}

// ComputeOverview resolves the measurement window over the available
// periods, picks the initial and current values inside it, and derives
// the performance ratios. Value selection is deliberately forgiving:
// a missing beginning balance falls back to the prior period's ending
// balance, and a missing ending near the window start falls back to the
// earliest one on record.
func (s *Service) ComputeOverview(facts map[time.Time]*models.PeriodFacts, req Request) (*models.OverviewResult, error) {
	dates := make([]time.Time, 0, len(facts))
	for d := range facts {
		dates = append(dates, d)
	}
	win, err := ResolveWindow(dates, req.Basis, req.PeriodEnd, req.Year)
	if err != nil {
		return nil, err
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	current, periodEnd := currentValue(facts, dates, win.End)

	var initial decimal.Decimal
	switch req.Basis {
	case models.BasisMonth, models.BasisDay, models.BasisLatest:
		initial = monthInitial(facts, dates, periodEnd)
	default:
		initial = windowInitial(facts, dates, win.Start, periodEnd)
	}

	// Single-point bases measure at one date, so the span collapses to
	// zero and the annualized rate stays null.
	spanStart := win.Start
	switch req.Basis {
	case models.BasisMonth, models.BasisDay, models.BasisLatest:
		spanStart = periodEnd
	}
	moic, roi, irr := ComputeRatios(initial, current, spanStart, periodEnd)

	return &models.OverviewResult{
		Source:       req.Source,
		Sheet:        req.Sheet,
		Basis:        req.Basis,
		PeriodEnd:    periodEnd.Format("2006-01-02"),
		InitialValue: initial,
		CurrentValue: current,
		MOIC:         moic,
		ROIPct:       roi,
		IRRPct:       irr,
		TimeSpan:     models.NewTimeSpan(spanStart, periodEnd),
	}, nil
}

// currentValue is the ending balance of the latest period at or before
// end that actually has one. Also returns the date it came from, which
// becomes the reported period end.
func currentValue(facts map[time.Time]*models.PeriodFacts, sorted []time.Time, end time.Time) (decimal.Decimal, time.Time) {
	for i := len(sorted) - 1; i >= 0; i-- {
		d := sorted[i]
		if d.After(end) {
			continue
		}
		if facts[d].Ending.Valid {
			return facts[d].Ending.Decimal, d
		}
	}
	return decimal.Zero, end
}

// monthInitial picks the opening value for single-month bases: the end
// month's own beginning balance, else the latest ending balance from an
// earlier period, else the earliest ending on record.
func monthInitial(facts map[time.Time]*models.PeriodFacts, sorted []time.Time, end time.Time) decimal.Decimal {
	if f, ok := facts[end]; ok && f.Beginning.Valid {
		return f.Beginning.Decimal
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		d := sorted[i]
		if !d.Before(end) {
			continue
		}
		if facts[d].Ending.Valid {
			return facts[d].Ending.Decimal
		}
	}
	return earliestEnding(facts, sorted)
}

// windowInitial picks the opening value for multi-period bases: the
// first beginning balance inside the window, else the ending balance of
// the period just before the window start, else the earliest ending.
func windowInitial(facts map[time.Time]*models.PeriodFacts, sorted []time.Time, start, end time.Time) decimal.Decimal {
	for _, d := range sorted {
		if d.Before(start) || d.After(end) {
			continue
		}
		if facts[d].Beginning.Valid {
			return facts[d].Beginning.Decimal
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		d := sorted[i]
		if !d.Before(start) {
			continue
		}
		if facts[d].Ending.Valid {
			return facts[d].Ending.Decimal
		}
	}
	return earliestEnding(facts, sorted)
}

func earliestEnding(facts map[time.Time]*models.PeriodFacts, sorted []time.Time) decimal.Decimal {
	for _, d := range sorted {
		if facts[d].Ending.Valid {
			return facts[d].Ending.Decimal
		}
	}
	return decimal.Zero
}
