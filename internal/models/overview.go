package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Basis selects the time window used to pick the initial and current
// values for an overview computation. It is a per-request parameter and
// is never persisted.
type Basis string

const (
	BasisInception Basis = "inception"
	BasisYTD       Basis = "ytd"
	BasisQuarter   Basis = "quarter"
	BasisMonth     Basis = "month"
	BasisDay       Basis = "day"
	BasisLatest    Basis = "latest"
)

// ParseBasis normalizes a query-string basis; unknown values fall back
// to inception, matching the permissive request handling upstream.
func ParseBasis(s string) Basis {
	switch Basis(s) {
	case BasisInception, BasisYTD, BasisQuarter, BasisMonth, BasisDay, BasisLatest:
		return Basis(s)
	default:
		return BasisInception
	}
}

// TimeSpan describes the resolved window of an overview computation.
type TimeSpan struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Days      int     `json:"days"`
	Years     float64 `json:"years"`
}

// NewTimeSpan builds a TimeSpan for the half-open day count between two
// dates. Years uses the 365.25-day convention shared with the IRR
// calculation.
func NewTimeSpan(start, end time.Time) *TimeSpan {
	days := int(end.Sub(start).Hours() / 24)
	return &TimeSpan{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		Days:      days,
		Years:     float64(days) / 365.25,
	}
}

// OverviewResult is the derived performance summary returned to callers.
// MOIC, ROI and IRR are independently nullable: absence of one never
// blocks the others.
type OverviewResult struct {
	Source       string          `json:"source,omitempty"`
	Sheet        string          `json:"sheet"`
	Basis        Basis           `json:"basis"`
	PeriodEnd    string          `json:"period_end"`
	InitialValue decimal.Decimal `json:"initial_value"`
	CurrentValue decimal.Decimal `json:"current_value"`
	MOIC         *float64        `json:"moic"`
	ROIPct       *float64        `json:"roi_pct"`
	IRRPct       *float64        `json:"irr_pct"`
	TimeSpan     *TimeSpan       `json:"time_span"`
}
