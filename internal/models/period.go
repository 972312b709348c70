package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PeriodFacts holds the aggregated totals extracted from a worksheet for
// one monthly period. Each field is independently optional: a sheet that
// never mentions management fees simply leaves Fees unset.
type PeriodFacts struct {
	Beginning  decimal.NullDecimal
	Ending     decimal.NullDecimal
	Unrealized decimal.NullDecimal
	Realized   decimal.NullDecimal
	Fees       decimal.NullDecimal
}

// HasAny reports whether at least one total was found for the period.
func (f *PeriodFacts) HasAny() bool {
	return f.Beginning.Valid || f.Ending.Valid || f.Unrealized.Valid ||
		f.Realized.Valid || f.Fees.Valid
}

// PeriodRecord is the persisted monthly snapshot for a sheet. AsOfDate is
// always normalized to the last calendar day of the month; at most one
// record exists per (sheet, as-of) pair.
type PeriodRecord struct {
	ID                 uuid.UUID           `json:"-"`
	Sheet              string              `json:"sheet"`
	AsOfDate           time.Time           `json:"as_of_date"`
	BeginningBalance   decimal.NullDecimal `json:"beginning_balance"`
	EndingBalance      decimal.NullDecimal `json:"ending_balance"`
	UnrealizedGainLoss decimal.NullDecimal `json:"unrealized_gain_loss"`
	RealizedGainLoss   decimal.NullDecimal `json:"realized_gain_loss"`
	ManagementFees     decimal.NullDecimal `json:"management_fees"`
	Source             string              `json:"source"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// NewPeriodRecord builds a record from extracted facts, normalizing the
// as-of date to month end.
func NewPeriodRecord(sheet string, asOf time.Time, facts *PeriodFacts, source string) *PeriodRecord {
	return &PeriodRecord{
		ID:                 uuid.New(),
		Sheet:              sheet,
		AsOfDate:           MonthEnd(asOf),
		BeginningBalance:   facts.Beginning,
		EndingBalance:      facts.Ending,
		UnrealizedGainLoss: facts.Unrealized,
		RealizedGainLoss:   facts.Realized,
		ManagementFees:     facts.Fees,
		Source:             source,
	}
}

// Facts converts a stored record back to the aggregate form used by the
// overview computation.
func (r *PeriodRecord) Facts() *PeriodFacts {
	return &PeriodFacts{
		Beginning:  r.BeginningBalance,
		Ending:     r.EndingBalance,
		Unrealized: r.UnrealizedGainLoss,
		Realized:   r.RealizedGainLoss,
		Fees:       r.ManagementFees,
	}
}

// MonthEnd returns the last calendar day of t's month at midnight UTC.
func MonthEnd(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}
