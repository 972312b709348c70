package analytics

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/findosh/fundsight/internal/models"
)

// ComputeRatios derives MOIC, ROI percent and annualized IRR percent
// from an initial and current value over [start, end]. MOIC and ROI
// only need a nonzero initial value; IRR additionally needs a positive
// initial value, a positive multiple, and a positive elapsed time.
//
// IRR here is the two-point compound annual growth rate. With only
// aggregate period balances there are no interim cashflow dates, so a
// full cashflow IRR is not computable from this data.
func ComputeRatios(initial, current decimal.Decimal, start, end time.Time) (moic, roiPct, irrPct *float64) {
	if initial.IsZero() {
		return nil, nil, nil
	}

	ratio := current.Div(initial)
	m := ratio.InexactFloat64()
	roi := ratio.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100)).InexactFloat64()
	moic = &m
	roiPct = &roi

	span := models.NewTimeSpan(start, end)
	if initial.Sign() < 0 || span.Years <= 0 || m <= 0 {
		return moic, roiPct, nil
	}
	irr := (math.Pow(m, 1/span.Years) - 1) * 100
	return moic, roiPct, &irr
}
