package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestComputeRatios(t *testing.T) {
	start := time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	moic, roi, irr := ComputeRatios(decimal.NewFromInt(200), decimal.NewFromInt(250), start, end)
	if moic == nil || math.Abs(*moic-1.25) > 1e-9 {
		t.Errorf("moic = %v, want 1.25", moic)
	}
	if roi == nil || math.Abs(*roi-25.0) > 1e-9 {
		t.Errorf("roi = %v, want 25.0", roi)
	}
	if irr == nil {
		t.Error("irr = nil, want a value over a one-year span")
	}
}

func TestComputeRatiosZeroInitial(t *testing.T) {
	start := time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	moic, roi, irr := ComputeRatios(decimal.Zero, decimal.NewFromInt(250), start, end)
	if moic != nil || roi != nil || irr != nil {
		t.Errorf("got (%v, %v, %v), want all nil for zero initial", moic, roi, irr)
	}
}

func TestComputeRatiosNegativeInitial(t *testing.T) {
	start := time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	moic, roi, irr := ComputeRatios(decimal.NewFromInt(-100), decimal.NewFromInt(250), start, end)
	if moic == nil || math.Abs(*moic-(-2.5)) > 1e-9 {
		t.Errorf("moic = %v, want -2.5", moic)
	}
	if roi == nil || math.Abs(*roi-(-350.0)) > 1e-9 {
		t.Errorf("roi = %v, want -350.0", roi)
	}
	if irr != nil {
		t.Errorf("irr = %v, want nil for negative initial", *irr)
	}
}

func TestComputeRatiosIRRClosedForm(t *testing.T) {
	// 100 -> 121 over two years is 10% annualized.
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, _, irr := ComputeRatios(decimal.NewFromInt(100), decimal.NewFromInt(121), start, end)
	if irr == nil {
		t.Fatal("irr = nil")
	}
	if math.Abs(*irr-10.0) > 0.05 {
		t.Errorf("irr = %v, want 10.0 within tolerance", *irr)
	}
}

func TestComputeRatiosZeroSpanNoIRR(t *testing.T) {
	day := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	moic, roi, irr := ComputeRatios(decimal.NewFromInt(100), decimal.NewFromInt(110), day, day)
	if moic == nil || roi == nil {
		t.Fatal("moic and roi must survive a zero-length span")
	}
	if irr != nil {
		t.Errorf("irr = %v, want nil for zero-length span", *irr)
	}
}
