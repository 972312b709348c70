package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestMonthEnd(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
		want  time.Time
	}{
		{"mid month", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
		{"already month end", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)},
		{"leap february", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"non-leap february", time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC), time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"december", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthEnd(tt.input); !got.Equal(tt.want) {
				t.Errorf("MonthEnd(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewPeriodRecordNormalizesDate(t *testing.T) {
	facts := &PeriodFacts{
		Ending: decimal.NullDecimal{Decimal: decimal.NewFromInt(100), Valid: true},
	}
	rec := NewPeriodRecord("Master", time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC), facts, "book.xlsx")

	want := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	if !rec.AsOfDate.Equal(want) {
		t.Errorf("AsOfDate = %v, want %v", rec.AsOfDate, want)
	}
	if rec.ID == uuid.Nil {
		t.Error("expected a generated ID")
	}
}

func TestPeriodFactsRoundTrip(t *testing.T) {
	facts := &PeriodFacts{
		Beginning: decimal.NullDecimal{Decimal: decimal.NewFromInt(90), Valid: true},
		Ending:    decimal.NullDecimal{Decimal: decimal.NewFromInt(100), Valid: true},
	}
	rec := NewPeriodRecord("Master", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), facts, "")

	got := rec.Facts()
	if !got.Beginning.Valid || !got.Beginning.Decimal.Equal(facts.Beginning.Decimal) {
		t.Errorf("Beginning = %+v", got.Beginning)
	}
	if got.Unrealized.Valid {
		t.Errorf("Unrealized = %+v, want null", got.Unrealized)
	}
	if !got.HasAny() {
		t.Error("HasAny() = false, want true")
	}
	if (&PeriodFacts{}).HasAny() {
		t.Error("empty facts must report HasAny() = false")
	}
}

func TestParseBasis(t *testing.T) {
	tests := []struct {
		input string
		want  Basis
	}{
		{"inception", BasisInception},
		{"ytd", BasisYTD},
		{"quarter", BasisQuarter},
		{"month", BasisMonth},
		{"day", BasisDay},
		{"latest", BasisLatest},
		{"", BasisInception},
		{"bogus", BasisInception},
	}

	for _, tt := range tests {
		if got := ParseBasis(tt.input); got != tt.want {
			t.Errorf("ParseBasis(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
