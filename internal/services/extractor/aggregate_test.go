package extractor

import (
	"testing"

	"github.com/findosh/fundsight/internal/models"
)

func TestSumInvestorRows(t *testing.T) {
	g := models.Grid{
		{"Ending Balance"},
		{"inv-001", "Investor A", 100.5},
		{"inv-002", "Investor B", "1,200.25"},
		{"inv-003", "Investor C", "(300)"},
		{"", "Total", 1000.75},
		{"", "Grand Total", 1000.75},
	}

	total, ok := SumInvestorRows(g, 1, 3, 0)
	if !ok {
		t.Fatal("expected numeric rows")
	}
	if total.String() != "1000.75" {
		t.Errorf("total = %s, want 1000.75 (totals skipped, parens negative)", total)
	}
}

func TestSumInvestorRowsStopsAtNextLabel(t *testing.T) {
	g := models.Grid{
		{"Beginning Balance"},
		{"inv-001", "Investor A", 100.0},
		{"Ending Balance"},
		{"inv-001", "Investor A", 120.0},
	}

	total, ok := SumInvestorRows(g, 1, 3, 3)
	if !ok {
		t.Fatal("expected numeric rows")
	}
	if total.String() != "100" {
		t.Errorf("total = %s, want 100 (bounded by next label row)", total)
	}
}

func TestSumInvestorRowsBlankStreak(t *testing.T) {
	g := models.Grid{{"Ending Balance"}}
	g = append(g, []any{"inv-001", "Investor A", 50.0})
	for i := 0; i < maxBlankStreak; i++ {
		g = append(g, []any{})
	}
	// Past the streak limit; must not be reached.
	g = append(g, []any{"inv-099", "Investor Z", 9999.0})

	total, ok := SumInvestorRows(g, 1, 3, 0)
	if !ok {
		t.Fatal("expected numeric rows")
	}
	if total.String() != "50" {
		t.Errorf("total = %s, want 50 (walk stops after %d blank rows)", total, maxBlankStreak)
	}
}

func TestSumInvestorRowsNoNumeric(t *testing.T) {
	g := models.Grid{
		{"Ending Balance"},
		{"inv-001", "Investor A", "n/a"},
		{"inv-002", "Investor B", ""},
	}

	if _, ok := SumInvestorRows(g, 1, 3, 0); ok {
		t.Error("expected ok = false with no parsable values")
	}
}

func TestSumInvestorRowsDashIsAbsent(t *testing.T) {
	g := models.Grid{
		{"Ending Balance"},
		{"inv-001", "Investor A", "-"},
		{"inv-002", "Investor B", 75.0},
	}

	total, ok := SumInvestorRows(g, 1, 3, 0)
	if !ok {
		t.Fatal("expected numeric rows")
	}
	if total.String() != "75" {
		t.Errorf("total = %s, want 75 (dash placeholder is not zero)", total)
	}
}

func TestNextLabelRowBelow(t *testing.T) {
	labelRows := map[Metric]int{
		MetricBeginning: 2,
		MetricEnding:    9,
		MetricFees:      15,
	}

	if got := nextLabelRowBelow(labelRows, 2); got != 9 {
		t.Errorf("nextLabelRowBelow(2) = %d, want 9", got)
	}
	if got := nextLabelRowBelow(labelRows, 9); got != 15 {
		t.Errorf("nextLabelRowBelow(9) = %d, want 15", got)
	}
	if got := nextLabelRowBelow(labelRows, 15); got != 0 {
		t.Errorf("nextLabelRowBelow(15) = %d, want 0", got)
	}
}
