package extractor

import (
	"github.com/findosh/fundsight/internal/models"
	"github.com/shopspring/decimal"
)

const (
	// Columns checked to decide whether a row is an investor/data row.
	idColumn   = 1
	nameColumn = 2

	// A run of this many consecutive blank rows ends the data block.
	maxBlankStreak = 50
)

// forbiddenRowNames are subtotal captions. Their rows restate the sum of
// the individual investor rows, so including them would double-count.
var forbiddenRowNames = map[string]bool{
	"total":        true,
	"grand total":  true,
	"entity level": true,
}

// SumInvestorRows walks the data rows beneath a metric's label row and
// sums the values found in the given column. stopRow bounds the walk at
// the next metric's label row; pass 0 to run to the end of the grid.
// The bool result is false when no numeric cell was ever accumulated,
// which is distinct from a legitimate zero total.
func SumInvestorRows(g models.Grid, labelRow, col, stopRow int) (decimal.Decimal, bool) {
	total := decimal.Zero
	have := false
	blanks := 0

	rows := g.Rows()
	limit := rows + 1
	if stopRow > 0 && stopRow < limit {
		limit = stopRow
	}

	for r := labelRow + 1; r < limit && r <= rows; r++ {
		nameTxt := NormalizeLabel(cellText(g.Cell(r, nameColumn)))
		if forbiddenRowNames[nameTxt] {
			blanks = 0
			continue
		}
		if !isDataRow(g, r, nameTxt) {
			blanks++
			if blanks >= maxBlankStreak {
				break
			}
			continue
		}
		blanks = 0
		if v, ok := ParseAmount(g.Cell(r, col)); ok {
			total = total.Add(v)
			have = true
		}
	}
	return total, have
}

// isDataRow reports whether the row names an investor, either by a name
// cell or by any identifier in the id column.
func isDataRow(g models.Grid, r int, nameTxt string) bool {
	if nameTxt != "" {
		return true
	}
	switch id := g.Cell(r, idColumn).(type) {
	case nil:
		return false
	case string:
		return NormalizeLabel(id) != ""
	case float64, float32, int, int64:
		_ = id
		return true
	default:
		return false
	}
}

// nextLabelRowBelow returns the closest metric label row strictly below
// start, or 0 when none exists.
func nextLabelRowBelow(labelRows map[Metric]int, start int) int {
	next := 0
	for _, r := range labelRows {
		if r > start && (next == 0 || r < next) {
			next = r
		}
	}
	return next
}
