package models

// Grid is a 2-D block of raw worksheet cell values as delivered by a
// workbook loader. Cells are heterogeneous: string, float64, int,
// time.Time, or nil for empty. The grid is read-only to the engine.
type Grid [][]any

// Rows returns the number of rows in the grid.
func (g Grid) Rows() int {
	return len(g)
}

// Cols returns the widest row length in the grid.
func (g Grid) Cols() int {
	max := 0
	for _, row := range g {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// Cell returns the value at the given 1-based row and column.
// Out-of-range addresses return nil, never panic: sheets are ragged.
func (g Grid) Cell(row, col int) any {
	if row < 1 || row > len(g) {
		return nil
	}
	r := g[row-1]
	if col < 1 || col > len(r) {
		return nil
	}
	return r[col-1]
}
