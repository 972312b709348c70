package extractor

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/findosh/fundsight/internal/models"
)

var (
	// ErrNoHeaderDetected means no detection strategy produced a usable
	// header: no row with two or more date cells, no month-name row with
	// a year banner, no date column, no control date.
	ErrNoHeaderDetected = errors.New("no header row with date columns detected")

	// ErrNoDateColumn means a header row exists but carries no usable
	// date axis.
	ErrNoDateColumn = errors.New("no date column or control date found")
)

const (
	headerScanRows  = 200 // rows inspected for a date header
	labelScanRows   = 250 // rows inspected for metric label captions
	controlScanRows = 40  // rows inspected for a single control date
	bannerScanRows  = 6   // rows inspected for year banners
	metricWindow    = 12  // vertical reach of the metric column resolver
)

// HeaderMap is the immutable result of header detection for one grid.
// Exactly one of the three axes is populated: DateCols for a header row
// of per-column dates, DateColumn for a per-row date axis, ControlDate
// for sheets with a single shared date. Rows and columns are 1-based.
type HeaderMap struct {
	HeaderRow   int
	DateCols    map[int]time.Time
	DateColumn  int
	ControlDate *time.Time
}

// headerStrategy is one detection attempt. Strategies are pure: they
// inspect the grid and either produce a HeaderMap or decline with nil.
type headerStrategy func(g models.Grid, anchorRow int) *HeaderMap

var headerStrategies = []headerStrategy{
	detectDateRow,
	detectMonthBannerRow,
	detectDateColumn,
	detectControlDate,
}

// DetectHeader runs the strategy chain in order until one succeeds.
// anchorRow, when positive, is a row known to hold a metric caption
// (typically "Ending Balance"); the date-row strategy prefers candidates
// at or above it.
func DetectHeader(g models.Grid, anchorRow int) (*HeaderMap, error) {
	for _, strategy := range headerStrategies {
		if hm := strategy(g, anchorRow); hm != nil {
			return hm, nil
		}
	}
	return nil, ErrNoHeaderDetected
}

// detectDateRow finds the row with two or more sane date cells. With an
// anchor, the nearest candidate at or above it wins; otherwise the row
// with the most date cells, topmost on ties.
func detectDateRow(g models.Grid, anchorRow int) *HeaderMap {
	type candidate struct {
		row   int
		dates map[int]time.Time
	}
	var candidates []candidate

	rows := g.Rows()
	if rows > headerScanRows {
		rows = headerScanRows
	}
	cols := g.Cols()
	for r := 1; r <= rows; r++ {
		local := make(map[int]time.Time)
		for c := 1; c <= cols; c++ {
			if d, ok := saneCellDate(g.Cell(r, c)); ok {
				local[c] = d
			}
		}
		if len(local) >= 2 {
			candidates = append(candidates, candidate{row: r, dates: local})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	if anchorRow > 0 {
		var above []candidate
		for _, c := range candidates {
			if c.row <= anchorRow {
				above = append(above, c)
			}
		}
		if len(above) > 0 {
			sort.Slice(above, func(i, j int) bool {
				di, dj := anchorRow-above[i].row, anchorRow-above[j].row
				if di != dj {
					return di < dj
				}
				return len(above[i].dates) > len(above[j].dates)
			})
			return &HeaderMap{HeaderRow: above[0].row, DateCols: above[0].dates}
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i].dates) != len(candidates[j].dates) {
			return len(candidates[i].dates) > len(candidates[j].dates)
		}
		return candidates[i].row < candidates[j].row
	})
	return &HeaderMap{HeaderRow: candidates[0].row, DateCols: candidates[0].dates}
}

var monthTokens = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

var (
	loneYearRE  = regexp.MustCompile(`^\s*(20\d{2})\s*$`)
	embedYearRE = regexp.MustCompile(`\b(20\d{2})\b`)
	letterRE    = regexp.MustCompile(`[a-z]`)
)

// detectYearBanners scans the top rows for standalone 4-digit years,
// column by column. First sighting per column wins.
func detectYearBanners(g models.Grid) map[int]int {
	yearByCol := make(map[int]int)
	rows := g.Rows()
	if rows > bannerScanRows {
		rows = bannerScanRows
	}
	cols := g.Cols()
	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			txt := NormalizeLabel(cellText(g.Cell(r, c)))
			if txt == "" {
				continue
			}
			if m := loneYearRE.FindStringSubmatch(txt); m != nil {
				if _, seen := yearByCol[c]; !seen {
					yearByCol[c] = atoiYear(m[1])
				}
				continue
			}
			if !letterRE.MatchString(txt) {
				continue
			}
			if m := embedYearRE.FindStringSubmatch(txt); m != nil {
				if _, seen := yearByCol[c]; !seen {
					yearByCol[c] = atoiYear(m[1])
				}
			}
		}
	}
	return yearByCol
}

func atoiYear(s string) int {
	y := 0
	for _, r := range s {
		y = y*10 + int(r-'0')
	}
	return y
}

// detectMonthBannerRow handles sheets whose columns are captioned with
// month names ("Jan", "February") and whose year sits in a banner above.
// The banner year carries rightward across columns; columns left of the
// first banner borrow the nearest banner to their right. Each matched
// column gets a synthesized month-end date.
func detectMonthBannerRow(g models.Grid, _ int) *HeaderMap {
	banners := detectYearBanners(g)
	if len(banners) == 0 {
		return nil
	}
	var bannerCols []int
	for c := range banners {
		bannerCols = append(bannerCols, c)
	}
	sort.Ints(bannerCols)

	nearestRight := func(col int) int {
		for _, c := range bannerCols {
			if c > col {
				return banners[c]
			}
		}
		return 0
	}

	rows := g.Rows()
	if rows > headerScanRows {
		rows = headerScanRows
	}
	cols := g.Cols()
	for r := 1; r <= rows; r++ {
		out := make(map[int]time.Time)
		currentYear := 0
		for c := 1; c <= cols; c++ {
			if y, ok := banners[c]; ok {
				currentYear = y
			}
			token := NormalizeLabel(cellText(g.Cell(r, c)))
			month, ok := monthTokens[token]
			if !ok {
				continue
			}
			year := currentYear
			if year == 0 {
				year = nearestRight(c)
			}
			if year == 0 {
				continue
			}
			out[c] = models.MonthEnd(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
		}
		if len(out) >= 2 {
			return &HeaderMap{HeaderRow: r, DateCols: out}
		}
	}
	return nil
}

// dateHeaderAliases are compact caption forms that indicate a per-row
// date axis. Compared with contains() after stripping non-alphanumerics,
// since captions like "As-of Date" vary wildly in punctuation.
var dateHeaderAliases = []string{
	"asofdate", "asof", "date", "period", "month",
	"valuationdate", "navdate", "statementdate", "pricingdate",
}

var nonAlnumRE = regexp.MustCompile(`[^a-z0-9]+`)

// compactLabel reduces a caption to lowercase alphanumerics for the
// contains-style header alias comparisons.
func compactLabel(s string) string {
	return nonAlnumRE.ReplaceAllString(NormalizeLabel(s), "")
}

// detectDateColumn finds a header row whose caption names a date axis;
// rows beneath then carry their own dates in that column.
func detectDateColumn(g models.Grid, _ int) *HeaderMap {
	rows := g.Rows()
	if rows > headerScanRows {
		rows = headerScanRows
	}
	cols := g.Cols()
	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			txt := compactLabel(cellText(g.Cell(r, c)))
			if txt == "" {
				continue
			}
			for _, alias := range dateHeaderAliases {
				if strings.Contains(txt, alias) {
					return &HeaderMap{HeaderRow: r, DateColumn: c}
				}
			}
		}
	}
	return nil
}

// detectControlDate falls back to a single sane date anywhere near the
// top of the sheet, shared by every data row. The latest such date wins,
// matching how report sheets stamp their as-of cell.
func detectControlDate(g models.Grid, _ int) *HeaderMap {
	rows := g.Rows()
	if rows > controlScanRows {
		rows = controlScanRows
	}
	cols := g.Cols()
	var best time.Time
	bestRow := 0
	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			if d, ok := saneCellDate(g.Cell(r, c)); ok {
				if best.IsZero() || d.After(best) {
					best = d
					bestRow = r
				}
			}
		}
	}
	if best.IsZero() {
		return nil
	}
	return &HeaderMap{HeaderRow: bestRow, ControlDate: &best}
}

// ResolveMetricColumn decides which metric a column carries by searching
// an expanding window of rows around the header at that column. The
// closest classified caption wins; merged or wrapped header blocks push
// labels several rows away from the date row.
func ResolveMetricColumn(g models.Grid, headerRow, col int) (Metric, bool) {
	for d := 0; d <= metricWindow; d++ {
		for _, r := range []int{headerRow - d, headerRow + d} {
			if r < 1 || r > g.Rows() {
				continue
			}
			if metric, ok := ClassifyLabel(cellText(g.Cell(r, col))); ok {
				return metric, true
			}
			if d == 0 {
				break
			}
		}
	}
	return "", false
}

// FindLabelRow locates the first row whose caption classifies as the
// given metric. Returns 0 when the sheet never names it.
func FindLabelRow(g models.Grid, metric Metric) int {
	rows := g.Rows()
	if rows > labelScanRows {
		rows = labelScanRows
	}
	cols := g.Cols()
	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			if m, ok := ClassifyLabel(cellText(g.Cell(r, c))); ok && m == metric {
				return r
			}
		}
	}
	return 0
}
