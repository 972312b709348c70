// Package extractor locates and aggregates financial metrics in
// irregularly laid out fund balance sheets. Nothing here assumes a fixed
// schema: header rows, date axes and metric captions are all discovered
// by heuristics, and individual unparseable cells degrade to "no value"
// rather than failing the sheet.
package extractor

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/findosh/fundsight/internal/models"
)

var (
	// ErrNoMetricColumn means no Ending Balance class column could be
	// located. Ending balance is the one mandatory metric; all others
	// are optional and simply stay null.
	ErrNoMetricColumn = errors.New("no ending balance column found")

	// ErrNoNumericRows means metric columns were located but aggregation
	// found nothing numeric beneath them.
	ErrNoNumericRows = errors.New("no numeric data rows found")
)

// Service runs the extraction pipeline over loaded grids.
type Service struct{}

// NewService creates a new extraction service.
func NewService() *Service {
	return &Service{}
}

// ExtractPeriods aggregates a grid into per-month totals keyed by
// month-end date. The grid shape decides the path: a header row of date
// columns sums investor rows beneath each metric block, a per-row date
// axis groups rows by month, and a lone control date stamps every row
// with one period.
func (s *Service) ExtractPeriods(g models.Grid) (map[time.Time]*models.PeriodFacts, error) {
	if g.Rows() == 0 {
		return nil, fmt.Errorf("empty grid: %w", ErrNoHeaderDetected)
	}

	anchorRow := FindLabelRow(g, MetricEnding)
	hm, err := DetectHeader(g, anchorRow)
	if err != nil {
		return nil, fmt.Errorf("scanned %d rows: %w", min(g.Rows(), headerScanRows), err)
	}

	var facts map[time.Time]*models.PeriodFacts
	switch {
	case len(hm.DateCols) > 0:
		facts, err = s.extractColumnAxis(g, hm)
	case hm.DateColumn > 0:
		facts, err = s.extractRowAxis(g, hm)
	case hm.ControlDate != nil:
		facts, err = s.extractControlDate(g, hm)
	default:
		return nil, ErrNoDateColumn
	}
	if err != nil {
		return nil, err
	}

	carryForwardBeginnings(facts)

	for _, f := range facts {
		if f.HasAny() {
			return facts, nil
		}
	}
	return nil, ErrNoNumericRows
}

// extractColumnAxis handles sheets whose header row carries one date per
// column. Each column is first classified by a nearby caption; columns
// without their own caption fall back to the stacked-block layout where
// every labeled metric block shares the same date columns.
func (s *Service) extractColumnAxis(g models.Grid, hm *HeaderMap) (map[time.Time]*models.PeriodFacts, error) {
	labelRows := make(map[Metric]int)
	for _, m := range AllMetrics {
		if r := FindLabelRow(g, m); r > 0 {
			labelRows[m] = r
		}
	}
	if labelRows[MetricEnding] == 0 {
		return nil, fmt.Errorf("no label row within first %d rows: %w", labelScanRows, ErrNoMetricColumn)
	}

	cols := make([]int, 0, len(hm.DateCols))
	for c := range hm.DateCols {
		cols = append(cols, c)
	}
	sort.Ints(cols)

	facts := make(map[time.Time]*models.PeriodFacts)
	for _, col := range cols {
		asOf := models.MonthEnd(hm.DateCols[col])
		rec := facts[asOf]
		if rec == nil {
			rec = &models.PeriodFacts{}
			facts[asOf] = rec
		}

		if metric, ok := ResolveMetricColumn(g, hm.HeaderRow, col); ok {
			s.sumBlock(g, labelRows, metric, col, rec)
			continue
		}
		// No caption above this column; treat it as a shared date axis
		// over the stacked metric blocks.
		for _, metric := range AllMetrics {
			s.sumBlock(g, labelRows, metric, col, rec)
		}
	}
	return facts, nil
}

func (s *Service) sumBlock(g models.Grid, labelRows map[Metric]int, metric Metric, col int, rec *models.PeriodFacts) {
	start, ok := labelRows[metric]
	if !ok {
		return
	}
	stop := nextLabelRowBelow(labelRows, start)
	if v, ok := SumInvestorRows(g, start, col, stop); ok {
		setFact(rec, metric, v)
	}
}

// rowAxisAliases map compact caption fragments to metrics for sheets
// where metrics are columns and dates are rows. Checked in AllMetrics
// order so "unrealized gain/loss" never lands on the realized column.
var rowAxisAliases = map[Metric][]string{
	MetricBeginning: {
		"currentperiodbegbalance", "currentperiodbeginningbalance",
		"beginningbalance", "openingbalance", "openingnav",
	},
	MetricEnding: {
		"ytdendingbalance", "endingbalance", "closingbalance", "currentvalue",
	},
	MetricUnrealized: {"unrealizedgainloss", "unrealisedgainloss", "unrealizedpnl"},
	MetricRealized:   {"realizedgainloss", "realisedgainloss", "realizedpnl"},
	MetricFees:       {"managementfees", "mgmtfees"},
}

// resolveRowAxisColumns maps header captions to metric columns. The last
// occurrence wins when a caption repeats, matching how amended sheets
// append corrected columns to the right.
func resolveRowAxisColumns(g models.Grid, headerRow int) map[Metric]int {
	out := make(map[Metric]int)
	cols := g.Cols()
	for c := 1; c <= cols; c++ {
		caption := compactLabel(cellText(g.Cell(headerRow, c)))
		if caption == "" {
			continue
		}
		for _, metric := range AllMetrics {
			matched := false
			for _, alias := range rowAxisAliases[metric] {
				if strings.Contains(caption, alias) {
					out[metric] = c
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
	}
	return out
}

// extractRowAxis handles sheets with a date column: every data row dates
// itself, and values group into months by summation.
func (s *Service) extractRowAxis(g models.Grid, hm *HeaderMap) (map[time.Time]*models.PeriodFacts, error) {
	metricCols := resolveRowAxisColumns(g, hm.HeaderRow)
	if _, ok := metricCols[MetricEnding]; !ok {
		return nil, fmt.Errorf("header row %d: %w", hm.HeaderRow, ErrNoMetricColumn)
	}

	sums := make(map[time.Time]map[Metric]*sumState)
	for r := hm.HeaderRow + 1; r <= g.Rows(); r++ {
		d, ok := saneCellDate(g.Cell(r, hm.DateColumn))
		if !ok {
			continue
		}
		if forbiddenRowNames[NormalizeLabel(cellText(g.Cell(r, nameColumn)))] {
			continue
		}
		asOf := models.MonthEnd(d)
		if sums[asOf] == nil {
			sums[asOf] = make(map[Metric]*sumState)
		}
		for metric, col := range metricCols {
			v, ok := ParseAmount(g.Cell(r, col))
			if !ok {
				continue
			}
			st := sums[asOf][metric]
			if st == nil {
				st = &sumState{}
				sums[asOf][metric] = st
			}
			st.add(v)
		}
	}

	facts := make(map[time.Time]*models.PeriodFacts, len(sums))
	for asOf, byMetric := range sums {
		rec := &models.PeriodFacts{}
		for metric, st := range byMetric {
			setFact(rec, metric, st.total)
		}
		facts[asOf] = rec
	}
	return facts, nil
}

// extractControlDate handles single-date sheets: metric captions head
// the columns and the one sane date found near the top stamps the whole
// data block.
func (s *Service) extractControlDate(g models.Grid, hm *HeaderMap) (map[time.Time]*models.PeriodFacts, error) {
	captionRow := findCaptionRow(g)
	if captionRow == 0 {
		return nil, fmt.Errorf("control date %s but no metric captions: %w",
			hm.ControlDate.Format("2006-01-02"), ErrNoMetricColumn)
	}
	metricCols := resolveRowAxisColumns(g, captionRow)
	if _, ok := metricCols[MetricEnding]; !ok {
		return nil, fmt.Errorf("caption row %d: %w", captionRow, ErrNoMetricColumn)
	}

	rec := &models.PeriodFacts{}
	for metric, col := range metricCols {
		if v, ok := SumInvestorRows(g, captionRow, col, 0); ok {
			setFact(rec, metric, v)
		}
	}
	asOf := models.MonthEnd(*hm.ControlDate)
	return map[time.Time]*models.PeriodFacts{asOf: rec}, nil
}

// findCaptionRow locates the first row carrying an ending-balance class
// caption, used as the column header row for single-date sheets.
func findCaptionRow(g models.Grid) int {
	rows := g.Rows()
	if rows > headerScanRows {
		rows = headerScanRows
	}
	cols := g.Cols()
	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			caption := compactLabel(cellText(g.Cell(r, c)))
			for _, alias := range rowAxisAliases[MetricEnding] {
				if caption != "" && strings.Contains(caption, alias) {
					return r
				}
			}
		}
	}
	return 0
}

// carryForwardBeginnings fills a missing beginning balance with the
// prior chronological month's ending balance: this period opens where
// the last one closed when the sheet omits the redundant column.
func carryForwardBeginnings(facts map[time.Time]*models.PeriodFacts) {
	dates := sortedDates(facts)
	for i, d := range dates {
		if facts[d].Beginning.Valid {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			prev := facts[dates[j]]
			if prev.Ending.Valid {
				facts[d].Beginning = prev.Ending
				break
			}
		}
	}
}

func sortedDates(facts map[time.Time]*models.PeriodFacts) []time.Time {
	out := make([]time.Time, 0, len(facts))
	for d := range facts {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func setFact(rec *models.PeriodFacts, metric Metric, v decimal.Decimal) {
	nd := decimal.NullDecimal{Decimal: v, Valid: true}
	switch metric {
	case MetricBeginning:
		rec.Beginning = nd
	case MetricEnding:
		rec.Ending = nd
	case MetricUnrealized:
		rec.Unrealized = nd
	case MetricRealized:
		rec.Realized = nd
	case MetricFees:
		rec.Fees = nd
	}
}

type sumState struct {
	total decimal.Decimal
}

func (s *sumState) add(v decimal.Decimal) {
	s.total = s.total.Add(v)
}
