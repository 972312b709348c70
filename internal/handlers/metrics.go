package handlers

import (
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/findosh/fundsight/internal/models"
	"github.com/findosh/fundsight/internal/services/analytics"
	"github.com/findosh/fundsight/internal/services/workbook"
)

// APIOverview returns the performance overview for a sheet. When the
// workbook file is present the sheet is re-extracted (with cache and
// persistence on the way); otherwise the stored periods serve the
// request so overviews survive the file being moved away.
func (h *Handler) APIOverview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sheet := q.Get("sheet")
	if sheet == "" {
		sheet = h.cfg.DefaultSheet
	}
	req := analytics.Request{
		Sheet:     sheet,
		Basis:     models.ParseBasis(q.Get("basis")),
		PeriodEnd: q.Get("period_end"),
		Year:      q.Get("year"),
	}

	path, err := workbook.Find(h.cfg.WorkbookDir, q.Get("file"))
	if err == nil {
		result, err := h.overviewFromWorkbook(path, req)
		if err == nil {
			h.writeJSON(w, http.StatusOK, result)
			return
		}
		var snf *workbook.SheetNotFoundError
		if errors.As(err, &snf) {
			h.writeJSON(w, http.StatusNotFound, map[string]any{
				"error":       snf.Error(),
				"requested":   snf.Requested,
				"available":   snf.Available,
				"suggestions": snf.Suggestions,
			})
			return
		}
		if errors.Is(err, analytics.ErrInvalidPeriodSpec) {
			h.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("workbook overview failed for %s: %v", path, err)
	}

	// No readable workbook; serve from stored periods.
	result, err := h.overviewFromStore(req)
	if err != nil {
		if errors.Is(err, analytics.ErrInvalidPeriodSpec) {
			h.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) overviewFromWorkbook(path string, req analytics.Request) (*models.OverviewResult, error) {
	modToken, err := workbook.ModToken(path)
	if err != nil {
		return nil, err
	}
	// Cache under the name as requested, so repeat callers hit
	// regardless of how the sheet resolves.
	requested := req.Sheet
	if cached, ok := h.cache.Get(path, requested, req, modToken); ok {
		return cached, nil
	}

	facts, resolvedSheet, err := h.extractSheet(path, req.Sheet)
	if err != nil {
		return nil, err
	}
	// Overview reads must survive a read-only database.
	if err := h.persistPeriods(path, resolvedSheet, facts, modToken); err != nil {
		log.Printf("persist periods for %s: %v", resolvedSheet, err)
	}

	req.Sheet = resolvedSheet
	req.Source = "workbook"
	result, err := h.analytics.ComputeOverview(facts, req)
	if err != nil {
		return nil, err
	}
	h.cache.Put(path, requested, req, modToken, result)
	return result, nil
}

func (h *Handler) overviewFromStore(req analytics.Request) (*models.OverviewResult, error) {
	records, err := h.periodRepo.GetBySheet(req.Sheet)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, analytics.ErrNoPeriods
	}
	facts := make(map[time.Time]*models.PeriodFacts, len(records))
	for _, rec := range records {
		facts[rec.AsOfDate] = rec.Facts()
	}
	req.Source = "database"
	return h.analytics.ComputeOverview(facts, req)
}

// extractSheet opens the workbook, resolves the sheet and runs the
// extraction pipeline over it.
func (h *Handler) extractSheet(path, sheet string) (map[time.Time]*models.PeriodFacts, string, error) {
	f, err := workbook.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	grid, resolved, err := f.Grid(sheet)
	if err != nil {
		return nil, "", err
	}
	facts, err := h.extractor.ExtractPeriods(grid)
	if err != nil {
		return nil, "", err
	}
	return facts, resolved, nil
}

// persistPeriods stores extracted periods and registers the workbook.
// The period write failing is the caller's problem; a failed registry
// upsert is only logged since the periods themselves made it in.
func (h *Handler) persistPeriods(path, sheet string, facts map[time.Time]*models.PeriodFacts, modToken int64) error {
	records := make([]*models.PeriodRecord, 0, len(facts))
	for asOf, f := range facts {
		records = append(records, models.NewPeriodRecord(sheet, asOf, f, filepath.Base(path)))
	}
	sort.Slice(records, func(i, j int) bool { return records[i].AsOfDate.Before(records[j].AsOfDate) })

	if err := h.periodRepo.UpsertBatch(records); err != nil {
		return err
	}
	book := &models.Workbook{
		ID:      uuid.New(),
		Path:    path,
		Label:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		ModTime: time.Unix(0, modToken).UTC(),
	}
	if err := h.workbookRepo.Upsert(book); err != nil {
		log.Printf("register workbook %s: %v", path, err)
	}
	return nil
}

// APIIngest re-extracts a sheet and upserts its periods, returning the
// as-of dates written. Running it twice writes the same rows.
func (h *Handler) APIIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	sheet := q.Get("sheet")
	if sheet == "" {
		sheet = h.cfg.DefaultSheet
	}

	path, err := workbook.Find(h.cfg.WorkbookDir, q.Get("file"))
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	modToken, err := workbook.ModToken(path)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	facts, resolvedSheet, err := h.extractSheet(path, sheet)
	if err != nil {
		var snf *workbook.SheetNotFoundError
		if errors.As(err, &snf) {
			h.writeJSON(w, http.StatusNotFound, map[string]any{
				"error":       snf.Error(),
				"requested":   snf.Requested,
				"available":   snf.Available,
				"suggestions": snf.Suggestions,
			})
			return
		}
		h.jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if err := h.persistPeriods(path, resolvedSheet, facts, modToken); err != nil {
		h.jsonError(w, "store periods: "+err.Error(), http.StatusInternalServerError)
		return
	}

	dates := make([]string, 0, len(facts))
	for asOf := range facts {
		dates = append(dates, asOf.Format("2006-01-02"))
	}
	sort.Strings(dates)

	h.writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"sheet":    resolvedSheet,
		"file":     filepath.Base(path),
		"upserted": dates,
		"count":    len(dates),
	})
}

// APIPeriods returns the stored periods for a sheet, optionally bounded
// by from/to dates.
func (h *Handler) APIPeriods(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sheet := q.Get("sheet")
	if sheet == "" {
		sheet = h.cfg.DefaultSheet
	}

	var from, to time.Time
	var err error
	if v := q.Get("from"); v != "" {
		from, err = time.Parse("2006-01-02", v)
		if err != nil {
			h.jsonError(w, "invalid from date: "+v, http.StatusBadRequest)
			return
		}
	}
	if v := q.Get("to"); v != "" {
		to, err = time.Parse("2006-01-02", v)
		if err != nil {
			h.jsonError(w, "invalid to date: "+v, http.StatusBadRequest)
			return
		}
	}

	records, err := h.periodRepo.GetRange(sheet, from, to)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*models.PeriodRecord{}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"sheet":   sheet,
		"periods": records,
		"count":   len(records),
	})
}

// APIFiles lists the workbooks in the configured directory together
// with their sheet names.
func (h *Handler) APIFiles(w http.ResponseWriter, r *http.Request) {
	paths, err := workbook.Discover(h.cfg.WorkbookDir)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type fileInfo struct {
		Name   string   `json:"name"`
		Path   string   `json:"path"`
		Sheets []string `json:"sheets"`
	}
	files := make([]fileInfo, 0, len(paths))
	for _, p := range paths {
		info := fileInfo{Name: filepath.Base(p), Path: p}
		if f, err := workbook.Open(p); err == nil {
			info.Sheets = f.Sheets()
			f.Close()
		} else {
			log.Printf("list sheets for %s: %v", p, err)
		}
		files = append(files, info)
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"files": files,
		"count": len(files),
	})
}
