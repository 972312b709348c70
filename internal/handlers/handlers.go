// Package handlers provides HTTP request handlers
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/findosh/fundsight/internal/config"
	"github.com/findosh/fundsight/internal/services/analytics"
	"github.com/findosh/fundsight/internal/services/extractor"
	"github.com/findosh/fundsight/internal/storage"
)

// Handler contains all HTTP handlers and dependencies
type Handler struct {
	cfg          *config.Config
	extractor    *extractor.Service
	analytics    *analytics.Service
	cache        *analytics.OverviewCache
	periodRepo   *storage.PeriodRepository
	workbookRepo *storage.WorkbookRepository
}

// New creates a new handler with all dependencies
func New(
	cfg *config.Config,
	extractorService *extractor.Service,
	analyticsService *analytics.Service,
	cache *analytics.OverviewCache,
	periodRepo *storage.PeriodRepository,
	workbookRepo *storage.WorkbookRepository,
) *Handler {
	return &Handler{
		cfg:          cfg,
		extractor:    extractorService,
		analytics:    analyticsService,
		cache:        cache,
		periodRepo:   periodRepo,
		workbookRepo: workbookRepo,
	}
}

// writeJSON writes a JSON response with the given status
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// jsonError writes a JSON error response
func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
