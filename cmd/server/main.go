// FundSight - Workbook Metrics Extraction Service
// Entry point for the web server
package main

import (
	"log"
	"net/http"

	"github.com/findosh/fundsight/internal/config"
	"github.com/findosh/fundsight/internal/handlers"
	"github.com/findosh/fundsight/internal/middleware"
	"github.com/findosh/fundsight/internal/services/analytics"
	"github.com/findosh/fundsight/internal/services/extractor"
	"github.com/findosh/fundsight/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := storage.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	periodRepo := storage.NewPeriodRepository(db)
	workbookRepo := storage.NewWorkbookRepository(db)

	// Initialize services
	extractorService := extractor.NewService()
	analyticsService := analytics.NewService()
	cache := analytics.NewOverviewCache(cfg.CacheTTL)

	// Initialize handlers
	h := handlers.New(
		cfg,
		extractorService,
		analyticsService,
		cache,
		periodRepo,
		workbookRepo,
	)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("/api/metrics/overview", h.APIOverview)
	mux.HandleFunc("/api/metrics/periods", h.APIPeriods)
	mux.HandleFunc("/api/metrics/files", h.APIFiles)
	if cfg.EnableIngest {
		mux.HandleFunc("/api/metrics/ingest", h.APIIngest)
	}

	// Apply global middleware
	handler := middleware.Chain(
		mux,
		middleware.Recover,
		middleware.SecurityHeaders,
		middleware.Logger,
	)

	// Start server
	addr := ":" + cfg.Port
	log.Printf("FundSight server starting on http://localhost%s", addr)
	log.Printf("Environment: %s", cfg.Environment)
	log.Printf("Workbook dir: %s", cfg.WorkbookDir)

	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
