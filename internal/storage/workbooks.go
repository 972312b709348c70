package storage

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/findosh/fundsight/internal/models"
)

// WorkbookRepository provides workbook registry data access
type WorkbookRepository struct {
	db *DB
}

// NewWorkbookRepository creates a new workbook repository
func NewWorkbookRepository(db *DB) *WorkbookRepository {
	return &WorkbookRepository{db: db}
}

// Upsert registers a workbook by path, refreshing its label and mod
// time if already known.
func (r *WorkbookRepository) Upsert(w *models.Workbook) error {
	query := `
		INSERT INTO workbooks (id, path, label, mod_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET
			label = excluded.label,
			mod_time = excluded.mod_time,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.db.Exec(query,
		w.ID.String(),
		w.Path,
		w.Label,
		w.ModTime,
	)
	return err
}

// GetByPath retrieves a workbook registration by path.
func (r *WorkbookRepository) GetByPath(path string) (*models.Workbook, error) {
	query := `
		SELECT id, path, label, mod_time, created_at, updated_at
		FROM workbooks WHERE path = ?
	`
	var w models.Workbook
	var id string

	err := r.db.QueryRow(query, path).Scan(&id, &w.Path, &w.Label, &w.ModTime, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan workbook: %w", err)
	}

	w.ID, _ = uuid.Parse(id)
	return &w, nil
}

// List retrieves all registered workbooks ordered by label.
func (r *WorkbookRepository) List() ([]*models.Workbook, error) {
	query := `
		SELECT id, path, label, mod_time, created_at, updated_at
		FROM workbooks ORDER BY label ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*models.Workbook
	for rows.Next() {
		var w models.Workbook
		var id string
		if err := rows.Scan(&id, &w.Path, &w.Label, &w.ModTime, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		w.ID, _ = uuid.Parse(id)
		books = append(books, &w)
	}

	return books, rows.Err()
}
