package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/findosh/fundsight/internal/models"
)

const asOfLayout = "2006-01-02"

// PeriodRepository provides period metric data access
type PeriodRepository struct {
	db *DB
}

// NewPeriodRepository creates a new period metric repository
func NewPeriodRepository(db *DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

// Upsert writes a period record, replacing the metric values of an
// existing (sheet, as_of_date) row. created_at survives the conflict so
// re-ingesting a workbook never looks like a new period.
func (r *PeriodRepository) Upsert(p *models.PeriodRecord) error {
	query := `
		INSERT INTO period_metrics (
			id, sheet, as_of_date, beginning_balance, ending_balance,
			unrealized_gain_loss, realized_gain_loss, management_fees,
			source, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(sheet, as_of_date) DO UPDATE SET
			beginning_balance = excluded.beginning_balance,
			ending_balance = excluded.ending_balance,
			unrealized_gain_loss = excluded.unrealized_gain_loss,
			realized_gain_loss = excluded.realized_gain_loss,
			management_fees = excluded.management_fees,
			source = excluded.source,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.db.Exec(query,
		p.ID.String(),
		p.Sheet,
		p.AsOfDate.Format(asOfLayout),
		nullDecimalString(p.BeginningBalance),
		nullDecimalString(p.EndingBalance),
		nullDecimalString(p.UnrealizedGainLoss),
		nullDecimalString(p.RealizedGainLoss),
		nullDecimalString(p.ManagementFees),
		p.Source,
	)
	return err
}

// UpsertBatch writes multiple period records in one transaction.
func (r *PeriodRepository) UpsertBatch(records []*models.PeriodRecord) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO period_metrics (
			id, sheet, as_of_date, beginning_balance, ending_balance,
			unrealized_gain_loss, realized_gain_loss, management_fees,
			source, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(sheet, as_of_date) DO UPDATE SET
			beginning_balance = excluded.beginning_balance,
			ending_balance = excluded.ending_balance,
			unrealized_gain_loss = excluded.unrealized_gain_loss,
			realized_gain_loss = excluded.realized_gain_loss,
			management_fees = excluded.management_fees,
			source = excluded.source,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range records {
		_, err := stmt.Exec(
			p.ID.String(),
			p.Sheet,
			p.AsOfDate.Format(asOfLayout),
			nullDecimalString(p.BeginningBalance),
			nullDecimalString(p.EndingBalance),
			nullDecimalString(p.UnrealizedGainLoss),
			nullDecimalString(p.RealizedGainLoss),
			nullDecimalString(p.ManagementFees),
			p.Source,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetBySheet retrieves all periods for a sheet in chronological order.
func (r *PeriodRepository) GetBySheet(sheet string) ([]*models.PeriodRecord, error) {
	query := `
		SELECT id, sheet, as_of_date, beginning_balance, ending_balance,
			unrealized_gain_loss, realized_gain_loss, management_fees,
			source, created_at, updated_at
		FROM period_metrics WHERE sheet = ? ORDER BY as_of_date ASC
	`
	rows, err := r.db.Query(query, sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.PeriodRecord
	for rows.Next() {
		p, err := scanPeriodRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, p)
	}

	return records, rows.Err()
}

// GetRange retrieves the periods for a sheet whose as-of date falls in
// [from, to]. A zero bound is open on that side.
func (r *PeriodRepository) GetRange(sheet string, from, to time.Time) ([]*models.PeriodRecord, error) {
	query := `
		SELECT id, sheet, as_of_date, beginning_balance, ending_balance,
			unrealized_gain_loss, realized_gain_loss, management_fees,
			source, created_at, updated_at
		FROM period_metrics WHERE sheet = ?
	`
	args := []any{sheet}
	if !from.IsZero() {
		query += " AND as_of_date >= ?"
		args = append(args, from.Format(asOfLayout))
	}
	if !to.IsZero() {
		query += " AND as_of_date <= ?"
		args = append(args, to.Format(asOfLayout))
	}
	query += " ORDER BY as_of_date ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.PeriodRecord
	for rows.Next() {
		p, err := scanPeriodRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, p)
	}

	return records, rows.Err()
}

// GetByAsOf retrieves one period by sheet and as-of date.
func (r *PeriodRepository) GetByAsOf(sheet string, asOf time.Time) (*models.PeriodRecord, error) {
	query := `
		SELECT id, sheet, as_of_date, beginning_balance, ending_balance,
			unrealized_gain_loss, realized_gain_loss, management_fees,
			source, created_at, updated_at
		FROM period_metrics WHERE sheet = ? AND as_of_date = ?
	`
	rows, err := r.db.Query(query, sheet, asOf.Format(asOfLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanPeriodRow(rows)
}

// Sheets lists the distinct sheets with stored periods.
func (r *PeriodRepository) Sheets() ([]string, error) {
	rows, err := r.db.Query("SELECT DISTINCT sheet FROM period_metrics ORDER BY sheet ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sheets []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		sheets = append(sheets, s)
	}
	return sheets, rows.Err()
}

func scanPeriodRow(rows *sql.Rows) (*models.PeriodRecord, error) {
	var p models.PeriodRecord
	var id, asOf string
	var beginning, ending, unrealized, realized, fees, source sql.NullString

	err := rows.Scan(
		&id, &p.Sheet, &asOf, &beginning, &ending,
		&unrealized, &realized, &fees, &source,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan period: %w", err)
	}

	p.ID, _ = uuid.Parse(id)
	p.AsOfDate, err = time.ParseInLocation(asOfLayout, asOf, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("bad as_of_date %q: %w", asOf, err)
	}
	p.BeginningBalance = scanNullDecimal(beginning)
	p.EndingBalance = scanNullDecimal(ending)
	p.UnrealizedGainLoss = scanNullDecimal(unrealized)
	p.RealizedGainLoss = scanNullDecimal(realized)
	p.ManagementFees = scanNullDecimal(fees)
	if source.Valid {
		p.Source = source.String
	}

	return &p, nil
}

func nullDecimalString(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

func scanNullDecimal(s sql.NullString) decimal.NullDecimal {
	if !s.Valid {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
