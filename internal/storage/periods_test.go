package storage

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/findosh/fundsight/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testRecord(sheet string, asOf time.Time, ending int64) *models.PeriodRecord {
	facts := &models.PeriodFacts{
		Ending: decimal.NullDecimal{Decimal: decimal.NewFromInt(ending), Valid: true},
	}
	return models.NewPeriodRecord(sheet, asOf, facts, "test.xlsx")
}

func TestPeriodUpsertAndGet(t *testing.T) {
	repo := NewPeriodRepository(testDB(t))
	asOf := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	if err := repo.Upsert(testRecord("Master", asOf, 1000)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := repo.GetByAsOf("Master", asOf)
	if err != nil {
		t.Fatalf("GetByAsOf: %v", err)
	}
	if got == nil {
		t.Fatal("record not found")
	}
	if !got.AsOfDate.Equal(asOf) {
		t.Errorf("AsOfDate = %v, want %v", got.AsOfDate, asOf)
	}
	if !got.EndingBalance.Valid || got.EndingBalance.Decimal.String() != "1000" {
		t.Errorf("EndingBalance = %+v, want 1000", got.EndingBalance)
	}
	if got.BeginningBalance.Valid {
		t.Errorf("BeginningBalance = %+v, want null", got.BeginningBalance)
	}
	if got.Source != "test.xlsx" {
		t.Errorf("Source = %q, want test.xlsx", got.Source)
	}
}

func TestPeriodUpsertIdempotent(t *testing.T) {
	repo := NewPeriodRepository(testDB(t))
	asOf := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	if err := repo.Upsert(testRecord("Master", asOf, 1000)); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	first, err := repo.GetByAsOf("Master", asOf)
	if err != nil {
		t.Fatalf("GetByAsOf: %v", err)
	}

	if err := repo.Upsert(testRecord("Master", asOf, 1000)); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	records, err := repo.GetBySheet("Master")
	if err != nil {
		t.Fatalf("GetBySheet: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want a single row after re-upsert", len(records))
	}
	if records[0].EndingBalance.Decimal.String() != "1000" {
		t.Errorf("EndingBalance = %s, want 1000", records[0].EndingBalance.Decimal)
	}
	if !records[0].CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed on re-upsert: %v -> %v", first.CreatedAt, records[0].CreatedAt)
	}
}

func TestPeriodUpsertOverwritesValues(t *testing.T) {
	repo := NewPeriodRepository(testDB(t))
	asOf := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	if err := repo.Upsert(testRecord("Master", asOf, 1000)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(testRecord("Master", asOf, 1250)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := repo.GetByAsOf("Master", asOf)
	if err != nil {
		t.Fatalf("GetByAsOf: %v", err)
	}
	if got.EndingBalance.Decimal.String() != "1250" {
		t.Errorf("EndingBalance = %s, want the rewritten 1250", got.EndingBalance.Decimal)
	}
}

func TestPeriodGetRange(t *testing.T) {
	repo := NewPeriodRepository(testDB(t))
	months := []time.Time{
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	var records []*models.PeriodRecord
	for i, m := range months {
		records = append(records, testRecord("Master", m, int64(1000+i*100)))
	}
	if err := repo.UpsertBatch(records); err != nil {
		t.Fatalf("UpsertBatch: %v", err)
	}

	got, err := repo.GetRange("Master", months[1], time.Time{})
	if err != nil {
		t.Fatalf("GetRange: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 from February onward", len(got))
	}
	if !got[0].AsOfDate.Equal(months[1]) {
		t.Errorf("first = %v, want %v", got[0].AsOfDate, months[1])
	}

	got, err = repo.GetRange("Master", time.Time{}, months[0])
	if err != nil {
		t.Fatalf("GetRange: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 up to January", len(got))
	}
}

func TestPeriodSheetsAreIndependent(t *testing.T) {
	repo := NewPeriodRepository(testDB(t))
	asOf := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	if err := repo.Upsert(testRecord("Master", asOf, 1000)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(testRecord("bCAS (Q4 Adj)", asOf, 2000)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	sheets, err := repo.Sheets()
	if err != nil {
		t.Fatalf("Sheets: %v", err)
	}
	if len(sheets) != 2 {
		t.Fatalf("sheets = %v, want 2 entries", sheets)
	}

	records, err := repo.GetBySheet("Master")
	if err != nil {
		t.Fatalf("GetBySheet: %v", err)
	}
	if len(records) != 1 || records[0].EndingBalance.Decimal.String() != "1000" {
		t.Errorf("Master records = %+v", records)
	}
}
