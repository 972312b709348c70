package extractor

import (
	"testing"
	"time"
)

func TestParseCellDateStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
		ok       bool
	}{
		{"1/31/2024", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{"2024-01-31", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{"2024-01-31T00:00:00", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{"2024-01-31 15:30:00", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{"31-Jan-2024", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{"Jan-24", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"Feb-24", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), true},
		{"Jan 2024", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"  2024-06-30  ", time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), true},
		{"45322", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), true}, // serial as string
		{"", time.Time{}, false},
		{"Fund A", time.Time{}, false},
		{"1000", time.Time{}, false}, // below the serial floor
		{"Total", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseCellDate(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseCellDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && !got.Equal(tt.expected) {
				t.Errorf("ParseCellDate(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseCellDateNumeric(t *testing.T) {
	// 45322 is 2024-01-31 in the 1900 date system.
	got, ok := ParseCellDate(float64(45322))
	if !ok {
		t.Fatal("expected serial 45322 to parse")
	}
	want := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseCellDate(45322) = %v, want %v", got, want)
	}

	if _, ok := ParseCellDate(float64(1000)); ok {
		t.Error("serial below range should not parse as a date")
	}
	if _, ok := ParseCellDate(float64(95000)); ok {
		t.Error("serial above range should not parse as a date")
	}
}

func TestExcelSerialRoundTrip(t *testing.T) {
	for serial := minExcelSerial + 1; serial < maxExcelSerial; serial += 37 {
		d, ok := ParseCellDate(float64(serial))
		if !ok {
			t.Fatalf("serial %d did not parse", serial)
		}
		if got := ExcelSerial(d); got != serial {
			t.Fatalf("round trip failed: serial %d parsed to %v, back to %d", serial, d, got)
		}
	}
}

func TestIsSaneDate(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"recent", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), true},
		{"lower bound", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"before 2000", time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{"far future", time.Now().UTC().AddDate(1, 0, 0), false},
		{"near future", time.Now().UTC().AddDate(0, 0, 14), true},
		{"zero", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSaneDate(tt.date); got != tt.want {
				t.Errorf("IsSaneDate(%v) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}
