// Package workbook loads spreadsheet files and resolves their sheets.
// File contents are read through excelize with raw cell values so the
// extraction heuristics see what was typed, not what a display format
// rendered.
package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/findosh/fundsight/internal/models"
)

// File wraps an open workbook.
type File struct {
	path string
	xl   *excelize.File
}

// Open opens the workbook at path.
func Open(path string) (*File, error) {
	xl, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &File{path: path, xl: xl}, nil
}

// Close releases the underlying file.
func (f *File) Close() error {
	return f.xl.Close()
}

// Path returns the path the workbook was opened from.
func (f *File) Path() string {
	return f.path
}

// Sheets lists the sheet names in workbook order.
func (f *File) Sheets() []string {
	return f.xl.GetSheetList()
}

// Grid reads a sheet into a grid of raw cell values. The sheet name is
// resolved against the available sheets first, so a near-match request
// surfaces suggestions instead of excelize's bare not-found error.
func (f *File) Grid(sheet string) (models.Grid, string, error) {
	resolved, err := ResolveSheet(f.Sheets(), sheet)
	if err != nil {
		return nil, "", err
	}
	rows, err := f.xl.GetRows(resolved, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, "", fmt.Errorf("read sheet %s: %w", resolved, err)
	}
	g := make(models.Grid, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		g[i] = cells
	}
	return g, resolved, nil
}

var workbookExts = map[string]bool{".xlsx": true, ".xlsm": true}

// Discover lists the workbook files directly under dir, sorted by name.
// Office lock files ("~$...") are skipped.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read workbook dir %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if workbookExts[strings.ToLower(filepath.Ext(name))] {
			out = append(out, filepath.Join(dir, name))
		}
	}
	sort.Strings(out)
	return out, nil
}

// Find locates a workbook under dir by name, matching the base name
// with or without extension, case-insensitively. An empty name selects
// the sole workbook if exactly one exists.
func Find(dir, name string) (string, error) {
	paths, err := Discover(dir)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("no workbooks under %s", dir)
	}
	if name == "" {
		return paths[0], nil
	}
	want := strings.ToLower(name)
	wantBare := strings.TrimSuffix(want, filepath.Ext(want))
	for _, p := range paths {
		base := strings.ToLower(filepath.Base(p))
		bare := strings.TrimSuffix(base, filepath.Ext(base))
		if base == want || bare == want || bare == wantBare {
			return p, nil
		}
	}
	return "", fmt.Errorf("workbook %q not found under %s", name, dir)
}

// ModToken returns the file's modification time in unix nanoseconds,
// used to invalidate cached results when the file changes on disk.
func ModToken(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat workbook %s: %w", path, err)
	}
	return info.ModTime().UnixNano(), nil
}
