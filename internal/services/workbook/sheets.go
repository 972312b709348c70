package workbook

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/schollz/closestmatch"
)

// sheetNoiseRE strips whitespace (including NBSP) and the punctuation
// commonly decorating sheet names, so "bCAS (Q4 Adj)" and "bcas q4 adj"
// normalize identically.
var sheetNoiseRE = regexp.MustCompile(`[\s\x{00A0}\-_.()\[\]{}\\+]+`)

func normalizeSheetName(s string) string {
	return strings.ToLower(sheetNoiseRE.ReplaceAllString(s, ""))
}

// SheetNotFoundError reports a sheet lookup miss together with what is
// available and the closest candidates, so callers can present a usable
// error instead of a bare 404.
type SheetNotFoundError struct {
	Requested   string
	Available   []string
	Suggestions []string
}

func (e *SheetNotFoundError) Error() string {
	if len(e.Suggestions) > 0 {
		return fmt.Sprintf("sheet %q not found; closest: %s", e.Requested, strings.Join(e.Suggestions, ", "))
	}
	return fmt.Sprintf("sheet %q not found", e.Requested)
}

// ResolveSheet matches a requested sheet name against the available
// ones. Only an exact or normalized-equal name resolves; partial
// matches are deliberately suggestions, not silent picks, because two
// sheets often share a prefix ("bCAS (Q4)" vs "bCAS (Q4 Adj)") and a
// guess would report the wrong fund's numbers.
func ResolveSheet(available []string, requested string) (string, error) {
	for _, s := range available {
		if s == requested {
			return s, nil
		}
	}
	want := normalizeSheetName(requested)
	if want != "" {
		for _, s := range available {
			if normalizeSheetName(s) == want {
				return s, nil
			}
		}
	}
	return "", &SheetNotFoundError{
		Requested:   requested,
		Available:   available,
		Suggestions: suggestSheets(available, requested, 3),
	}
}

// suggestSheets ranks candidates: normalized containment first, then
// fuzzy matches to fill up to n.
func suggestSheets(available []string, requested string, n int) []string {
	want := normalizeSheetName(requested)
	var out []string
	seen := make(map[string]bool)
	if want != "" {
		for _, s := range available {
			norm := normalizeSheetName(s)
			if strings.Contains(norm, want) || strings.Contains(want, norm) {
				out = append(out, s)
				seen[s] = true
			}
		}
	}
	if len(out) >= n || len(available) == 0 {
		return clampSuggestions(out, n)
	}
	cm := closestmatch.New(available, []int{2, 3, 4})
	for _, s := range cm.ClosestN(requested, n) {
		if s == "" || seen[s] {
			continue
		}
		out = append(out, s)
		seen[s] = true
	}
	return clampSuggestions(out, n)
}

func clampSuggestions(out []string, n int) []string {
	if len(out) > n {
		return out[:n]
	}
	return out
}
