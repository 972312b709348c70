package extractor

import (
	"regexp"
	"strings"
)

// Metric identifies one of the canonical financial line items the engine
// extracts from a balance sheet.
type Metric string

const (
	MetricBeginning  Metric = "beginning"
	MetricEnding     Metric = "ending"
	MetricUnrealized Metric = "unrealized"
	MetricRealized   Metric = "realized"
	MetricFees       Metric = "fees"
)

// AllMetrics is the classification order. Unrealized precedes realized so
// the anchored patterns stay unambiguous even for near-identical captions.
var AllMetrics = []Metric{MetricBeginning, MetricEnding, MetricUnrealized, MetricRealized, MetricFees}

// labelAliases maps each metric to the caption spellings seen across fund
// workbooks. Patterns are full-string matches against normalized text;
// the sets are mutually exclusive by construction.
var labelAliases = map[Metric][]string{
	MetricBeginning: {
		`^begin(ning)? balance$`,
		`^opening (nav|balance)$`,
		`^current period begin(ning)? balance$`,
		`^total begin(ning)? balance$`,
	},
	MetricEnding: {
		`^ending balance$`,
		`^closing balance$`,
		`^current value$`,
		`^total ending balance$`,
		`^total current value$`,
	},
	MetricUnrealized: {
		`^unrealis?ed gain/?\(?loss\)?$`,
		`^unrealized pnl$`,
		`^total unrealis?ed gain/?loss$`,
	},
	MetricRealized: {
		`^realis?ed gain/?\(?loss\)?$`,
		`^realized pnl$`,
		`^total realis?ed gain/?loss$`,
	},
	MetricFees: {
		`^management fees?$`,
		`^manag(e|ing) fees?$`,
		`^mgmt fees?$`,
		`^total management fees?$`,
	},
}

var compiledAliases = compileAliases()

func compileAliases() map[Metric][]*regexp.Regexp {
	out := make(map[Metric][]*regexp.Regexp, len(labelAliases))
	for metric, patterns := range labelAliases {
		for _, p := range patterns {
			out[metric] = append(out[metric], regexp.MustCompile(`(?i)`+p))
		}
	}
	return out
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// NormalizeLabel folds a raw caption to the form alias patterns match
// against: NBSP and non-breaking hyphens replaced, internal whitespace
// collapsed, trimmed, lowercased.
func NormalizeLabel(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, "‑", "-")
	s = whitespaceRE.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}

// ClassifyLabel matches a caption against the alias tables. The first
// metric in classification order whose alias set fully matches wins; no
// match returns false.
func ClassifyLabel(text string) (Metric, bool) {
	norm := NormalizeLabel(text)
	if norm == "" {
		return "", false
	}
	for _, metric := range AllMetrics {
		for _, re := range compiledAliases[metric] {
			if re.MatchString(norm) {
				return metric, true
			}
		}
	}
	return "", false
}

func cellText(cell any) string {
	if cell == nil {
		return ""
	}
	if s, ok := cell.(string); ok {
		return s
	}
	return ""
}
