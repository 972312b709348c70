package extractor

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount reads a cell as a financial number. Thousands separators
// and currency symbols are stripped, accountant-style parentheses mean
// negative, and dash placeholders are "no value" rather than zero. The
// bool result distinguishes a legitimate zero from an absent value.
func ParseAmount(cell any) (decimal.Decimal, bool) {
	switch v := cell.(type) {
	case nil:
		return decimal.Zero, false
	case float64:
		return decimal.NewFromFloat(v), true
	case float32:
		return decimal.NewFromFloat32(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case string:
		return parseAmountString(v)
	default:
		return decimal.Zero, false
	}
}

func parseAmountString(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "—", "-", "–":
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
