package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal parses a statement numeric field, accepting European
// decimal-comma notation. Unparsable input wraps ErrParse.
func ParseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(normalizeDecimal(strings.TrimSpace(s)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid number %q", ErrParse, s)
	}
	return d, nil
}

// normalizeDecimal converts European decimal format to standard format.
// "0,8" → "0.8", "1.234,56" → "1234.56", "1.5" → "1.5"
func normalizeDecimal(s string) string {
	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	if hasComma && hasDot {
		// European: dot is thousands, comma is decimal
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else if hasComma {
		// Comma-only: treat as decimal separator
		s = strings.Replace(s, ",", ".", 1)
	}

	return s
}
