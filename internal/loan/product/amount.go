// internal/loan/product/amount.go
package product

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Indian-numbering amount expressions: "5 lakh", "1.5 crore", "5,00,000".
var amountPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(crores?|cr|lakhs?|lacs?|l)?\b`)

// ParseAmount normalizes a monetary string to a plain number. Lakh multiplies
// by 100,000 and crore by 10,000,000; commas and currency markers are
// stripped first.
func ParseAmount(s string) (float64, error) {
	cleaned := strings.ToLower(strings.TrimSpace(s))
	cleaned = strings.NewReplacer(",", "", "₹", "", "rs.", "", "rs", "", "inr", "").Replace(cleaned)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}

	// Fast path: a bare number.
	if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return v, nil
	}

	m := amountPattern.FindStringSubmatch(cleaned)
	if m == nil {
		return 0, fmt.Errorf("unparsable amount: %q", s)
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("unparsable amount: %q", s)
	}

	switch {
	case strings.HasPrefix(m[2], "cr"):
		v *= 10000000
	case strings.HasPrefix(m[2], "lakh"), strings.HasPrefix(m[2], "lac"), m[2] == "l":
		v *= 100000
	}
	return v, nil
}

// CoerceNumeric converts a profile value to a number for feature building.
// Unparsable values coerce to 0: validation already rejected bad types, this
// is the defensive fallback, not the type-safety mechanism.
func CoerceNumeric(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		if parsed, err := ParseAmount(t); err == nil {
			return parsed
		}
		return 0
	default:
		return 0
	}
}
