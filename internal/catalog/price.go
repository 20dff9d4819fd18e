package catalog

import (
	"math"
	"strconv"
	"strings"
)

// ParsePrice converts a free-form display price ("₹1,234.50", "1200", "Rs. 999/-") into a number.
// Every rune other than an ASCII digit or '.' is dropped before parsing. Anything that does not
// parse to a finite number yields 0, so callers can compare without checking errors.
func ParsePrice(value string) float64 {
	if value == "" {
		return 0
	}

	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, value)
	if cleaned == "" {
		return 0
	}

	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0
	}
	return n
}

// ParsePriceOf is ParsePrice for optional values; nil yields 0
func ParsePriceOf(value *string) float64 {
	if value == nil {
		return 0
	}
	return ParsePrice(*value)
}
