package greenops

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericPrefix matches the leading decimal number of a quantity string.
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseQuantity parses a user-entered quantity leniently.
//
// A leading numeric prefix is honoured ("12km" is 12). Empty, non-numeric,
// negative, NaN and infinite inputs all parse as 0; quantities are never
// rejected.
func ParseQuantity(s string) float64 {
	s = strings.TrimSpace(s)
	m := numericPrefix.FindString(s)
	if m == "" {
		return 0
	}
	q, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return SanitizeQuantity(q)
}

// SanitizeQuantity maps negative, NaN and infinite quantities to 0.
func SanitizeQuantity(q float64) float64 {
	if math.IsNaN(q) || math.IsInf(q, 0) || q < 0 {
		return 0
	}
	return q
}

// Emissions returns kg CO2e for quantity units of the pair.
// Unknown pairs yield 0.
func Emissions(category, subcategory string, quantity float64) float64 {
	return Factor(category, subcategory) * SanitizeQuantity(quantity)
}
