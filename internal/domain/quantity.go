package domain

import (
	"math"
	"strconv"
	"strings"
)

// Unit suffixes the DAC embeds in collection-level string attributes,
// centralized so each attribute names its suffix exactly once.
const (
	UnitVolts      = "V"
	UnitCentimeter = "cm"
	UnitMeter      = "m"
	UnitKilogram   = "kg"
	UnitSquareM    = "m^2"
)

// ParseQuantity parses a unit-suffixed attribute string like "56 V" or
// "35.5 cm". The suffix is stripped before parsing; pass "" for unitless
// attributes. Returns NaN and false when the remainder is not a finite
// number.
func ParseQuantity(text, suffix string) (float64, bool) {
	s := strings.TrimSpace(text)
	if suffix != "" {
		s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return math.NaN(), false
	}
	return v, true
}

// QuantityOr parses like ParseQuantity but substitutes def on failure.
// Used for the integer-coded attributes whose documented fill value is -1.
func QuantityOr(text, suffix string, def float64) float64 {
	v, ok := ParseQuantity(text, suffix)
	if !ok {
		return def
	}
	return v
}

// CutStr truncates s to at most n bytes, the DAC's fixed-length text
// convention (20 chars for most attributes, 7 for the drogue type code).
func CutStr(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// ASCIIOnly drops non-ASCII bytes, applied to free-text comment fields
// before truncation.
func ASCIIOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 127 {
			return -1
		}
		return r
	}, s)
}
