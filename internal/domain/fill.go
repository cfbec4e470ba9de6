package domain

import "math"

// FillValue is the out-of-band sentinel the DAC writes into observation
// arrays (including epoch-second times) to mark missing data.
const FillValue = -1e34

// Tolerances matching numpy.isclose, which upstream tooling uses to detect
// the sentinel after float32 round-trips.
const (
	fillRelTol = 1e-5
	fillAbsTol = 1e-8
)

// IsMissing reports whether v is the missing-data sentinel or non-finite.
func IsMissing(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return true
	}
	return math.Abs(v-FillValue) <= fillAbsTol+fillRelTol*math.Abs(FillValue)
}

// DecodeValues replaces sentinel and non-finite entries with NaN, in place,
// and returns the slice for convenience.
func DecodeValues(vs []float64) []float64 {
	for i, v := range vs {
		if IsMissing(v) {
			vs[i] = math.NaN()
		}
	}
	return vs
}

// DecodeValue replaces a sentinel or non-finite scalar with NaN.
func DecodeValue(v float64) float64 {
	if IsMissing(v) {
		return math.NaN()
	}
	return v
}
