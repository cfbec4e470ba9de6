package domain

import "math"

// DrogueStatus derives the per-observation drogue flag from the drogue-loss
// time and the observation times, both in epoch seconds.
//
// The flag is all-true when the loss time is missing or not before the last
// observation; otherwise it is true for every observation strictly before the
// loss time and false from the loss time onward.
//
// Precondition: times must be ascending. The DAC writes trajectories in time
// order and this function does not re-sort.
func DrogueStatus(lost float64, times []float64) []bool {
	status := make([]bool, len(times))
	if len(times) == 0 {
		return status
	}

	if math.IsNaN(lost) || lost >= times[len(times)-1] {
		for i := range status {
			status[i] = true
		}
		return status
	}

	for i, t := range times {
		status[i] = t < lost
	}
	return status
}
