package metrics

import (
	"math"
	"time"
)

// Percentile returns the p-th percentile (0..100) of an ascending sample set
// using linear interpolation between closest ranks: rank = p/100 * (n-1).
// The boolean is false for an empty set.
func Percentile(sorted []time.Duration, p float64) (time.Duration, bool) {
	n := len(sorted)
	if n == 0 {
		return 0, false
	}
	if p <= 0 {
		return sorted[0], true
	}
	if p >= 100 {
		return sorted[n-1], true
	}

	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo], true
	}
	frac := rank - float64(lo)
	v := float64(sorted[lo]) + (float64(sorted[hi])-float64(sorted[lo]))*frac
	return time.Duration(math.Round(v)), true
}
