package scoring

import "math"

// DefaultHalfConfidence is the sample size at which shrinkage reaches 1/sqrt(2)
const DefaultHalfConfidence = 400.0

// Shrinkage dampens a standardized metric by its historical sample size:
// sqrt(n / (n + halfConfidence)). The result is in [0, 1].
func Shrinkage(nMin int, halfConfidence float64) float64 {
	if nMin <= 0 {
		return 0
	}
	if halfConfidence <= 0 {
		halfConfidence = DefaultHalfConfidence
	}
	n := float64(nMin)
	return math.Sqrt(n / (n + halfConfidence))
}
