package scoring

import "math"

// Composite score constants
const (
	AASScale      = 12.0
	HitZWeight    = 0.55
	ReturnZWeight = 0.45
)

// BaseCalc blends the two Z-scores
func BaseCalc(zHit, zRet float64) float64 {
	return HitZWeight*zHit + ReturnZWeight*zRet
}

// FactorScore is the bounded per-factor composite score before venue weighting:
// 12 * tanh(baseCalc) * shrinkage, clamped to [-12, 12].
func FactorScore(zHit, zRet, shrinkage float64) float64 {
	return clamp(AASScale*math.Tanh(BaseCalc(zHit, zRet))*shrinkage, AASScale)
}

// clamp bounds v to [-limit, limit]; NaN collapses to 0
func clamp(v, limit float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > limit:
		return limit
	case v < -limit:
		return -limit
	default:
		return v
	}
}

// Round rounds a score to the given number of decimals for display
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
