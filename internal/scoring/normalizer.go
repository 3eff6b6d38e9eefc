package scoring

import (
	"math"

	"github.com/yourusername/race-scorer/internal/factor"
)

// MinFieldSample is the number of runners a factor needs in a race before it
// can be standardized.
const MinFieldSample = 2

// stdEpsilon treats a spread this small as no spread at all, so identical
// inputs standardize to exactly zero despite rounding in the mean.
const stdEpsilon = 1e-9

// FieldEntry is one runner's contribution to a race field sample.
// RunnerIndex is the runner's position in the slice passed to ScoreRace.
type FieldEntry struct {
	RunnerIndex int
	Value       factor.Value
	Metrics     RawMetrics
	HasHistory  bool
}

// RaceFieldSample holds the raw metrics of every runner with a valid value
// for one factor in one race, with the population moments used to
// standardize them. It is immutable once built.
type RaceFieldSample struct {
	FactorID string
	Label    string
	entries  []FieldEntry
	hitMean  float64
	hitStd   float64
	retMean  float64
	retStd   float64
}

// NewRaceFieldSample copies the entries and computes their population moments
func NewRaceFieldSample(factorID, label string, entries []FieldEntry) RaceFieldSample {
	copied := make([]FieldEntry, len(entries))
	copy(copied, entries)

	hits := make([]float64, len(copied))
	rets := make([]float64, len(copied))
	for i, e := range copied {
		hits[i] = e.Metrics.HitRaw
		rets[i] = e.Metrics.RetRaw
	}

	s := RaceFieldSample{FactorID: factorID, Label: label, entries: copied}
	s.hitMean, s.hitStd = populationMoments(hits)
	s.retMean, s.retStd = populationMoments(rets)
	return s
}

// Len returns the number of runners in the sample
func (s RaceFieldSample) Len() int {
	return len(s.entries)
}

// Standardizable reports whether the sample is large enough to standardize
func (s RaceFieldSample) Standardizable() bool {
	return len(s.entries) >= MinFieldSample
}

// Entries returns a copy of the sample entries
func (s RaceFieldSample) Entries() []FieldEntry {
	out := make([]FieldEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Moments returns the population mean and standard deviation of Hit_raw and Ret_raw
func (s RaceFieldSample) Moments() (hitMean, hitStd, retMean, retStd float64) {
	return s.hitMean, s.hitStd, s.retMean, s.retStd
}

// ZScores standardizes raw metrics against the sample
func (s RaceFieldSample) ZScores(m RawMetrics) (zHit, zRet float64) {
	return zScore(m.HitRaw, s.hitMean, s.hitStd), zScore(m.RetRaw, s.retMean, s.retStd)
}

func zScore(x, mean, std float64) float64 {
	if std < stdEpsilon {
		return 0
	}
	return (x - mean) / std
}

// populationMoments returns the mean and the biased (denominator N) standard deviation
func populationMoments(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	n := float64(len(xs))
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / n

	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / n)
}
