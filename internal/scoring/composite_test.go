package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/race-scorer/internal/models"
)

func TestShrinkageBounds(t *testing.T) {
	assert.Equal(t, 0.0, Shrinkage(0, DefaultHalfConfidence))
	assert.Equal(t, 0.0, Shrinkage(-5, DefaultHalfConfidence))
	assert.InDelta(t, math.Sqrt(0.5), Shrinkage(400, DefaultHalfConfidence), 1e-12)

	prev := 0.0
	for n := 1; n <= 100000; n *= 3 {
		shr := Shrinkage(n, DefaultHalfConfidence)
		assert.GreaterOrEqual(t, shr, 0.0)
		assert.LessOrEqual(t, shr, 1.0)
		assert.Greater(t, shr, prev, "shrinkage must increase with n=%d", n)
		prev = shr
	}
}

func TestShrinkageCustomHalfConfidence(t *testing.T) {
	assert.InDelta(t, math.Sqrt(0.5), Shrinkage(100, 100), 1e-12)
	assert.Equal(t, Shrinkage(250, DefaultHalfConfidence), Shrinkage(250, 0))
}

func TestFactorScoreBounds(t *testing.T) {
	tests := []struct {
		name       string
		zHit, zRet float64
		shr        float64
	}{
		{"zero", 0, 0, 1},
		{"extreme positive", 1e6, 1e6, 1},
		{"extreme negative", -1e6, -1e6, 1},
		{"mixed", 3, -2, 0.7},
		{"infinite", math.Inf(1), 0, 1},
		{"nan", math.NaN(), 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := FactorScore(tt.zHit, tt.zRet, tt.shr)
			assert.False(t, math.IsNaN(score))
			assert.GreaterOrEqual(t, score, -AASScale)
			assert.LessOrEqual(t, score, AASScale)
		})
	}
}

func TestFactorScoreFormula(t *testing.T) {
	zHit, zRet, shr := 1.2, -0.4, 0.6
	want := 12 * math.Tanh(0.55*zHit+0.45*zRet) * shr
	assert.InDelta(t, want, FactorScore(zHit, zRet, shr), 1e-12)
	assert.InDelta(t, 0.55*zHit+0.45*zRet, BaseCalc(zHit, zRet), 1e-12)
}

func TestFactorScoreZeroShrinkage(t *testing.T) {
	assert.Equal(t, 0.0, FactorScore(2.5, 1.5, 0))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 3.1, Round(3.14159, 1))
	assert.Equal(t, -2.5, Round(-2.46, 1))
	assert.Equal(t, 7.86, Round(7.8571, 2))
}

func TestComposeRawMetricsNeutral(t *testing.T) {
	m := ComposeRawMetrics(models.NeutralStatistic())

	assert.InDelta(t, 17.0, m.HitRaw, 1e-9)
	assert.InDelta(t, 80.0, m.RetRaw, 1e-9)
	assert.Equal(t, 0, m.NMin)
	assert.Equal(t, 0.0, Shrinkage(m.NMin, DefaultHalfConfidence))
}

func TestComposeRawMetrics(t *testing.T) {
	stat := models.FactorStatistic{
		WinCount:             250,
		PlaceCount:           240,
		WinHitRate:           11.2,
		PlaceHitRate:         35.6,
		CorrectedWinReturn:   55.5,
		CorrectedPlaceReturn: 86.6,
	}
	m := ComposeRawMetrics(stat)

	assert.InDelta(t, 0.65*11.2+0.35*35.6, m.HitRaw, 1e-9)
	assert.InDelta(t, 0.35*55.5+0.65*86.6, m.RetRaw, 1e-9)
	assert.Equal(t, 240, m.NMin)
}

func TestRetRawMonotonicInPlaceReturn(t *testing.T) {
	stat := models.NeutralStatistic()
	prev := math.Inf(-1)
	for ret := 0.0; ret <= 300; ret += 12.5 {
		stat.CorrectedPlaceReturn = ret
		m := ComposeRawMetrics(stat)
		assert.Greater(t, m.RetRaw, prev)
		prev = m.RetRaw
	}
}
