package scoring

import "github.com/yourusername/race-scorer/internal/models"

// Raw metric blend weights
const (
	HitWinWeight      = 0.65
	HitPlaceWeight    = 0.35
	ReturnWinWeight   = 0.35
	ReturnPlaceWeight = 0.65
)

// RawMetrics are the two blended metrics of one factor occurrence
type RawMetrics struct {
	HitRaw float64
	RetRaw float64
	NMin   int
}

// ComposeRawMetrics blends a factor statistic into raw metrics
func ComposeRawMetrics(stat models.FactorStatistic) RawMetrics {
	return RawMetrics{
		HitRaw: HitWinWeight*stat.WinHitRate + HitPlaceWeight*stat.PlaceHitRate,
		RetRaw: ReturnWinWeight*stat.CorrectedWinReturn + ReturnPlaceWeight*stat.CorrectedPlaceReturn,
		NMin:   stat.SampleSize(),
	}
}
