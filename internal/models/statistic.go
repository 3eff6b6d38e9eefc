package models

// FactorStatistic aggregates the historical observations of one
// (venue, factor, value) tuple. Rates and returns are percentages,
// so 15% is stored as 15.
type FactorStatistic struct {
	WinCount             int     `json:"win_count"`
	PlaceCount           int     `json:"place_count"`
	WinHits              int     `json:"win_hits"`
	PlaceHits            int     `json:"place_hits"`
	WinHitRate           float64 `json:"win_hit_rate"`
	PlaceHitRate         float64 `json:"place_hit_rate"`
	CorrectedWinReturn   float64 `json:"corrected_win_return"`
	CorrectedPlaceReturn float64 `json:"corrected_place_return"`
	TotalCount           int     `json:"total_count"`
}

// Neutral statistic used when a factor value has no history.
const (
	NeutralWinHitRate   = 10.0
	NeutralPlaceHitRate = 30.0
	NeutralWinReturn    = 80.0
	NeutralPlaceReturn  = 80.0
)

// NeutralStatistic returns the canonical default for an unseen factor value.
// All counts are zero so confidence-weighted scores collapse to zero.
func NeutralStatistic() FactorStatistic {
	return FactorStatistic{
		WinHitRate:           NeutralWinHitRate,
		PlaceHitRate:         NeutralPlaceHitRate,
		CorrectedWinReturn:   NeutralWinReturn,
		CorrectedPlaceReturn: NeutralPlaceReturn,
	}
}

// SampleSize returns the smaller of the win and place sample counts
func (s FactorStatistic) SampleSize() int {
	if s.WinCount < s.PlaceCount {
		return s.WinCount
	}
	return s.PlaceCount
}
