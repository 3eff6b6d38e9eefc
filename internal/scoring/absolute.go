package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/yourusername/race-scorer/internal/factor"
	"github.com/yourusername/race-scorer/internal/metrics"
	"github.com/yourusername/race-scorer/internal/models"
)

// Absolute profitability constants
const (
	RGSScale             = 10.0
	RGSSaturation        = 500.0
	RGSBreakeven         = 80.0
	RGSSpread            = 25.0
	RGSWinReturnWeight   = 0.3
	RGSPlaceReturnWeight = 0.7
)

// Band classifies an absolute profitability score
type Band string

const (
	BandStronglyFavorable Band = "strongly_favorable"
	BandFavorable         Band = "favorable"
	BandNeutral           Band = "neutral"
	BandUnfavorable       Band = "unfavorable"
)

// AbsoluteProfitability computes the race-independent score of a factor
// statistic, bounded to [-10, 10].
func AbsoluteProfitability(stat models.FactorStatistic) float64 {
	w := float64(stat.WinCount + stat.PlaceCount)
	if w <= 0 {
		return 0
	}
	x := math.Min(1, math.Sqrt(w/RGSSaturation))
	y := RGSWinReturnWeight*stat.CorrectedWinReturn + RGSPlaceReturnWeight*stat.CorrectedPlaceReturn
	z := y - RGSBreakeven
	return clamp(RGSScale*math.Tanh(z*x/RGSSpread), RGSScale)
}

// ClassifyRGS maps a score onto its interpretation band
func ClassifyRGS(score float64) Band {
	switch {
	case score >= 7:
		return BandStronglyFavorable
	case score >= 2:
		return BandFavorable
	case score <= -2:
		return BandUnfavorable
	default:
		return BandNeutral
	}
}

// AbsoluteScore is the absolute profitability of one factor value
type AbsoluteScore struct {
	Venue      string                 `json:"venue"`
	FactorID   string                 `json:"factor_id"`
	ValueKey   string                 `json:"value"`
	Statistic  models.FactorStatistic `json:"statistic"`
	HasHistory bool                   `json:"has_history"`
	RGS        float64                `json:"rgs"`
	Band       Band                   `json:"band"`
}

// AbsoluteScorer scores single factor values without reference to a race
type AbsoluteScorer struct {
	source  StatisticSource
	catalog *factor.Catalog
}

// NewAbsoluteScorer creates a new absolute scorer
func NewAbsoluteScorer(source StatisticSource, catalog *factor.Catalog) *AbsoluteScorer {
	return &AbsoluteScorer{source: source, catalog: catalog}
}

// ScoreFactorAbsolute returns the RGS of one factor value at a venue
func (a *AbsoluteScorer) ScoreFactorAbsolute(ctx context.Context, venue, factorID string, value factor.Value) (AbsoluteScore, error) {
	f, err := a.catalog.Get(factorID)
	if err != nil {
		return AbsoluteScore{}, err
	}
	wantParts := 1
	if f.Kind == factor.KindCombined {
		wantParts = 2
	}
	if len(value.Parts) != wantParts || !value.Valid() {
		return AbsoluteScore{}, fmt.Errorf("%w: %s expects %d part(s), got %q", models.ErrInvalidFactorValue, factorID, wantParts, value.Key())
	}

	lookup, err := a.source.Lookup(ctx, venue, factorID, value)
	if err != nil {
		return AbsoluteScore{}, err
	}

	score := AbsoluteProfitability(lookup.Statistic)
	metrics.ObserveAbsoluteScore(score)
	return AbsoluteScore{
		Venue:      venue,
		FactorID:   factorID,
		ValueKey:   value.Key(),
		Statistic:  lookup.Statistic,
		HasHistory: lookup.HasHistory,
		RGS:        score,
		Band:       ClassifyRGS(score),
	}, nil
}
