package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/yourusername/race-scorer/internal/models"
)

// DefaultTargetPayout is the notional payout every simulated bet aims for,
// so a bet at odds o stakes DefaultTargetPayout / o.
const DefaultTargetPayout = 10000.0

// YearWeights maps calendar years to integer recency weights. Years not in
// the schedule weigh zero and are excluded.
type YearWeights struct {
	weights map[int]int
	first   int
	last    int
}

// NewLinearYearWeights weights first..last as 1..n
func NewLinearYearWeights(first, last int) (YearWeights, error) {
	if first > last {
		return YearWeights{}, fmt.Errorf("year window start %d is after end %d", first, last)
	}
	weights := make(map[int]int, last-first+1)
	for year := first; year <= last; year++ {
		weights[year] = year - first + 1
	}
	return YearWeights{weights: weights, first: first, last: last}, nil
}

// NewYearWeights builds a schedule from explicit weights. Weights must not
// decrease with recency.
func NewYearWeights(schedule map[int]int) (YearWeights, error) {
	if len(schedule) == 0 {
		return YearWeights{}, fmt.Errorf("year weight schedule is empty")
	}
	years := make([]int, 0, len(schedule))
	for year, w := range schedule {
		if w < 0 {
			return YearWeights{}, fmt.Errorf("negative weight %d for year %d", w, year)
		}
		years = append(years, year)
	}
	sort.Ints(years)
	weights := make(map[int]int, len(schedule))
	prev := 0
	for _, year := range years {
		w := schedule[year]
		if w < prev {
			return YearWeights{}, fmt.Errorf("weight for %d decreases from %d to %d", year, prev, w)
		}
		prev = w
		weights[year] = w
	}
	return YearWeights{weights: weights, first: years[0], last: years[len(years)-1]}, nil
}

// Weight returns the weight of a year, zero outside the window
func (y YearWeights) Weight(year int) int {
	return y.weights[year]
}

// Window returns the first and last year of the schedule
func (y YearWeights) Window() (int, int) {
	return y.first, y.last
}

// OddsBucket applies Multiplier to payouts at odds up to and including MaxOdds
type OddsBucket struct {
	MaxOdds    float64
	Multiplier float64
}

// OddsCorrection holds the win and place calibration curves used to offset
// the favourite-longshot bias in raw payouts.
type OddsCorrection struct {
	win   []OddsBucket
	place []OddsBucket
}

// NewOddsCorrection validates and copies the curves. Buckets must be sorted
// by ascending MaxOdds with positive multipliers.
func NewOddsCorrection(win, place []OddsBucket) (OddsCorrection, error) {
	w, err := copyCurve(models.BetTypeWin, win)
	if err != nil {
		return OddsCorrection{}, err
	}
	p, err := copyCurve(models.BetTypePlace, place)
	if err != nil {
		return OddsCorrection{}, err
	}
	return OddsCorrection{win: w, place: p}, nil
}

func copyCurve(bet models.BetType, curve []OddsBucket) ([]OddsBucket, error) {
	out := make([]OddsBucket, len(curve))
	for i, b := range curve {
		if b.Multiplier <= 0 || math.IsNaN(b.Multiplier) {
			return nil, fmt.Errorf("%s curve bucket %d has non-positive multiplier", bet, i)
		}
		if i > 0 && b.MaxOdds <= curve[i-1].MaxOdds {
			return nil, fmt.Errorf("%s curve buckets must be in ascending odds order", bet)
		}
		out[i] = b
	}
	return out, nil
}

// Factor returns the payout multiplier for odds in the given pool. Odds above
// the last bucket use the last multiplier; an empty curve is neutral.
func (c OddsCorrection) Factor(odds float64, bet models.BetType) float64 {
	curve := c.win
	if bet == models.BetTypePlace {
		curve = c.place
	}
	if len(curve) == 0 {
		return 1.0
	}
	for _, b := range curve {
		if odds <= b.MaxOdds {
			return b.Multiplier
		}
	}
	return curve[len(curve)-1].Multiplier
}

// DefaultOddsCorrection is the calibration shipped with the default config
func DefaultOddsCorrection() OddsCorrection {
	c, _ := NewOddsCorrection(
		[]OddsBucket{
			{MaxOdds: 1.9, Multiplier: 1.04},
			{MaxOdds: 2.9, Multiplier: 1.02},
			{MaxOdds: 4.9, Multiplier: 1.00},
			{MaxOdds: 9.9, Multiplier: 0.98},
			{MaxOdds: 19.9, Multiplier: 0.95},
			{MaxOdds: 49.9, Multiplier: 0.91},
			{MaxOdds: 99.9, Multiplier: 0.86},
			{MaxOdds: math.MaxFloat64, Multiplier: 0.80},
		},
		[]OddsBucket{
			{MaxOdds: 1.4, Multiplier: 1.03},
			{MaxOdds: 1.9, Multiplier: 1.01},
			{MaxOdds: 2.9, Multiplier: 1.00},
			{MaxOdds: 4.9, Multiplier: 0.97},
			{MaxOdds: 9.9, Multiplier: 0.93},
			{MaxOdds: math.MaxFloat64, Multiplier: 0.88},
		},
	)
	return c
}

// Tables bundles the reference tables shared read-only by every scorer
type Tables struct {
	Years  YearWeights
	Odds   OddsCorrection
	Venues VenueWeights
}

// DefaultVenueWeight applies to any (venue, factor) pair without an override
const DefaultVenueWeight = 1.0

// VenueWeights maps venue -> factor id -> multiplier. A zero weight disables
// a factor at a venue.
type VenueWeights struct {
	weights map[string]map[string]float64
}

// NewVenueWeights deep-copies the override table
func NewVenueWeights(table map[string]map[string]float64) VenueWeights {
	weights := make(map[string]map[string]float64, len(table))
	for venue, factors := range table {
		inner := make(map[string]float64, len(factors))
		for id, w := range factors {
			inner[id] = w
		}
		weights[venue] = inner
	}
	return VenueWeights{weights: weights}
}

// Weight returns the multiplier for a factor at a venue
func (v VenueWeights) Weight(venue, factorID string) float64 {
	if factors, ok := v.weights[venue]; ok {
		if w, ok := factors[factorID]; ok {
			return w
		}
	}
	return DefaultVenueWeight
}

// Disabled reports whether a factor is switched off at a venue
func (v VenueWeights) Disabled(venue, factorID string) bool {
	return v.Weight(venue, factorID) == 0
}
