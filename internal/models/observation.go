package models

import (
	"github.com/shopspring/decimal"
)

// FactorObservation is one historical occurrence of a factor value for a venue.
// Payouts are tote payouts per 100 units staked; zero means the bet did not pay.
type FactorObservation struct {
	Venue          string          `db:"venue" json:"venue" validate:"required"`
	FactorID       string          `db:"factor_id" json:"factor_id" validate:"required"`
	ValueKey       string          `db:"value_key" json:"value_key" validate:"required"`
	Year           int             `db:"year" json:"year" validate:"required,gt=1900"`
	FinishPosition int             `db:"finish_position" json:"finish_position" validate:"gte=0"`
	WinOdds        float64         `db:"win_odds" json:"win_odds" validate:"gte=0"`
	WinPayout      decimal.Decimal `db:"win_payout" json:"win_payout"`
	PlaceOdds      float64         `db:"place_odds" json:"place_odds" validate:"gte=0"`
	PlacePayout    decimal.Decimal `db:"place_payout" json:"place_payout"`
}

// IsWin reports whether the runner won
func (o *FactorObservation) IsWin() bool {
	return o.FinishPosition == 1
}

// IsPlace reports whether the runner finished inside the place positions
func (o *FactorObservation) IsPlace() bool {
	return o.FinishPosition >= 1 && o.FinishPosition <= PlacePositions
}

// Odds returns the odds quoted for the given pool
func (o *FactorObservation) Odds(bet BetType) float64 {
	if bet == BetTypePlace {
		return o.PlaceOdds
	}
	return o.WinOdds
}

// Payout returns the payout per 100 units for the given pool
func (o *FactorObservation) Payout(bet BetType) decimal.Decimal {
	if bet == BetTypePlace {
		return o.PlacePayout
	}
	return o.WinPayout
}

// Hit reports whether the observation paid out in the given pool
func (o *FactorObservation) Hit(bet BetType) bool {
	if bet == BetTypePlace {
		return o.IsPlace()
	}
	return o.IsWin()
}
