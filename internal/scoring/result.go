package scoring

import (
	"time"

	"github.com/yourusername/race-scorer/internal/models"
)

// FactorBreakdown is the contribution of one factor to one runner's score
type FactorBreakdown struct {
	FactorID   string  `json:"factor_id"`
	Label      string  `json:"label"`
	ValueKey   string  `json:"value"`
	HitRaw     float64 `json:"hit_raw"`
	RetRaw     float64 `json:"ret_raw"`
	NMin       int     `json:"n_min"`
	HasHistory bool    `json:"has_history"`
	ZHit       float64 `json:"z_hit"`
	ZRet       float64 `json:"z_ret"`
	Shrinkage  float64 `json:"shrinkage"`
	BaseCalc   float64 `json:"base_calc"`
	Score      float64 `json:"score"`
	Weight     float64 `json:"weight"`
	Weighted   float64 `json:"weighted"`
}

// RunnerScore is one runner's composite score within a race
type RunnerScore struct {
	Runner     *models.Runner    `json:"runner"`
	Rank       int               `json:"rank"`
	TotalScore float64           `json:"total_score"`
	Factors    []FactorBreakdown `json:"factors"`
}

// RaceScore is the ranked outcome of scoring one race
type RaceScore struct {
	Race            *models.Race  `json:"race"`
	Runners         []RunnerScore `json:"runners"`
	ExcludedFactors []string      `json:"excluded_factors,omitempty"`
	FailedFactors   []string      `json:"failed_factors,omitempty"`
	Duration        time.Duration `json:"duration"`
}

// FactorsUsed returns the number of factors that were standardized
func (r *RaceScore) FactorsUsed(catalogSize int) int {
	return catalogSize - len(r.ExcludedFactors) - len(r.FailedFactors)
}
