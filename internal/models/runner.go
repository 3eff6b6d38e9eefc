package models

import (
	"time"

	"github.com/google/uuid"
)

// Runner represents a horse entered in a race
type Runner struct {
	ID           uuid.UUID    `db:"id" json:"id" validate:"required"`
	RaceID       uuid.UUID    `db:"race_id" json:"race_id" validate:"required"`
	HorseName    string       `db:"horse_name" json:"horse_name" validate:"required"`
	PostPosition int          `db:"post_position" json:"post_position" validate:"required,gt=0,lte=18"`
	JockeyID     string       `db:"jockey_id" json:"jockey_id"`
	TrainerID    string       `db:"trainer_id" json:"trainer_id"`
	Weight       *float64     `db:"weight" json:"weight"`
	Sex          string       `db:"sex" json:"sex"`
	Age          *int         `db:"age" json:"age"`
	Odds         *float64     `db:"odds" json:"odds"`
	Previous     *PreviousRun `db:"-" json:"previous,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// PreviousRun is the snapshot of a runner's most recent race
type PreviousRun struct {
	FinishPosition *int     `db:"prev_finish_position" json:"finish_position"`
	CornerPosition *int     `db:"prev_corner_position" json:"corner_position"`
	Odds           *float64 `db:"prev_odds" json:"odds"`
	DaysSince      *int     `db:"days_since_last_run" json:"days_since"`
}

// GetOdds returns the live odds or 0 if unknown
func (r *Runner) GetOdds() float64 {
	if r.Odds == nil {
		return 0
	}
	return *r.Odds
}

// HasPrevious reports whether a previous run snapshot is available
func (r *Runner) HasPrevious() bool {
	return r.Previous != nil
}
