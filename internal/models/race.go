package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Race represents a single race card entry at a venue
type Race struct {
	ID             uuid.UUID `db:"id" json:"id" validate:"required"`
	Venue          string    `db:"venue" json:"venue" validate:"required"`
	RaceDate       time.Time `db:"race_date" json:"race_date" validate:"required"`
	RaceNumber     int       `db:"race_number" json:"race_number" validate:"required,gt=0,lte=12"`
	Distance       int       `db:"distance" json:"distance" validate:"required,gt=0"`
	Surface        string    `db:"surface" json:"surface"`
	TrackCondition string    `db:"track_condition" json:"track_condition"`
	FieldSize      int       `db:"field_size" json:"field_size" validate:"gte=0"`
	Grade          string    `db:"grade" json:"grade"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Key returns the natural identity of the race: venue, date and race number
func (r *Race) Key() string {
	return fmt.Sprintf("%s-%s-R%02d", r.Venue, r.RaceDate.Format("20060102"), r.RaceNumber)
}

// Year returns the calendar year the race is run in
func (r *Race) Year() int {
	return r.RaceDate.Year()
}
