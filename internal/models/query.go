package models

// ObservationQuery selects the historical observations of one
// (venue, factor, value) tuple within an inclusive year window.
type ObservationQuery struct {
	Venue    string
	FactorID string
	ValueKey string
	FromYear int
	ToYear   int
}
