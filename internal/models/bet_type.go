package models

// BetType distinguishes the two pools a factor statistic is computed over
type BetType string

const (
	BetTypeWin   BetType = "win"
	BetTypePlace BetType = "place"
)

// PlacePositions is the deepest finishing position paid in the place pool
const PlacePositions = 3

// Valid reports whether the bet type is known
func (b BetType) Valid() bool {
	return b == BetTypeWin || b == BetTypePlace
}
