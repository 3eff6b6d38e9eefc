// Package factor defines the catalog of handicapping factors and how their
// values are derived from a runner and its race.
package factor

import (
	"fmt"

	"github.com/yourusername/race-scorer/internal/models"
)

// Kind distinguishes single-attribute factors from pairwise combinations
type Kind string

const (
	KindSingle   Kind = "single"
	KindCombined Kind = "combined"
)

// Catalog sizes
const (
	SingleCount   = 16
	CombinedCount = 15
	TotalCount    = SingleCount + CombinedCount
)

// ExtractFunc derives a factor value. The boolean is false when any
// constituent field is missing.
type ExtractFunc func(runner *models.Runner, race *models.Race) (Value, bool)

// Factor is one catalog entry
type Factor struct {
	ID      string
	Ordinal int
	Label   string
	Kind    Kind
	extract ExtractFunc
}

// NewFactor defines a catalog entry with a custom extraction rule
func NewFactor(ordinal int, id, label string, kind Kind, extract ExtractFunc) *Factor {
	return &Factor{ID: id, Ordinal: ordinal, Label: label, Kind: kind, extract: extract}
}

// Extract returns the runner's value for this factor
func (f *Factor) Extract(runner *models.Runner, race *models.Race) (Value, bool) {
	if runner == nil || race == nil || f.extract == nil {
		return Value{}, false
	}
	v, ok := f.extract(runner, race)
	if !ok || !v.Valid() {
		return Value{}, false
	}
	return v, true
}

// Catalog is the ordered, immutable list of factors
type Catalog struct {
	factors []*Factor
	byID    map[string]*Factor
}

// NewCatalog builds a catalog from factor definitions, rejecting duplicate ids
func NewCatalog(factors []*Factor) (*Catalog, error) {
	byID := make(map[string]*Factor, len(factors))
	for i, f := range factors {
		if f.ID == "" {
			return nil, fmt.Errorf("factor at position %d has no id", i)
		}
		if _, dup := byID[f.ID]; dup {
			return nil, fmt.Errorf("duplicate factor id %q", f.ID)
		}
		byID[f.ID] = f
	}
	return &Catalog{factors: factors, byID: byID}, nil
}

// Factors returns the factors in catalog order
func (c *Catalog) Factors() []*Factor {
	out := make([]*Factor, len(c.factors))
	copy(out, c.factors)
	return out
}

// Len returns the number of factors
func (c *Catalog) Len() int {
	return len(c.factors)
}

// Get looks up a factor by id
func (c *Catalog) Get(id string) (*Factor, error) {
	f, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownFactor, id)
	}
	return f, nil
}

func single(ordinal int, id, label string, fn func(*models.Runner, *models.Race) string) *Factor {
	return &Factor{
		ID:      id,
		Ordinal: ordinal,
		Label:   label,
		Kind:    KindSingle,
		extract: func(runner *models.Runner, race *models.Race) (Value, bool) {
			v := fn(runner, race)
			return Single(v), v != ""
		},
	}
}

func combined(ordinal int, a, b *Factor) *Factor {
	return &Factor{
		ID:      a.ID + "_" + b.ID,
		Ordinal: ordinal,
		Label:   a.Label + " x " + b.Label,
		Kind:    KindCombined,
		extract: func(runner *models.Runner, race *models.Race) (Value, bool) {
			va, okA := a.Extract(runner, race)
			vb, okB := b.Extract(runner, race)
			if !okA || !okB {
				return Value{}, false
			}
			return Pair(va.Key(), vb.Key()), true
		},
	}
}

// Default returns the standard 31-factor catalog
func Default() *Catalog {
	jockey := single(1, "jockey", "Jockey", func(r *models.Runner, _ *models.Race) string { return r.JockeyID })
	trainer := single(2, "trainer", "Trainer", func(r *models.Runner, _ *models.Race) string { return r.TrainerID })
	post := single(3, "post", "Post position", func(r *models.Runner, _ *models.Race) string { return intKey(r.PostPosition) })
	prevFinish := single(4, "prev_finish", "Previous finish", func(r *models.Runner, _ *models.Race) string {
		if r.Previous == nil {
			return ""
		}
		return finishBand(r.Previous.FinishPosition)
	})
	weight := single(5, "weight", "Carried weight", func(r *models.Runner, _ *models.Race) string { return weightBand(r.Weight) })
	sex := single(6, "sex", "Sex", func(r *models.Runner, _ *models.Race) string { return r.Sex })
	age := single(7, "age", "Age", func(r *models.Runner, _ *models.Race) string { return intPtrKey(r.Age) })
	distance := single(8, "distance", "Distance", func(_ *models.Runner, race *models.Race) string { return distanceBand(race.Distance) })
	surface := single(9, "surface", "Surface", func(_ *models.Runner, race *models.Race) string { return race.Surface })
	condition := single(10, "condition", "Track condition", func(_ *models.Runner, race *models.Race) string { return race.TrackCondition })
	fieldSize := single(11, "field_size", "Field size", func(_ *models.Runner, race *models.Race) string { return fieldSizeBand(race.FieldSize) })
	grade := single(12, "grade", "Class grade", func(_ *models.Runner, race *models.Race) string { return race.Grade })
	rest := single(13, "rest", "Rest interval", func(r *models.Runner, _ *models.Race) string {
		if r.Previous == nil {
			return ""
		}
		return restBand(r.Previous.DaysSince)
	})
	prevOdds := single(14, "prev_odds", "Previous odds", func(r *models.Runner, _ *models.Race) string {
		if r.Previous == nil {
			return ""
		}
		return oddsBand(r.Previous.Odds)
	})
	prevCorner := single(15, "prev_corner", "Previous final-corner position", func(r *models.Runner, _ *models.Race) string {
		if r.Previous == nil {
			return ""
		}
		return cornerBand(r.Previous.CornerPosition)
	})
	odds := single(16, "odds", "Live odds", func(r *models.Runner, _ *models.Race) string { return oddsBand(r.Odds) })

	factors := []*Factor{
		jockey, trainer, post, prevFinish, weight, sex, age, distance,
		surface, condition, fieldSize, grade, rest, prevOdds, prevCorner, odds,
		combined(17, jockey, trainer),
		combined(18, jockey, post),
		combined(19, trainer, post),
		combined(20, post, distance),
		combined(21, post, surface),
		combined(22, jockey, distance),
		combined(23, trainer, distance),
		combined(24, jockey, surface),
		combined(25, trainer, surface),
		combined(26, prevFinish, rest),
		combined(27, sex, age),
		combined(28, post, condition),
		combined(29, weight, distance),
		combined(30, prevCorner, distance),
		combined(31, odds, grade),
	}

	catalog, err := NewCatalog(factors)
	if err != nil {
		panic(err)
	}
	return catalog
}
