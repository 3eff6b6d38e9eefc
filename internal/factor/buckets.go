package factor

import (
	"strconv"

	"github.com/yourusername/race-scorer/internal/models"
)

// Bucketing keeps continuous attributes on a small, stable set of keys so
// historical samples are large enough to be useful.

func intKey(v int) string {
	if v <= 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func intPtrKey(v *int) string {
	if v == nil {
		return ""
	}
	return intKey(*v)
}

func weightBand(w *float64) string {
	if w == nil || *w <= 0 {
		return ""
	}
	switch {
	case *w < 52:
		return "lt52"
	case *w < 54:
		return "52-53.5"
	case *w < 56:
		return "54-55.5"
	case *w < 58:
		return "56-57.5"
	default:
		return "ge58"
	}
}

func oddsBand(o *float64) string {
	if o == nil || *o <= 0 {
		return ""
	}
	switch {
	case *o < 2:
		return "lt2"
	case *o < 4:
		return "2-4"
	case *o < 7:
		return "4-7"
	case *o < 15:
		return "7-15"
	case *o < 30:
		return "15-30"
	default:
		return "ge30"
	}
}

func restBand(days *int) string {
	if days == nil || *days < 0 {
		return ""
	}
	switch d := *days; {
	case d <= 14:
		return "le2w"
	case d <= 35:
		return "3-5w"
	case d <= 63:
		return "6-9w"
	case d <= 180:
		return "10-25w"
	default:
		return "gt25w"
	}
}

func distanceBand(distance int) string {
	switch {
	case distance <= 0:
		return ""
	case distance <= 1400:
		return "sprint"
	case distance <= 1800:
		return "mile"
	case distance <= 2200:
		return "intermediate"
	case distance <= 2800:
		return "long"
	default:
		return "extended"
	}
}

func fieldSizeBand(n int) string {
	switch {
	case n <= 0:
		return ""
	case n <= 8:
		return "small"
	case n <= 13:
		return "medium"
	default:
		return "large"
	}
}

func finishBand(pos *int) string {
	if pos == nil || *pos <= 0 {
		return ""
	}
	switch p := *pos; {
	case p <= models.PlacePositions:
		return strconv.Itoa(p)
	case p <= 5:
		return "4-5"
	case p <= 9:
		return "6-9"
	default:
		return "ge10"
	}
}

func cornerBand(pos *int) string {
	if pos == nil || *pos <= 0 {
		return ""
	}
	switch p := *pos; {
	case p <= 2:
		return "front"
	case p <= 5:
		return "handy"
	case p <= 9:
		return "midfield"
	default:
		return "rear"
	}
}
