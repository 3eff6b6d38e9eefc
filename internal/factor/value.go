package factor

import (
	"strings"
)

// KeySeparator joins the parts of a combined factor value
const KeySeparator = "|"

// Value is the derived value of a factor for one runner. Single factors have
// one part, combined factors two.
type Value struct {
	Parts []string
}

// Single builds a one-part value
func Single(v string) Value {
	return Value{Parts: []string{v}}
}

// Pair builds a two-part value
func Pair(a, b string) Value {
	return Value{Parts: []string{a, b}}
}

// ParseKey reverses Key
func ParseKey(key string) Value {
	return Value{Parts: strings.Split(key, KeySeparator)}
}

// Valid reports whether the value has at least one part and no empty parts
func (v Value) Valid() bool {
	if len(v.Parts) == 0 || len(v.Parts) > 2 {
		return false
	}
	for _, p := range v.Parts {
		if strings.TrimSpace(p) == "" {
			return false
		}
	}
	return true
}

// Key returns the storage key used by the observation table
func (v Value) Key() string {
	return strings.Join(v.Parts, KeySeparator)
}

// IsCombined reports whether the value is a pair
func (v Value) IsCombined() bool {
	return len(v.Parts) == 2
}

func (v Value) String() string {
	return v.Key()
}
