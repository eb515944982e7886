package common

import (
	"cmp"
	"slices"
)

// Coalesce returns the first non-zero value, or the zero value when every value is zero. Scene
// and filter configuration use it to fill unset fields with defaults.
//
// Parameters:
//   - values: the candidates in order of preference
//
// Returns:
//   - T: the first non-zero candidate
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// SortedKeys returns the keys of m in ascending order. Bindings and scene values are walked
// through it so the emitted command stream does not depend on map iteration order.
//
// Parameters:
//   - m: the map
//
// Returns:
//   - []K: the sorted keys, empty for a nil map
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
