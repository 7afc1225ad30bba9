package analytics

import "sort"

// Median returns the middle value of values, or the mean of the two middle
// values when len(values) is even. values is not modified. The second result
// is false for an empty slice.
func Median(values []float64) (float64, bool) {
	n := len(values)
	if n == 0 {
		return 0, false
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := n / 2
	if n%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}

// Max returns the largest value, or 0 for an empty slice.
func Max[T int64 | float64](values []T) T {
	var m T
	for i, v := range values {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}
