package frames

import "math"

// Sample picks round(len(items)*fraction) elements spread evenly across
// items. The sequence is cut into that many equal-width bins; each bin
// contributes its central element (the upper of the two middle elements
// for even-sized bins). The result is an ordered subsequence of items, without repeats,
// and is deterministic.
//
// Rounding is half-to-even. A fraction <= 0, or one that rounds to zero
// bins, returns nil; fractions above 1 are treated as 1 (identity).
func Sample[T any](items []T, fraction float64) []T {
	n := len(items)
	if n == 0 || fraction <= 0 || math.IsNaN(fraction) {
		return nil
	}
	if fraction > 1 {
		fraction = 1
	}

	bins := int(math.RoundToEven(float64(n) * fraction))
	if bins == 0 {
		return nil
	}
	step := float64(n) / float64(bins)

	// splits[i] is the first position at or past the i-th bin wall.
	splits := make([]int, bins+1)
	for i := 0; i < bins; i++ {
		splits[i] = lowerBound(n, step*float64(i))
	}
	splits[bins] = n

	out := make([]T, 0, bins)
	for i := 0; i < bins; i++ {
		from, to := splits[i], splits[i+1]
		mid := from + (to-from)/2
		if mid >= n {
			mid = n - 1
		}
		out = append(out, items[mid])
	}
	return out
}

// lowerBound returns the smallest position p in [0, n] with p >= wall.
func lowerBound(n int, wall float64) int {
	p := int(math.Ceil(wall))
	if p < 0 {
		return 0
	}
	if p > n {
		return n
	}
	return p
}
