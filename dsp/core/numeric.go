package core

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// NearestIndex returns the index of the sample in axis closest to value.
// Ties resolve to the lowest index. Returns -1 for an empty axis.
func NearestIndex(axis []float64, value float64) int {
	best := -1
	bestDist := math.Inf(1)
	for i, x := range axis {
		d := math.Abs(x - value)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// Bracket returns the inclusive index range [lo, hi] of the samples nearest
// to the two bounds. The result is ordered regardless of bound order.
func Bracket(axis []float64, bounds [2]float64) (lo, hi int) {
	lo = NearestIndex(axis, bounds[0])
	hi = NearestIndex(axis, bounds[1])
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// Linspace returns n evenly spaced samples over [start, stop].
// For n == 1 the single sample is start.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	return floats.Span(make([]float64, n), start, stop)
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// AllFinite reports whether every element of x is finite.
func AllFinite(x []float64) bool {
	for _, v := range x {
		if !IsFinite(v) {
			return false
		}
	}
	return true
}
