package weight

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cwbudde/algo-nmrfit/dsp/core"
)

// ErrInvalidWeight is returned for negative or non-finite region weights.
var ErrInvalidWeight = errors.New("weight: region weight must be finite and non-negative")

// Region is one entry of a declared weighting list. An All region covers the
// whole axis; otherwise it covers samples strictly between its bounds.
// Contributions of overlapping regions add up.
type Region struct {
	All    bool
	Bounds [2]float64
	Weight float64
}

// All returns a region spanning the entire axis.
func All(weight float64) Region {
	return Region{All: true, Weight: weight}
}

// Between returns a region covering lo < w < hi.
func Between(lo, hi, weight float64) Region {
	return Region{Bounds: [2]float64{lo, hi}, Weight: weight}
}

// Span returns the half-open index range [start, end) that the region covers
// on an ascending axis.
func (r Region) Span(w []float64) (start, end int) {
	if r.All {
		return 0, len(w)
	}
	lo, hi := r.Bounds[0], r.Bounds[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	start = sort.Search(len(w), func(i int) bool { return w[i] > lo })
	end = sort.Search(len(w), func(i int) bool { return w[i] >= hi })
	if end < start {
		end = start
	}
	return start, end
}

// ValidateRegions checks every region weight.
func ValidateRegions(regions []Region) error {
	for i, r := range regions {
		if r.Weight < 0 || !core.IsFinite(r.Weight) {
			return fmt.Errorf("%w: region %d has %v", ErrInvalidWeight, i, r.Weight)
		}
	}
	return nil
}

// Expand converts a region list into a per-sample field on the axis w.
// Weighting a residual by the expanded field equals summing the per-region
// weighted residuals.
func Expand(w []float64, regions []Region) Field {
	field := make(Field, len(w))
	for _, r := range regions {
		start, end := r.Span(w)
		for i := start; i < end; i++ {
			field[i] += r.Weight
		}
	}
	return field
}
