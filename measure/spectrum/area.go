package spectrum

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// LowConfidenceCV is the coefficient of variation of the peak areas below
// which the major/satellite split is considered ambiguous.
const LowConfidenceCV = 0.1

// AreaFraction splits areas at their mean into major (>= mean) and minor
// (< mean) sets and returns sum(minor) / (sum(major) + sum(minor)).
//
// The split assumes a bimodal area distribution. lowConfidence is set when
// the areas are nearly uniform, when no area falls below the mean, or when
// the total is zero (fraction is then NaN).
func AreaFraction(areas []float64) (fraction float64, lowConfidence bool) {
	if len(areas) == 0 {
		return math.NaN(), true
	}

	mean, std := stat.MeanStdDev(areas, nil)
	if len(areas) == 1 {
		std = 0
	}

	var major, minor float64
	nMinor := 0
	for _, a := range areas {
		if a >= mean {
			major += a
		} else {
			minor += a
			nMinor++
		}
	}

	total := major + minor
	if total == 0 {
		return math.NaN(), true
	}
	fraction = minor / total

	lowConfidence = nMinor == 0 || mean == 0 || math.Abs(std/mean) < LowConfidenceCV
	return fraction, lowConfidence
}
