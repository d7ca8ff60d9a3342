// Package residual summarizes the misfit between measured data and a fitted
// curve.
package residual

import (
	"errors"
	"fmt"
	"math"
)

// ErrLengthMismatch is returned when data and fit differ in length.
var ErrLengthMismatch = errors.New("residual: data and fit lengths differ")

// Stats holds statistics of the residual data - fit.
type Stats struct {
	Length      int
	Mean        float64
	RMS         float64
	RelativeRMS float64 // RMS / max|data|, 0 when data is all zero
	Max         float64
	MaxPos      int
	Min         float64
	MinPos      int
	Peak        float64 // max(|max|, |min|)
	SumSquares  float64
	Variance    float64 // population variance
	Skewness    float64
	Kurtosis    float64 // excess kurtosis
	SignChanges int     // a white residual changes sign about every other sample
}

// Calculate computes residual statistics of data against fit in a single
// pass, using Welford's update for the central moments.
func Calculate(data, fit []float64) (Stats, error) {
	if len(data) != len(fit) {
		return Stats{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(data), len(fit))
	}
	n := len(data)
	if n == 0 {
		return Stats{}, nil
	}

	var (
		mean, m2, m3, m4 float64
		sumSq            float64
		dataPeak         float64
		prev             float64
		signChanges      int
	)
	maxVal, minVal := math.Inf(-1), math.Inf(1)
	var maxPos, minPos int

	for i := range data {
		r := data[i] - fit[i]

		ni := float64(i + 1)
		delta := r - mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(i)

		// M4 before M3 before M2.
		m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m2 - 4*deltaN*m3
		m3 += term1*deltaN*(float64(i)-1) - 3*deltaN*m2
		m2 += term1
		mean += deltaN

		sumSq += r * r
		dataPeak = math.Max(dataPeak, math.Abs(data[i]))

		if r > maxVal {
			maxVal, maxPos = r, i
		}
		if r < minVal {
			minVal, minPos = r, i
		}
		if i > 0 && prev*r < 0 {
			signChanges++
		}
		prev = r
	}

	nf := float64(n)
	rms := math.Sqrt(sumSq / nf)
	variance := m2 / nf

	var skewness, kurtosis float64
	if variance > 0 {
		skewness = (m3 / nf) / (variance * math.Sqrt(variance))
		kurtosis = (m4/nf)/(variance*variance) - 3
	}

	var rel float64
	if dataPeak > 0 {
		rel = rms / dataPeak
	}

	return Stats{
		Length:      n,
		Mean:        mean,
		RMS:         rms,
		RelativeRMS: rel,
		Max:         maxVal,
		MaxPos:      maxPos,
		Min:         minVal,
		MinPos:      minPos,
		Peak:        math.Max(math.Abs(maxVal), math.Abs(minVal)),
		SumSquares:  sumSq,
		Variance:    variance,
		Skewness:    skewness,
		Kurtosis:    kurtosis,
		SignChanges: signChanges,
	}, nil
}

// RMS returns the root-mean-square of data - fit, or 0 for empty or
// mismatched input.
func RMS(data, fit []float64) float64 {
	if len(data) == 0 || len(data) != len(fit) {
		return 0
	}

	var sumSq float64
	for i := range data {
		r := data[i] - fit[i]
		sumSq += r * r
	}
	return math.Sqrt(sumSq / float64(len(data)))
}
