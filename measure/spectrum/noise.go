package spectrum

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// SampleNoise estimates the noise level of y over start <= w <= stop: a
// quadratic baseline is fitted by least squares and the sample standard
// deviation of the residual is returned.
func SampleNoise(w, y []float64, start, stop float64) (float64, error) {
	if len(w) != len(y) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(w), len(y))
	}
	if start > stop {
		start, stop = stop, start
	}

	var xs, ys []float64
	for i, x := range w {
		if x >= start && x <= stop {
			xs = append(xs, x)
			ys = append(ys, y[i])
		}
	}
	n := len(xs)
	if n < 4 {
		return 0, fmt.Errorf("%w: %d samples in [%v, %v]", ErrEmptyRegion, n, start, stop)
	}

	// Center the abscissa to keep the normal equations well conditioned.
	center := stat.Mean(xs, nil)
	design := mat.NewDense(n, 3, nil)
	for i, x := range xs {
		d := x - center
		design.Set(i, 0, 1)
		design.Set(i, 1, d)
		design.Set(i, 2, d*d)
	}

	var coef mat.Dense
	if err := coef.Solve(design, mat.NewVecDense(n, ys)); err != nil {
		return 0, fmt.Errorf("spectrum: baseline fit failed: %w", err)
	}

	var fitted mat.Dense
	fitted.Mul(design, &coef)

	residual := make([]float64, n)
	for i := range residual {
		residual[i] = ys[i] - fitted.At(i, 0)
	}
	return stat.StdDev(residual, nil), nil
}
