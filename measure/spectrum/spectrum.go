package spectrum

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-nmrfit/dsp/core"
	"github.com/cwbudde/algo-nmrfit/dsp/phase"
)

// Errors returned by spectrum constructors and operations.
var (
	ErrTooShort       = errors.New("spectrum: at least two samples are required")
	ErrLengthMismatch = errors.New("spectrum: frequency, real and imaginary lengths differ")
	ErrNonFinite      = errors.New("spectrum: samples must be finite")
	ErrNotMonotonic   = errors.New("spectrum: frequency axis must be strictly monotonic")
)

// Spectrum is a sampled complex frequency response: W holds the frequency
// axis in ascending order, U the in-phase and V the quadrature samples.
type Spectrum struct {
	W []float64
	U []float64
	V []float64
}

// New validates and copies the samples into a Spectrum. A strictly
// descending axis is reversed together with its samples.
func New(w, u, v []float64) (Spectrum, error) {
	if len(w) != len(u) || len(w) != len(v) {
		return Spectrum{}, fmt.Errorf("%w: %d, %d, %d", ErrLengthMismatch, len(w), len(u), len(v))
	}
	if len(w) < 2 {
		return Spectrum{}, ErrTooShort
	}
	if !core.AllFinite(w) || !core.AllFinite(u) || !core.AllFinite(v) {
		return Spectrum{}, ErrNonFinite
	}

	s := Spectrum{W: core.Clone(w), U: core.Clone(u), V: core.Clone(v)}

	descending := w[1] < w[0]
	for i := 1; i < len(w); i++ {
		if (w[i] < w[i-1]) != descending || w[i] == w[i-1] {
			return Spectrum{}, fmt.Errorf("%w: index %d", ErrNotMonotonic, i)
		}
	}
	if descending {
		reverse(s.W)
		reverse(s.U)
		reverse(s.V)
	}
	return s, nil
}

// Len returns the number of samples.
func (s Spectrum) Len() int { return len(s.W) }

// Min returns the lowest frequency.
func (s Spectrum) Min() float64 { return s.W[0] }

// Max returns the highest frequency.
func (s Spectrum) Max() float64 { return s.W[len(s.W)-1] }

// Crop returns the samples strictly between low and high. The bounds may be
// given in either order.
func (s Spectrum) Crop(low, high float64) (Spectrum, error) {
	if low > high {
		low, high = high, low
	}

	var w, u, v []float64
	for i, x := range s.W {
		if x > low && x < high {
			w = append(w, x)
			u = append(u, s.U[i])
			v = append(v, s.V[i])
		}
	}
	if len(w) < 2 {
		return Spectrum{}, fmt.Errorf("%w: crop [%v, %v] keeps %d", ErrTooShort, low, high, len(w))
	}
	return Spectrum{W: w, U: u, V: v}, nil
}

// Rotated returns the absorptive and dispersive components for phase theta.
func (s Spectrum) Rotated(theta float64) (V, I []float64) {
	return phase.Rotate(nil, nil, s.U, s.V, theta)
}

// EstimatePhase runs the brute-force baseline-flatness phase scan.
// step <= 0 selects phase.DefaultStep.
func (s Spectrum) EstimatePhase(step float64) (float64, error) {
	return phase.Estimate(s.U, s.V, step)
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
