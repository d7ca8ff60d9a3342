package spectrum

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-nmrfit/dsp/lineshape"
	"github.com/cwbudde/algo-nmrfit/dsp/phase"
)

// ErrDegradedDispersion is returned when the dispersion quadrature of a
// synthetic peak is not finite.
var ErrDegradedDispersion = errors.New("spectrum: dispersion quadrature is not finite")

// SynthOptions controls Synthesize.
type SynthOptions struct {
	NoiseSigma float64 // standard deviation of the noise added to u and v
	Seed       int64
	Nodes      int // quadrature nodes per segment, 0 selects the default
}

// Synthesize builds a spectrum on axis w from a parameter vector: the
// pseudo-Voigt sum and its Kramers–Kronig dispersion are rotated back by theta
// and seeded Gaussian noise is added to both channels. A peak whose
// dispersion cannot be evaluated yields ErrDegradedDispersion.
func Synthesize(w, params []float64, opts SynthOptions) (Spectrum, error) {
	nPeaks, err := lineshape.NumPeaks(len(params))
	if err != nil {
		return Spectrum{}, err
	}

	rule := lineshape.NewRule(opts.Nodes)
	V := make([]float64, len(w))
	I := make([]float64, len(w))
	curve := make([]float64, len(w))
	for i := 0; i < nPeaks; i++ {
		s := lineshape.ShapeAt(params, i)
		if n := rule.AddDispersion(I, w, s); n > 0 {
			return Spectrum{}, fmt.Errorf("%w: peak %d, %d of %d samples", ErrDegradedDispersion, i, n, len(w))
		}
		curve = lineshape.Voigt(curve, w, s)
		vecmath.AddBlockInPlace(V, curve)
	}

	u, v := phase.Unrotate(nil, nil, V, I, params[0])
	if opts.NoiseSigma > 0 {
		rng := rand.New(rand.NewSource(opts.Seed))
		for i := range u {
			u[i] += rng.NormFloat64() * opts.NoiseSigma
			v[i] += rng.NormFloat64() * opts.NoiseSigma
		}
	}
	return New(w, u, v)
}
