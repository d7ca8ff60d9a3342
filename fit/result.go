package fit

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-nmrfit/dsp/core"
	"github.com/cwbudde/algo-nmrfit/dsp/lineshape"
	"github.com/cwbudde/algo-nmrfit/dsp/phase"
	"github.com/cwbudde/algo-nmrfit/fit/optimizer"
	"github.com/cwbudde/algo-nmrfit/measure/spectrum"
	"github.com/cwbudde/algo-nmrfit/stats/residual"
)

// FitResult holds converged parameters and the curves derived from them.
//
//nolint:revive
type FitResult struct {
	Params        []float64
	Error         float64 // objective value at Params, NaN from EvaluateResult
	AreaFraction  float64
	LowConfidence bool

	W       []float64 // result axis
	VFit    []float64 // absorptive model
	IFit    []float64 // dispersive model
	UFit    []float64 // model rotated back to the raw in-phase channel
	VFitRot []float64 // model rotated back to the raw quadrature channel

	// Residual compares the phased absorptive data with the model on the
	// spectrum's own axis.
	Residual residual.Stats
	// Degraded counts dispersive samples whose quadrature was not finite.
	Degraded int

	Stages      []optimizer.Result
	Evaluations int64
}

// AreaFraction returns the satellite area fraction of a parameter vector:
// areas at or above their mean are major peaks, the rest are minor.
func AreaFraction(params []float64) (fraction float64, lowConfidence bool) {
	return spectrum.AreaFraction(lineshape.Areas(params))
}

// EvaluateResult reconstructs the fitted curves for params on a grid
// oversampled by the configured scale; a scale of 1 reuses the spectrum axis.
func EvaluateResult(params []float64, s spectrum.Spectrum, opts ...Option) (*FitResult, error) {
	nPeaks, err := lineshape.NumPeaks(len(params))
	if err != nil {
		return nil, err
	}
	if s.Len() < 2 {
		return nil, spectrum.ErrTooShort
	}
	cfg := ApplyOptions(opts...)

	var w []float64
	if cfg.Scale == 1 {
		w = core.Clone(s.W)
	} else {
		n := int(cfg.Scale * float64(s.Len()))
		if n < 2 {
			return nil, fmt.Errorf("%w: scale %v gives %d samples", spectrum.ErrTooShort, cfg.Scale, n)
		}
		w = core.Linspace(s.Min(), s.Max(), n)
	}

	res := &FitResult{
		Params: core.Clone(params),
		W:      w,
	}
	res.Error = math.NaN()
	res.AreaFraction, res.LowConfidence = AreaFraction(params)

	res.VFit = model(nil, w, params, nPeaks)
	res.IFit = make([]float64, len(w))
	if cfg.FFTDispersion {
		baseline := float64(nPeaks) * params[2]
		profile := make([]float64, len(w))
		for i, v := range res.VFit {
			profile[i] = v - baseline
		}
		if res.IFit, err = lineshape.HilbertFFT(res.IFit, profile); err != nil {
			return nil, err
		}
	} else {
		rule := lineshape.NewRule(cfg.Nodes)
		for i := 0; i < nPeaks; i++ {
			res.Degraded += rule.AddDispersion(res.IFit, w, lineshape.ShapeAt(params, i))
		}
	}
	res.UFit, res.VFitRot = phase.Unrotate(nil, nil, res.VFit, res.IFit, params[0])

	data := phase.Absorptive(nil, s.U, s.V, params[0])
	onAxis := res.VFit
	if cfg.Scale != 1 {
		onAxis = model(nil, s.W, params, nPeaks)
	}
	if res.Residual, err = residual.Calculate(data, onAxis); err != nil {
		return nil, err
	}

	return res, nil
}

// model sums the absorptive curves of all peaks over w.
func model(dst, w, params []float64, nPeaks int) []float64 {
	dst = core.EnsureLen(dst, len(w))
	core.Zero(dst)
	curve := make([]float64, len(w))
	for i := 0; i < nPeaks; i++ {
		curve = lineshape.Voigt(curve, w, lineshape.ShapeAt(params, i))
		vecmath.AddBlockInPlace(dst, curve)
	}
	return dst
}
