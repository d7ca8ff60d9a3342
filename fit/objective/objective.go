package objective

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-nmrfit/dsp/core"
	"github.com/cwbudde/algo-nmrfit/dsp/lineshape"
	"github.com/cwbudde/algo-nmrfit/dsp/phase"
	"github.com/cwbudde/algo-nmrfit/dsp/weight"
	"github.com/cwbudde/algo-nmrfit/measure/spectrum"
)

// Degraded is returned in place of non-finite costs and for parameter
// vectors of the wrong length, so that optimizers keep running.
const Degraded = 1e300

// Errors returned by New.
var (
	ErrNoPeaks      = errors.New("objective: at least one peak is required")
	ErrNoRegions    = errors.New("objective: region weighting needs at least one region")
	ErrNoROIs       = errors.New("objective: field weighting needs regions of interest")
	ErrFieldLength  = errors.New("objective: field length differs from spectrum length")
	ErrInvalidField = errors.New("objective: field must be finite and non-negative")
	ErrUnknownMode  = errors.New("objective: unknown weight mode")
)

// Objective evaluates the residual cost of parameter vectors against one
// spectrum.
type Objective struct {
	w, u, v []float64
	nPeaks  int
	cfg     Config
	rule    *lineshape.Rule
	weights weight.Field // nil when unweighted or dynamic
	evals   atomic.Int64
	scratch sync.Pool
}

type buffers struct {
	data  []float64
	fit   []float64
	curve []float64
	diff  []float64
}

// New prepares an objective over s for vectors holding nPeaks peaks.
func New(s spectrum.Spectrum, nPeaks int, opts ...Option) (*Objective, error) {
	if nPeaks < 1 {
		return nil, ErrNoPeaks
	}
	if s.Len() == 0 {
		return nil, weight.ErrEmptyAxis
	}

	cfg := ApplyOptions(opts...)
	o := &Objective{
		w:      s.W,
		u:      s.U,
		v:      s.V,
		nPeaks: nPeaks,
		cfg:    cfg,
	}

	switch cfg.Mode {
	case Unweighted:
	case Regions:
		if len(cfg.Regions) == 0 {
			return nil, ErrNoRegions
		}
		if err := weight.ValidateRegions(cfg.Regions); err != nil {
			return nil, err
		}
		o.weights = weight.Expand(s.W, cfg.Regions)
	case StaticField:
		f, err := staticField(s, cfg)
		if err != nil {
			return nil, err
		}
		o.weights = f
	case DynamicField:
		if len(cfg.ROIs) == 0 {
			return nil, ErrNoROIs
		}
		// Heights are measured per call; unit heights check bounds and settings.
		probe := make([]weight.ROI, len(cfg.ROIs))
		for i, r := range cfg.ROIs {
			probe[i] = weight.ROI{Bounds: r.Bounds, Height: 1}
		}
		if _, err := weight.Build(s.W, probe, cfg.Weight); err != nil {
			return nil, fmt.Errorf("objective: dynamic field: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMode, cfg.Mode)
	}

	if cfg.Imaginary {
		o.rule = lineshape.NewRule(cfg.Nodes)
	}

	n := s.Len()
	o.scratch.New = func() any {
		return &buffers{
			data:  make([]float64, n),
			fit:   make([]float64, n),
			curve: make([]float64, n),
			diff:  make([]float64, n),
		}
	}
	return o, nil
}

func staticField(s spectrum.Spectrum, cfg Config) (weight.Field, error) {
	if cfg.Field != nil {
		if len(cfg.Field) != s.Len() {
			return nil, fmt.Errorf("%w: %d vs %d", ErrFieldLength, len(cfg.Field), s.Len())
		}
		for i, x := range cfg.Field {
			if x < 0 || !core.IsFinite(x) {
				return nil, fmt.Errorf("%w: index %d is %v", ErrInvalidField, i, x)
			}
		}
		return cfg.Field, nil
	}
	if len(cfg.ROIs) == 0 {
		return nil, ErrNoROIs
	}
	return weight.Build(s.W, cfg.ROIs, cfg.Weight)
}

// NumPeaks returns the number of peaks the objective expects.
func (o *Objective) NumPeaks() int { return o.nPeaks }

// Dim returns the expected parameter vector length.
func (o *Objective) Dim() int { return lineshape.VectorLen(o.nPeaks) }

// Mode returns the active weighting mode.
func (o *Objective) Mode() WeightMode { return o.cfg.Mode }

// Evaluations returns how many times Evaluate has been called.
func (o *Objective) Evaluations() int64 { return o.evals.Load() }

// Weights returns a copy of the fixed per-sample weights, or nil when the
// objective is unweighted or rebuilds its field on every call.
func (o *Objective) Weights() weight.Field {
	if o.weights == nil {
		return nil
	}
	return append(weight.Field(nil), o.weights...)
}

// Evaluate returns the non-negative cost of params.
func (o *Objective) Evaluate(params []float64) float64 {
	o.evals.Add(1)
	if len(params) != o.Dim() {
		return Degraded
	}

	b := o.scratch.Get().(*buffers)
	defer o.scratch.Put(b)

	theta := params[0]
	b.data = phase.Absorptive(b.data, o.u, o.v, theta)

	core.Zero(b.fit)
	for i := 0; i < o.nPeaks; i++ {
		b.curve = lineshape.Voigt(b.curve, o.w, lineshape.ShapeAt(params, i))
		vecmath.AddBlockInPlace(b.fit, b.curve)
	}

	weights := o.weights
	if o.cfg.Mode == DynamicField {
		f, err := weight.Dynamic(o.w, b.data, o.cfg.ROIs, o.cfg.Weight)
		if err != nil {
			return Degraded
		}
		weights = f
	}

	cost := o.residual(b, weights)
	if o.cfg.Imaginary {
		b.data = phase.Dispersive(b.data, o.u, o.v, theta)
		core.Zero(b.fit)
		for i := 0; i < o.nPeaks; i++ {
			o.rule.AddDispersion(b.fit, o.w, lineshape.ShapeAt(params, i))
		}
		cost = 0.5 * (cost + o.residual(b, weights))
	}

	if !core.IsFinite(cost) || cost < 0 {
		return Degraded
	}
	return cost
}

// residual returns Σ weights·(data−fit)², or the plain sum when weights is nil.
func (o *Objective) residual(b *buffers, weights []float64) float64 {
	floats.SubTo(b.diff, b.data, b.fit)
	if weights == nil {
		return floats.Dot(b.diff, b.diff)
	}
	var sum float64
	for i, d := range b.diff {
		sum += weights[i] * d * d
	}
	return sum
}
