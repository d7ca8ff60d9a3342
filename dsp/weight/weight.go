package weight

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-nmrfit/dsp/core"
)

// Errors returned by weight functions.
var (
	ErrEmptyAxis      = errors.New("weight: frequency axis is empty")
	ErrNoROIs         = errors.New("weight: no regions of interest")
	ErrZeroHeight     = errors.New("weight: region height must be non-zero")
	ErrDegenerateROI  = errors.New("weight: region bounds must not coincide")
	ErrInvalidConfig  = errors.New("weight: invalid configuration")
	ErrLengthMismatch = errors.New("weight: signal and axis lengths differ")
)

// ROI is a region of interest together with the height of the peak it holds.
type ROI struct {
	Bounds [2]float64
	Height float64
}

// Config controls how a field is built.
type Config struct {
	Expon         float64 // exponent applied to maxHeight/height
	Default       float64 // weight outside every region
	Iterations    int     // relaxation passes
	Omega         float64 // mixing factor per pass
	SkipSmoothing bool
}

// DefaultConfig returns the standard field settings.
func DefaultConfig() Config {
	return Config{
		Expon:      0.5,
		Default:    0.1,
		Iterations: 10,
		Omega:      1.0 / 3,
	}
}

// Validate checks that the configuration can produce a non-negative field.
func (c Config) Validate() error {
	if math.IsNaN(c.Expon) || math.IsInf(c.Expon, 0) {
		return fmt.Errorf("%w: expon %v", ErrInvalidConfig, c.Expon)
	}
	if c.Default < 0 || !core.IsFinite(c.Default) {
		return fmt.Errorf("%w: default weight %v", ErrInvalidConfig, c.Default)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations %d", ErrInvalidConfig, c.Iterations)
	}
	if c.Omega < 0 || c.Omega > 1 {
		return fmt.Errorf("%w: omega %v outside [0, 1]", ErrInvalidConfig, c.Omega)
	}
	return nil
}

// Field is a dense array of non-negative per-sample weights.
type Field []float64

// Build creates the weight field for the axis w. Each ROI is mapped to the
// inclusive index range between the samples nearest to its bounds; later
// regions overwrite earlier ones where they overlap.
func Build(w []float64, rois []ROI, cfg Config) (Field, error) {
	if len(w) == 0 {
		return nil, ErrEmptyAxis
	}
	if len(rois) == 0 {
		return nil, ErrNoROIs
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	biggest := 0.0
	for i, r := range rois {
		if r.Bounds[0] == r.Bounds[1] {
			return nil, fmt.Errorf("%w: roi %d at %v", ErrDegenerateROI, i, r.Bounds[0])
		}
		h := math.Abs(r.Height)
		if h == 0 || !core.IsFinite(h) {
			return nil, fmt.Errorf("%w: roi %d", ErrZeroHeight, i)
		}
		biggest = math.Max(biggest, h)
	}

	field := make(Field, len(w))
	core.Fill(field, cfg.Default)

	for _, r := range rois {
		lo, hi := core.Bracket(w, r.Bounds)
		value := math.Pow(biggest/math.Abs(r.Height), cfg.Expon)
		core.Fill(field[lo:hi+1], value)
	}

	if !cfg.SkipSmoothing {
		Smooth(field, cfg.Iterations, cfg.Omega)
	}
	return field, nil
}

// Dynamic builds a field whose region heights are measured from the
// absorptive signal V: each ROI takes the largest |V| inside its index range.
func Dynamic(w, V []float64, rois []ROI, cfg Config) (Field, error) {
	if len(w) == 0 {
		return nil, ErrEmptyAxis
	}
	if len(V) != len(w) {
		return nil, ErrLengthMismatch
	}

	measured := make([]ROI, len(rois))
	for i, r := range rois {
		lo, hi := core.Bracket(w, r.Bounds)
		h := 0.0
		for _, x := range V[lo : hi+1] {
			h = math.Max(h, math.Abs(x))
		}
		measured[i] = ROI{Bounds: r.Bounds, Height: h}
	}
	return Build(w, measured, cfg)
}

// Smooth applies iterations passes of discrete Laplacian relaxation to f in
// place. Endpoints stay fixed.
func Smooth(f []float64, iterations int, omega float64) {
	n := len(f)
	if n < 3 || iterations <= 0 || omega == 0 {
		return
	}

	prev := make([]float64, n)
	for it := 0; it < iterations; it++ {
		copy(prev, f)
		for i := 1; i < n-1; i++ {
			f[i] = (1-omega)*prev[i] + omega*0.5*(prev[i-1]+prev[i+1])
		}
	}
}
