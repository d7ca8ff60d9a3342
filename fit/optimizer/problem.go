package optimizer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-nmrfit/dsp/core"
)

// Errors returned by Problem.Validate and the strategies.
var (
	ErrNoFunc         = errors.New("optimizer: cost function is nil")
	ErrEmptyBounds    = errors.New("optimizer: bounds are empty")
	ErrBoundsLength   = errors.New("optimizer: lower and upper bounds differ in length")
	ErrBoundsOrder    = errors.New("optimizer: lower bound exceeds upper bound")
	ErrNonFiniteBound = errors.New("optimizer: bounds must be finite")
	ErrSeedLength     = errors.New("optimizer: seed length differs from bounds")
	ErrInvalidConfig  = errors.New("optimizer: invalid configuration")
)

// Problem is a bounded minimization problem.
type Problem struct {
	Func  func(x []float64) float64
	Lower []float64
	Upper []float64
	Seed  []float64 // optional starting point
}

// Dim returns the number of parameters.
func (p Problem) Dim() int { return len(p.Lower) }

// Validate checks the function and bounds.
func (p Problem) Validate() error {
	if p.Func == nil {
		return ErrNoFunc
	}
	if len(p.Lower) == 0 {
		return ErrEmptyBounds
	}
	if len(p.Lower) != len(p.Upper) {
		return fmt.Errorf("%w: %d vs %d", ErrBoundsLength, len(p.Lower), len(p.Upper))
	}
	for i := range p.Lower {
		if !core.IsFinite(p.Lower[i]) || !core.IsFinite(p.Upper[i]) {
			return fmt.Errorf("%w: index %d", ErrNonFiniteBound, i)
		}
		if p.Lower[i] > p.Upper[i] {
			return fmt.Errorf("%w: index %d (%v > %v)", ErrBoundsOrder, i, p.Lower[i], p.Upper[i])
		}
	}
	if p.Seed != nil && len(p.Seed) != len(p.Lower) {
		return fmt.Errorf("%w: %d vs %d", ErrSeedLength, len(p.Seed), len(p.Lower))
	}
	return nil
}

// start returns the seed clipped into the box, or the box midpoint.
func (p Problem) start() []float64 {
	x := make([]float64, p.Dim())
	for i := range x {
		if p.Seed != nil {
			x[i] = core.Clamp(p.Seed[i], p.Lower[i], p.Upper[i])
		} else {
			x[i] = 0.5 * (p.Lower[i] + p.Upper[i])
		}
	}
	return x
}

func (p Problem) clip(x []float64) {
	for i := range x {
		x[i] = core.Clamp(x[i], p.Lower[i], p.Upper[i])
	}
}

// Result is the outcome of one strategy run.
type Result struct {
	X           []float64
	F           float64
	Iterations  int
	Evaluations int
	Status      string
	Stage       string
}

// Strategy minimizes a Problem.
type Strategy interface {
	Minimize(ctx context.Context, p Problem) (Result, error)
}

// Staged is a Strategy that reports the result of each of its stages; the
// last entry is the overall result.
type Staged interface {
	Strategy
	MinimizeStages(ctx context.Context, p Problem) ([]Result, error)
}

func nopIfNil(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
