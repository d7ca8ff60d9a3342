package optimizer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"

	"github.com/cwbudde/algo-nmrfit/dsp/core"
	"github.com/cwbudde/algo-nmrfit/dsp/lineshape"
)

// LocalMethod selects the gonum method used for refinement.
type LocalMethod int

const (
	MethodNelderMead LocalMethod = iota
	MethodLBFGS
	MethodBFGS
)

func (m LocalMethod) String() string {
	switch m {
	case MethodNelderMead:
		return "nelder-mead"
	case MethodLBFGS:
		return "lbfgs"
	case MethodBFGS:
		return "bfgs"
	default:
		return fmt.Sprintf("LocalMethod(%d)", int(m))
	}
}

// gonumMethod returns the method and whether it needs a gradient, which is
// then estimated by finite differences.
func (m LocalMethod) gonumMethod() (optimize.Method, bool) {
	switch m {
	case MethodLBFGS:
		return &optimize.LBFGS{}, true
	case MethodBFGS:
		return &optimize.BFGS{}, true
	default:
		return &optimize.NelderMead{}, false
	}
}

// Local status values.
const (
	StatusNoImprovement = "no improvement over seed"
	StatusNoFreeParams  = "no free parameters"
)

// Local refines a seed point with a bounded local search. It never returns
// a point with a higher cost than its seed.
type Local struct {
	Method         LocalMethod
	MaxEvaluations int // 0 means unlimited
	MaxIterations  int // 0 means unlimited
	// FixGlobals holds the leading theta, r and y_offset parameters at their
	// seed values and refines only the peak parameters.
	FixGlobals bool
	Logger     *zap.Logger
}

// NewLocal returns a Nelder–Mead refinement stage.
func NewLocal() *Local {
	return &Local{Method: MethodNelderMead, MaxEvaluations: 20000}
}

// Minimize refines from Problem.Seed, or from the box midpoint when no seed
// is given.
func (l *Local) Minimize(ctx context.Context, p Problem) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if l.MaxEvaluations < 0 || l.MaxIterations < 0 {
		return Result{}, fmt.Errorf("%w: negative local budget", ErrInvalidConfig)
	}

	log := nopIfNil(l.Logger).With(zap.String("stage", "local"), zap.Stringer("method", l.Method))
	started := time.Now()

	seed := p.start()
	out := Result{X: seed, F: p.Func(seed), Evaluations: 1, Stage: "local"}

	fixed := 0
	if l.FixGlobals {
		fixed = lineshape.GlobalParams
	}
	box := newBoxMap(p, seed, fixed)
	if len(box.free) == 0 {
		out.Status = StatusNoFreeParams
		return out, nil
	}

	log.Info("local refinement started", zap.Int("free", len(box.free)), zap.Float64("seed_cost", out.F))

	method, needsGrad := l.Method.gonumMethod()
	prob := optimize.Problem{
		Func: func(z []float64) float64 { return p.Func(box.toX(z)) },
		Status: func() (optimize.Status, error) {
			if err := ctx.Err(); err != nil {
				return optimize.Failure, err
			}
			return optimize.NotTerminated, nil
		},
	}
	if needsGrad {
		prob.Grad = func(grad, z []float64) {
			fd.Gradient(grad, prob.Func, z, nil)
		}
	}

	settings := &optimize.Settings{
		FuncEvaluations: l.MaxEvaluations,
		MajorIterations: l.MaxIterations,
	}
	res, err := optimize.Minimize(prob, box.toZ(seed), settings, method)
	if cerr := ctx.Err(); cerr != nil {
		out.Status = StatusCanceled
		return out, cerr
	}

	if res != nil {
		out.Iterations = res.MajorIterations
		out.Evaluations += res.FuncEvaluations
	}
	switch {
	case res == nil:
		out.Status = fmt.Sprintf("failed: %v", err)
	case core.IsFinite(res.F) && res.F < out.F:
		out.X = box.toX(res.X)
		out.F = res.F
		out.Status = res.Status.String()
		if err != nil {
			out.Status += ": " + err.Error()
		}
	default:
		out.Status = StatusNoImprovement
	}

	log.Info("local refinement finished",
		zap.Float64("best", out.F),
		zap.Int("iterations", out.Iterations),
		zap.Int("evaluations", out.Evaluations),
		zap.String("status", out.Status),
		zap.Duration("elapsed", time.Since(started)),
	)
	return out, nil
}
