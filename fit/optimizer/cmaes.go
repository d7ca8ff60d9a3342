package optimizer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/optimize"

	"github.com/cwbudde/algo-nmrfit/dsp/core"
)

// CMAES is a global Strategy backed by gonum's CmaEsChol. gonum draws its
// samples from the global generator, so runs are not reproducible.
type CMAES struct {
	Population     int     // 0 selects gonum's default
	InitStepSize   float64 // in the mapped space, 0 selects 0.5
	MaxEvaluations int
	Workers        int // concurrent evaluations, 0 selects DefaultWorkers
	// Converger stops the search early. nil selects DefaultCMAESConverger.
	Converger optimize.Converger
	Logger    *zap.Logger
}

// DefaultCMAESConverger returns the stagnation test used when CMAES.Converger
// is nil.
func DefaultCMAESConverger() optimize.Converger {
	return &optimize.FunctionConverge{Absolute: 1e-12, Iterations: 1000}
}

// NewCMAES returns a CMA-ES strategy with an evaluation budget comparable to
// a default swarm run.
func NewCMAES() *CMAES {
	return &CMAES{MaxEvaluations: 200000}
}

// Minimize searches the whole box starting from the seed or the midpoint.
func (c *CMAES) Minimize(ctx context.Context, p Problem) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if c.MaxEvaluations < 0 || c.Population < 0 || c.Workers < 0 {
		return Result{}, fmt.Errorf("%w: negative CMA-ES setting", ErrInvalidConfig)
	}
	workers := c.Workers
	if workers == 0 {
		workers = DefaultWorkers()
	}

	log := nopIfNil(c.Logger).With(zap.String("stage", "cmaes"))
	started := time.Now()

	start := p.start()
	out := Result{X: start, F: p.Func(start), Evaluations: 1, Stage: "cmaes"}
	box := newBoxMap(p, start, 0)
	if len(box.free) == 0 {
		out.Status = StatusNoFreeParams
		return out, nil
	}

	log.Info("cmaes started", zap.Int("dim", len(box.free)), zap.Int("workers", workers))

	prob := optimize.Problem{
		Func: func(z []float64) float64 { return p.Func(box.toX(z)) },
		Status: func() (optimize.Status, error) {
			if err := ctx.Err(); err != nil {
				return optimize.Failure, err
			}
			return optimize.NotTerminated, nil
		},
	}
	method := &optimize.CmaEsChol{
		Population:   c.Population,
		InitStepSize: c.InitStepSize,
	}
	converger := c.Converger
	if converger == nil {
		converger = DefaultCMAESConverger()
	}
	settings := &optimize.Settings{
		FuncEvaluations: c.MaxEvaluations,
		Concurrent:      workers,
		Converger:       converger,
	}

	res, err := optimize.Minimize(prob, box.toZ(start), settings, method)
	if cerr := ctx.Err(); cerr != nil {
		out.Status = StatusCanceled
		if res != nil && core.IsFinite(res.F) && res.F < out.F {
			out.X, out.F = box.toX(res.X), res.F
		}
		return out, cerr
	}

	switch {
	case res == nil:
		out.Status = fmt.Sprintf("failed: %v", err)
	default:
		out.Iterations = res.MajorIterations
		out.Evaluations += res.FuncEvaluations
		out.Status = res.Status.String()
		if core.IsFinite(res.F) && res.F < out.F {
			out.X, out.F = box.toX(res.X), res.F
		}
	}

	log.Info("cmaes finished",
		zap.Float64("best", out.F),
		zap.Int("evaluations", out.Evaluations),
		zap.String("status", out.Status),
		zap.Duration("elapsed", time.Since(started)),
	)
	return out, nil
}
