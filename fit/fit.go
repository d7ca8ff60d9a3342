package fit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-nmrfit/dsp/lineshape"
	"github.com/cwbudde/algo-nmrfit/dsp/weight"
	"github.com/cwbudde/algo-nmrfit/fit/objective"
	"github.com/cwbudde/algo-nmrfit/fit/optimizer"
	"github.com/cwbudde/algo-nmrfit/measure/spectrum"
)

// Errors returned by Fit before any optimization starts.
var (
	ErrNoPeaks          = errors.New("fit: at least one peak is required")
	ErrBoundsLength     = errors.New("fit: bounds length must be 3 + 3*len(peaks)")
	ErrBoundsOrder      = errors.New("fit: lower bound exceeds upper bound")
	ErrWidthBound       = errors.New("fit: width lower bounds must be positive")
	ErrInitialGuessSize = errors.New("fit: initial guess length differs from bounds")
)

// Validate checks the peak list and bounds against the parameter layout.
func Validate(peaks []spectrum.Peak, lower, upper []float64) error {
	if len(peaks) == 0 {
		return ErrNoPeaks
	}
	for i, p := range peaks {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("fit: peak %d: %w", i, err)
		}
	}

	n := lineshape.VectorLen(len(peaks))
	if len(lower) != n || len(upper) != n {
		return fmt.Errorf("%w: got %d and %d, want %d", ErrBoundsLength, len(lower), len(upper), n)
	}
	for i := range lower {
		if lower[i] > upper[i] {
			return fmt.Errorf("%w: index %d (%v > %v)", ErrBoundsOrder, i, lower[i], upper[i])
		}
	}
	for i := range peaks {
		j := lineshape.GlobalParams + lineshape.PeakParams*i
		if !(lower[j] > 0) {
			return fmt.Errorf("%w: peak %d has %v", ErrWidthBound, i, lower[j])
		}
	}
	return nil
}

// Fit fits len(peaks) pseudo-Voigt peaks to s within the given bounds and
// returns the converged parameters with their derived curves.
func Fit(
	ctx context.Context,
	s spectrum.Spectrum,
	peaks []spectrum.Peak,
	lower, upper []float64,
	opts ...Option,
) (*FitResult, error) {
	if err := Validate(peaks, lower, upper); err != nil {
		return nil, err
	}
	cfg := ApplyOptions(opts...)
	if cfg.InitialGuess != nil && len(cfg.InitialGuess) != len(lower) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrInitialGuessSize, len(cfg.InitialGuess), len(lower))
	}

	obj, err := newObjective(s, peaks, cfg)
	if err != nil {
		return nil, err
	}

	log := cfg.Logger
	started := time.Now()
	log.Info("fit started",
		zap.Int("peaks", len(peaks)),
		zap.Int("samples", s.Len()),
		zap.Stringer("weights", cfg.WeightMode),
		zap.Bool("imaginary", cfg.Imaginary),
	)

	problem := optimizer.Problem{
		Func:  obj.Evaluate,
		Lower: lower,
		Upper: upper,
		Seed:  cfg.InitialGuess,
	}

	var stages []optimizer.Result
	switch st := strategy(cfg).(type) {
	case optimizer.Staged:
		stages, err = st.MinimizeStages(ctx, problem)
	default:
		var r optimizer.Result
		r, err = st.Minimize(ctx, problem)
		if r.X != nil {
			stages = []optimizer.Result{r}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("fit: optimization: %w", err)
	}
	if len(stages) == 0 {
		return nil, errors.New("fit: strategy returned no result")
	}
	best := stages[len(stages)-1]

	res, err := EvaluateResult(best.X, s, opts...)
	if err != nil {
		return nil, err
	}
	res.Error = best.F
	res.Stages = stages
	res.Evaluations = obj.Evaluations()

	log.Info("fit finished",
		zap.Float64("error", res.Error),
		zap.Float64("area_fraction", res.AreaFraction),
		zap.Bool("low_confidence", res.LowConfidence),
		zap.Int64("evaluations", res.Evaluations),
		zap.Duration("elapsed", time.Since(started)),
	)
	return res, nil
}

func newObjective(s spectrum.Spectrum, peaks []spectrum.Peak, cfg Config) (*objective.Objective, error) {
	wc := weight.DefaultConfig()
	wc.Expon = cfg.Expon

	opts := []objective.Option{
		objective.WithWeightConfig(wc),
		objective.WithImaginary(cfg.Imaginary),
		objective.WithNodes(cfg.Nodes),
		objective.WithROIs(spectrum.ROIs(peaks)...),
		objective.WithWeightMode(cfg.WeightMode),
	}
	if cfg.WeightMode == objective.Regions {
		opts = append(opts, objective.WithRegions(cfg.Regions...))
	}
	return objective.New(s, len(peaks), opts...)
}

func strategy(cfg Config) optimizer.Strategy {
	if cfg.Strategy != nil {
		return cfg.Strategy
	}
	swarm := optimizer.NewSwarm(cfg.Swarm)
	swarm.Logger = cfg.Logger

	t := optimizer.GlobalOnly(swarm)
	if cfg.LocalRefinement {
		t.Local = optimizer.NewLocal()
		t.Local.FixGlobals = cfg.FixGlobals
		t.Local.Logger = cfg.Logger
	}
	return t
}
