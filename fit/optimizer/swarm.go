package optimizer

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// Swarm termination reasons reported in Result.Status.
const (
	StatusMaxIter  = "maximum iterations reached"
	StatusMinFunc  = "swarm best objective change below MinFunc"
	StatusMinStep  = "swarm best position change below MinStep"
	StatusCanceled = "canceled"
)

// SwarmConfig configures particle swarm optimization.
type SwarmConfig struct {
	SwarmSize int
	MaxIter   int
	Omega     float64 // velocity inertia
	PhiP      float64 // pull towards the particle's own best
	PhiG      float64 // pull towards the swarm best
	MinStep   float64
	MinFunc   float64
	Workers   int // parallel evaluations, 0 selects DefaultWorkers
	Seed      int64
}

// DefaultSwarmConfig returns coefficients tuned for pseudo-Voigt fitting.
func DefaultSwarmConfig() SwarmConfig {
	return SwarmConfig{
		SwarmSize: 204,
		MaxIter:   2000,
		Omega:     -0.2134,
		PhiP:      -0.3344,
		PhiG:      2.3259,
		MinStep:   1e-8,
		MinFunc:   1e-8,
	}
}

// Validate checks the swarm configuration.
func (c SwarmConfig) Validate() error {
	if c.SwarmSize < 1 {
		return fmt.Errorf("%w: swarm size %d", ErrInvalidConfig, c.SwarmSize)
	}
	if c.MaxIter < 1 {
		return fmt.Errorf("%w: max iterations %d", ErrInvalidConfig, c.MaxIter)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	}
	for _, x := range []float64{c.Omega, c.PhiP, c.PhiG, c.MinStep, c.MinFunc} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: non-finite coefficient %v", ErrInvalidConfig, x)
		}
	}
	return nil
}

// Swarm is a particle swarm Strategy. Particle positions and velocities are
// drawn from a generator seeded by Config.Seed, so results do not depend on
// the number of workers.
type Swarm struct {
	Config SwarmConfig
	Logger *zap.Logger
}

// NewSwarm returns a swarm strategy with the given configuration.
func NewSwarm(cfg SwarmConfig) *Swarm {
	return &Swarm{Config: cfg}
}

// Minimize runs the swarm until MaxIter or a stagnation criterion. It
// returns the best point found; on cancellation that point is returned
// together with the context error.
func (s *Swarm) Minimize(ctx context.Context, p Problem) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	cfg := s.Config
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	workers := cfg.Workers
	if workers == 0 {
		workers = DefaultWorkers()
	}

	log := nopIfNil(s.Logger).With(zap.String("stage", "swarm"))
	started := time.Now()
	log.Info("swarm started",
		zap.Int("dim", p.Dim()),
		zap.Int("swarm_size", cfg.SwarmSize),
		zap.Int("max_iter", cfg.MaxIter),
		zap.Int("workers", workers),
	)

	n, d := cfg.SwarmSize, p.Dim()
	rng := rand.New(rand.NewSource(cfg.Seed))

	x := make([][]float64, n)
	v := make([][]float64, n)
	for i := range x {
		x[i] = make([]float64, d)
		v[i] = make([]float64, d)
		for j := 0; j < d; j++ {
			span := p.Upper[j] - p.Lower[j]
			x[i][j] = p.Lower[j] + rng.Float64()*span
			v[i][j] = -math.Abs(span) + rng.Float64()*2*math.Abs(span)
		}
	}
	if p.Seed != nil {
		x[0] = p.start()
	}

	pool := newEvalPool(p.Func, workers)
	defer pool.stop()

	fx := make([]float64, n)
	pool.evaluate(x, fx)
	evals := n

	best := make([][]float64, n)
	for i := range best {
		best[i] = append([]float64(nil), x[i]...)
	}
	fp := append([]float64(nil), fx...)

	gi := floats.MinIdx(fp)
	g := append([]float64(nil), best[gi]...)
	fg := fp[gi]

	res := func(iter int, status string) Result {
		return Result{
			X:           append([]float64(nil), g...),
			F:           fg,
			Iterations:  iter,
			Evaluations: evals,
			Status:      status,
			Stage:       "swarm",
		}
	}

	status := StatusMaxIter
	iter := 0
	for iter < cfg.MaxIter {
		if err := ctx.Err(); err != nil {
			log.Warn("swarm canceled", zap.Int("iteration", iter), zap.Error(err))
			return res(iter, StatusCanceled), err
		}
		iter++

		for i := range x {
			for j := 0; j < d; j++ {
				rp, rg := rng.Float64(), rng.Float64()
				v[i][j] = cfg.Omega*v[i][j] +
					cfg.PhiP*rp*(best[i][j]-x[i][j]) +
					cfg.PhiG*rg*(g[j]-x[i][j])
				x[i][j] += v[i][j]
			}
			p.clip(x[i])
		}

		pool.evaluate(x, fx)
		evals += n

		for i := range x {
			if fx[i] < fp[i] {
				copy(best[i], x[i])
				fp[i] = fx[i]
			}
		}

		stop := false
		if im := floats.MinIdx(fp); fp[im] < fg {
			step := floats.Distance(g, best[im], 2)
			change := math.Abs(fg - fp[im])
			copy(g, best[im])
			fg = fp[im]
			switch {
			case change <= cfg.MinFunc:
				status, stop = StatusMinFunc, true
			case step <= cfg.MinStep:
				status, stop = StatusMinStep, true
			}
		}

		log.Debug("swarm iteration", zap.Int("iteration", iter), zap.Float64("best", fg))
		if stop {
			break
		}
	}

	log.Info("swarm finished",
		zap.Float64("best", fg),
		zap.Int("iterations", iter),
		zap.Int("evaluations", evals),
		zap.String("status", status),
		zap.Duration("elapsed", time.Since(started)),
	)
	return res(iter, status), nil
}
