package fit

import (
	"go.uber.org/zap"

	"github.com/cwbudde/algo-nmrfit/dsp/core"
	"github.com/cwbudde/algo-nmrfit/dsp/lineshape"
	"github.com/cwbudde/algo-nmrfit/dsp/weight"
	"github.com/cwbudde/algo-nmrfit/fit/objective"
	"github.com/cwbudde/algo-nmrfit/fit/optimizer"
)

// DefaultScale is the default oversampling factor of the result curves.
const DefaultScale = 10.0

// Config holds fit and result settings.
type Config struct {
	Expon           float64
	Imaginary       bool
	WeightMode      objective.WeightMode
	Regions         []weight.Region
	Swarm           optimizer.SwarmConfig
	LocalRefinement bool
	FixGlobals      bool
	Strategy        optimizer.Strategy // overrides Swarm, LocalRefinement and FixGlobals
	Nodes           int
	Logger          *zap.Logger
	InitialGuess    []float64
	Scale           float64
	FFTDispersion   bool
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the default settings: ROI-derived static weights,
// real channel only, swarm without local refinement.
func DefaultConfig() Config {
	return Config{
		Expon:      weight.DefaultConfig().Expon,
		WeightMode: objective.StaticField,
		Swarm:      optimizer.DefaultSwarmConfig(),
		Nodes:      lineshape.DefaultNodes,
		Logger:     zap.NewNop(),
		Scale:      DefaultScale,
	}
}

// ApplyOptions applies opts on top of DefaultConfig.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithExpon sets the weight field exponent. Non-finite values are ignored.
func WithExpon(expon float64) Option {
	return func(cfg *Config) {
		if core.IsFinite(expon) {
			cfg.Expon = expon
		}
	}
}

// WithImaginary enables fitting of the dispersive channel.
func WithImaginary(enabled bool) Option {
	return func(cfg *Config) {
		cfg.Imaginary = enabled
	}
}

// WithWeightMode selects how residuals are weighted.
func WithWeightMode(m objective.WeightMode) Option {
	return func(cfg *Config) {
		cfg.WeightMode = m
	}
}

// WithRegions weights residuals by a declared region list.
func WithRegions(regions ...weight.Region) Option {
	return func(cfg *Config) {
		cfg.Regions = append([]weight.Region(nil), regions...)
		cfg.WeightMode = objective.Regions
	}
}

// WithSwarm replaces the particle swarm settings.
func WithSwarm(sc optimizer.SwarmConfig) Option {
	return func(cfg *Config) {
		cfg.Swarm = sc
	}
}

// WithLocalRefinement adds a local search stage after the swarm.
func WithLocalRefinement(enabled bool) Option {
	return func(cfg *Config) {
		cfg.LocalRefinement = enabled
	}
}

// WithFixGlobals keeps theta, r and y_offset from the swarm result during
// local refinement.
func WithFixGlobals(enabled bool) Option {
	return func(cfg *Config) {
		cfg.FixGlobals = enabled
	}
}

// WithStrategy replaces the default swarm strategy.
func WithStrategy(s optimizer.Strategy) Option {
	return func(cfg *Config) {
		cfg.Strategy = s
	}
}

// WithQuadratureNodes sets the Kramers–Kronig nodes per segment.
// Non-positive values are ignored.
func WithQuadratureNodes(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.Nodes = n
		}
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *Config) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// WithScale sets the result curve oversampling factor. Non-positive values
// are ignored.
func WithScale(scale float64) Option {
	return func(cfg *Config) {
		if scale > 0 && core.IsFinite(scale) {
			cfg.Scale = scale
		}
	}
}

// WithSeed seeds the particle swarm.
func WithSeed(seed int64) Option {
	return func(cfg *Config) {
		cfg.Swarm.Seed = seed
	}
}

// WithInitialGuess places one swarm particle at p and uses it as the local
// seed for strategies that start from one.
func WithInitialGuess(p []float64) Option {
	return func(cfg *Config) {
		cfg.InitialGuess = append([]float64(nil), p...)
	}
}

// WithFFTDispersion derives the result's dispersive curve with an FFT
// Hilbert transform instead of quadrature.
func WithFFTDispersion(enabled bool) Option {
	return func(cfg *Config) {
		cfg.FFTDispersion = enabled
	}
}
