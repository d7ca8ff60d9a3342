package objective

import (
	"fmt"

	"github.com/cwbudde/algo-nmrfit/dsp/core"
	"github.com/cwbudde/algo-nmrfit/dsp/weight"
)

// WeightMode selects how residuals are weighted.
type WeightMode int

const (
	// Unweighted sums plain squared residuals.
	Unweighted WeightMode = iota
	// Regions weights samples by a declared region list.
	Regions
	// StaticField weights samples by a field built once from the ROIs.
	StaticField
	// DynamicField rebuilds the field from the rotated data on every call.
	DynamicField
)

func (m WeightMode) String() string {
	switch m {
	case Unweighted:
		return "unweighted"
	case Regions:
		return "regions"
	case StaticField:
		return "static"
	case DynamicField:
		return "dynamic"
	default:
		return fmt.Sprintf("WeightMode(%d)", int(m))
	}
}

// Config holds objective settings.
type Config struct {
	Mode      WeightMode
	Regions   []weight.Region
	ROIs      []weight.ROI
	Field     weight.Field // explicit static field, built from ROIs when nil
	Weight    weight.Config
	Imaginary bool
	Nodes     int // quadrature nodes per segment for the dispersive channel
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns an unweighted, real-only configuration.
func DefaultConfig() Config {
	return Config{
		Mode:   Unweighted,
		Weight: weight.DefaultConfig(),
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

// WithWeightMode selects the weighting mode.
func WithWeightMode(m WeightMode) Option {
	return func(cfg *Config) {
		cfg.Mode = m
	}
}

// WithRegions declares a weighting region list and selects Regions mode.
func WithRegions(regions ...weight.Region) Option {
	return func(cfg *Config) {
		cfg.Regions = append([]weight.Region(nil), regions...)
		cfg.Mode = Regions
	}
}

// WithROIs sets the regions of interest used by the field modes.
func WithROIs(rois ...weight.ROI) Option {
	return func(cfg *Config) {
		cfg.ROIs = append([]weight.ROI(nil), rois...)
	}
}

// WithField supplies a precomputed field and selects StaticField mode.
func WithField(f weight.Field) Option {
	return func(cfg *Config) {
		cfg.Field = append(weight.Field(nil), f...)
		cfg.Mode = StaticField
	}
}

// WithWeightConfig sets the field builder settings.
func WithWeightConfig(wc weight.Config) Option {
	return func(cfg *Config) {
		cfg.Weight = wc
	}
}

// WithExpon sets the field exponent. Non-finite values are ignored.
func WithExpon(expon float64) Option {
	return func(cfg *Config) {
		if core.IsFinite(expon) {
			cfg.Weight.Expon = expon
		}
	}
}

// WithImaginary enables fitting of the dispersive channel.
func WithImaginary(enabled bool) Option {
	return func(cfg *Config) {
		cfg.Imaginary = enabled
	}
}

// WithNodes sets the quadrature nodes per segment. Non-positive values are ignored.
func WithNodes(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.Nodes = n
		}
	}
}
