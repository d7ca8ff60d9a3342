package spectrum

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/cwbudde/algo-nmrfit/dsp/core"
	"github.com/cwbudde/algo-nmrfit/dsp/weight"
)

// Errors returned for peaks.
var (
	ErrDegeneratePeak = errors.New("spectrum: peak region has zero width")
	ErrInvalidPeak    = errors.New("spectrum: peak values must be finite with non-zero height")
	ErrEmptyRegion    = errors.New("spectrum: region holds too few samples")
)

// Peak is a region of interest on a spectrum together with the estimates an
// upstream selection step made for it.
type Peak struct {
	Bounds   [2]float64 // region of interest
	Height   float64
	Location float64
	Width    float64
	Area     float64 // integral of the absorptive signal over Bounds
}

// Validate rejects zero-width regions and unusable estimates.
func (p Peak) Validate() error {
	if p.Bounds[0] == p.Bounds[1] {
		return fmt.Errorf("%w: bounds at %v", ErrDegeneratePeak, p.Bounds[0])
	}
	vals := []float64{p.Bounds[0], p.Bounds[1], p.Height, p.Location, p.Width, p.Area}
	if !core.AllFinite(vals) || p.Height == 0 {
		return fmt.Errorf("%w: %+v", ErrInvalidPeak, p)
	}
	return nil
}

// ROI converts the peak into a weight field region.
func (p Peak) ROI() weight.ROI {
	return weight.ROI{Bounds: p.Bounds, Height: p.Height}
}

// NewPeak measures the absorptive signal V on axis w strictly between low and
// high: height and location of its maximum, the region width, and the area by
// Simpson's rule (trapezoidal for two samples). Width is the full width at
// half maximum of the sampled peak.
func NewPeak(w, V []float64, low, high float64) (Peak, error) {
	if low > high {
		low, high = high, low
	}
	if low == high {
		return Peak{}, fmt.Errorf("%w: bounds at %v", ErrDegeneratePeak, low)
	}

	var xs, ys []float64
	for i, x := range w {
		if x > low && x < high {
			xs = append(xs, x)
			ys = append(ys, V[i])
		}
	}
	if len(xs) < 2 {
		return Peak{}, fmt.Errorf("%w: %d samples in [%v, %v]", ErrEmptyRegion, len(xs), low, high)
	}

	best := 0
	for i, y := range ys {
		if y > ys[best] {
			best = i
		}
	}

	var area float64
	if len(xs) >= 3 {
		area = integrate.Simpsons(xs, ys)
	} else {
		area = integrate.Trapezoidal(xs, ys)
	}

	return Peak{
		Bounds:   [2]float64{low, high},
		Height:   ys[best],
		Location: xs[best],
		Width:    halfMaxWidth(xs, ys, best, high-low),
		Area:     area,
	}, nil
}

// halfMaxWidth estimates the full width at half maximum around ys[best] by
// linear interpolation of the half-height crossings. A missing crossing is
// mirrored from the other side; without any crossing fallback is returned.
func halfMaxWidth(xs, ys []float64, best int, fallback float64) float64 {
	half := ys[best] / 2

	left, right := math.NaN(), math.NaN()
	for i := best; i > 0; i-- {
		if ys[i-1] <= half {
			left = crossing(xs[i-1], ys[i-1], xs[i], ys[i], half)
			break
		}
	}
	for i := best; i < len(ys)-1; i++ {
		if ys[i+1] <= half {
			right = crossing(xs[i], ys[i], xs[i+1], ys[i+1], half)
			break
		}
	}

	switch {
	case !math.IsNaN(left) && !math.IsNaN(right):
		return right - left
	case !math.IsNaN(left):
		return 2 * (xs[best] - left)
	case !math.IsNaN(right):
		return 2 * (right - xs[best])
	default:
		return fallback
	}
}

func crossing(x0, y0, x1, y1, level float64) float64 {
	if y1 == y0 {
		return x0
	}
	return x0 + (level-y0)*(x1-x0)/(y1-y0)
}

// ROIs converts peaks into weight field regions.
func ROIs(peaks []Peak) []weight.ROI {
	out := make([]weight.ROI, len(peaks))
	for i, p := range peaks {
		out[i] = p.ROI()
	}
	return out
}

// Areas returns the area estimate of every peak.
func Areas(peaks []Peak) []float64 {
	out := make([]float64, len(peaks))
	for i, p := range peaks {
		out[i] = p.Area
	}
	return out
}

// Split partitions peaks into major peaks (area at or above the mean) and
// satellites (below the mean), keeping their order.
func Split(peaks []Peak) (major, minor []Peak) {
	if len(peaks) == 0 {
		return nil, nil
	}
	mean := 0.0
	for _, p := range peaks {
		mean += p.Area
	}
	mean /= float64(len(peaks))

	for _, p := range peaks {
		if p.Area >= mean {
			major = append(major, p)
		} else {
			minor = append(minor, p)
		}
	}
	return major, minor
}

// ApproximateAreaFraction is the satellite area fraction of the peak
// estimates themselves, before any fit.
func ApproximateAreaFraction(peaks []Peak) (fraction float64, lowConfidence bool) {
	return AreaFraction(Areas(peaks))
}

// InitialBounds derives optimizer bounds from peak estimates and an initial
// phase estimate theta0. Globals get theta0 ± 0.01, r in [0, 1] and an offset
// in [-0.01, 0.01]. Each peak gets width and area in [0.5, 1.5]× the
// estimate and a location window reaching 10% of the way to each bound.
func InitialBounds(peaks []Peak, theta0 float64) (lower, upper []float64) {
	lower = []float64{theta0 - 0.01, 0, -0.01}
	upper = []float64{theta0 + 0.01, 1, 0.01}

	for _, p := range peaks {
		wLo, wHi := order(0.5*p.Width, 1.5*p.Width)
		lLo, lHi := order(p.Location-0.1*(p.Location-p.Bounds[0]), p.Location-0.1*(p.Location-p.Bounds[1]))
		aLo, aHi := order(0.5*p.Area, 1.5*p.Area)

		lower = append(lower, wLo, lLo, aLo)
		upper = append(upper, wHi, lHi, aHi)
	}
	return lower, upper
}

// Seed returns the parameter vector built from the peak estimates, with the
// given globals.
func Seed(peaks []Peak, theta, r, yOffset float64) []float64 {
	out := []float64{theta, r, yOffset}
	for _, p := range peaks {
		out = append(out, p.Width, p.Location, p.Area)
	}
	return out
}

func order(a, b float64) (float64, float64) {
	return math.Min(a, b), math.Max(a, b)
}
