package lineshape

import (
	"math"

	"github.com/cwbudde/algo-nmrfit/dsp/core"
)

var (
	ln2         = math.Ln2
	gaussNorm   = math.Sqrt(ln2 / math.Pi)
	gaussHWFact = 2 * math.Sqrt(ln2)
)

// Shape describes one pseudo-Voigt peak together with the global mixing
// ratio and baseline it is evaluated with.
type Shape struct {
	R       float64 // Lorentzian fraction, 0 = pure Gaussian, 1 = pure Lorentzian
	YOffset float64 // baseline offset
	Sigma   float64 // full width at half maximum
	Mu      float64 // center
	A       float64 // area
}

// Lorentzian returns the unit-area Lorentzian with FWHM sigma centered at mu.
func Lorentzian(x, sigma, mu float64) float64 {
	z := (x - mu) / (0.5 * sigma)
	return (2 / (math.Pi * sigma)) / (1 + z*z)
}

// Gaussian returns the unit-area Gaussian with FWHM sigma centered at mu.
func Gaussian(x, sigma, mu float64) float64 {
	z := (x - mu) / (sigma / gaussHWFact)
	return (2 / sigma) * gaussNorm * math.Exp(-z*z)
}

// profile is V(x) without the baseline offset.
func (s Shape) profile(x float64) float64 {
	return s.A * (s.R*Lorentzian(x, s.Sigma, s.Mu) + (1-s.R)*Gaussian(x, s.Sigma, s.Mu))
}

// At evaluates V(x).
func (s Shape) At(x float64) float64 {
	return s.YOffset + s.profile(x)
}

// Voigt evaluates V over the axis x and writes the result into dst, which is
// grown if needed. The written slice is returned.
func Voigt(dst, x []float64, s Shape) []float64 {
	dst = core.EnsureLen(dst, len(x))
	for i, xi := range x {
		dst[i] = s.At(xi)
	}
	return dst
}
