package lineshape

import (
	"errors"
	"fmt"
)

const (
	// GlobalParams is the number of parameters shared by all peaks (theta, r, y_offset).
	GlobalParams = 3
	// PeakParams is the number of parameters per peak (width, location, area).
	PeakParams = 3
)

// ErrLayout is returned for parameter vectors that do not follow the
// [theta, r, y_offset, (width, loc, area)...] layout.
var ErrLayout = errors.New("lineshape: parameter vector length must be 3 + 3*n")

// Globals holds the parameters shared across peaks.
type Globals struct {
	Theta   float64
	R       float64
	YOffset float64
}

// Peak holds the per-peak parameter triple.
type Peak struct {
	Width    float64
	Location float64
	Area     float64
}

// ValidateLayout checks that a vector of length n holds the globals followed
// by whole peak triples.
func ValidateLayout(n int) error {
	if n < GlobalParams || (n-GlobalParams)%PeakParams != 0 {
		return fmt.Errorf("%w: got %d", ErrLayout, n)
	}
	return nil
}

// NumPeaks returns the number of peak triples in a vector of length n.
func NumPeaks(n int) (int, error) {
	if err := ValidateLayout(n); err != nil {
		return 0, err
	}
	return (n - GlobalParams) / PeakParams, nil
}

// VectorLen returns the parameter vector length for nPeaks peaks.
func VectorLen(nPeaks int) int {
	return GlobalParams + PeakParams*nPeaks
}

// SplitGlobals returns the global parameters of p. p must hold at least three values.
func SplitGlobals(p []float64) Globals {
	return Globals{Theta: p[0], R: p[1], YOffset: p[2]}
}

// PeakAt returns the i-th peak triple of p.
func PeakAt(p []float64, i int) Peak {
	off := GlobalParams + PeakParams*i
	return Peak{Width: p[off], Location: p[off+1], Area: p[off+2]}
}

// ShapeAt combines the globals with the i-th peak triple of p.
func ShapeAt(p []float64, i int) Shape {
	g := SplitGlobals(p)
	pk := PeakAt(p, i)
	return Shape{R: g.R, YOffset: g.YOffset, Sigma: pk.Width, Mu: pk.Location, A: pk.Area}
}

// Areas returns the area slot of every peak in p (indices 5, 8, 11, ...).
func Areas(p []float64) []float64 {
	n := (len(p) - GlobalParams) / PeakParams
	out := make([]float64, 0, n)
	for i := GlobalParams + 2; i < len(p); i += PeakParams {
		out = append(out, p[i])
	}
	return out
}

// Vector packs globals and peaks into the flat parameter layout.
func Vector(g Globals, peaks ...Peak) []float64 {
	out := make([]float64, 0, VectorLen(len(peaks)))
	out = append(out, g.Theta, g.R, g.YOffset)
	for _, pk := range peaks {
		out = append(out, pk.Width, pk.Location, pk.Area)
	}
	return out
}
