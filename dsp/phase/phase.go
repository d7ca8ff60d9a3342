// Package phase rotates raw in-phase/quadrature samples into absorptive and
// dispersive components and back.
//
//	V = u·cosθ - v·sinθ        u = V·cosθ + I·sinθ
//	I = u·sinθ + v·cosθ        v = -V·sinθ + I·cosθ
package phase

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-nmrfit/dsp/core"
)

// DefaultStep is the scan step used by Estimate when step <= 0.
const DefaultStep = math.Pi / 360

// Errors returned by phase functions.
var (
	ErrEmptyInput     = errors.New("phase: input is empty")
	ErrLengthMismatch = errors.New("phase: input lengths differ")
)

// Rotate applies the forward rotation by theta to (u, v). The destinations
// are grown to len(u) if needed and the written slices are returned.
func Rotate(dstV, dstI, u, v []float64, theta float64) (V, I []float64) {
	return Absorptive(dstV, u, v, theta), Dispersive(dstI, u, v, theta)
}

// Absorptive writes only the absorptive component V of the forward rotation.
func Absorptive(dst, u, v []float64, theta float64) []float64 {
	c, s := math.Cos(theta), math.Sin(theta)
	dst = core.EnsureLen(dst, len(u))
	for i := range u {
		dst[i] = u[i]*c - v[i]*s
	}
	return dst
}

// Dispersive writes only the dispersive component I of the forward rotation.
func Dispersive(dst, u, v []float64, theta float64) []float64 {
	c, s := math.Cos(theta), math.Sin(theta)
	dst = core.EnsureLen(dst, len(u))
	for i := range u {
		dst[i] = u[i]*s + v[i]*c
	}
	return dst
}

// Unrotate applies the inverse rotation by theta to (V, I).
func Unrotate(dstU, dstV, V, I []float64, theta float64) (u, v []float64) {
	c, s := math.Cos(theta), math.Sin(theta)

	dstU = core.EnsureLen(dstU, len(V))
	dstV = core.EnsureLen(dstV, len(V))
	for i := range V {
		dstU[i] = V[i]*c + I[i]*s
		dstV[i] = -V[i]*s + I[i]*c
	}

	return dstU, dstV
}

// Estimate scans theta over [-π, π) in increments of step and returns the
// angle whose absorptive component has the flattest baseline, measured as
// (V[0] - V[n-1])². Ties keep the first angle in scan order.
func Estimate(u, v []float64, step float64) (float64, error) {
	if len(u) == 0 {
		return 0, ErrEmptyInput
	}
	if len(u) != len(v) {
		return 0, ErrLengthMismatch
	}
	if step <= 0 {
		step = DefaultStep
	}

	last := len(u) - 1
	best := 0.0
	bestErr := math.Inf(1)

	n := int(math.Ceil(2 * math.Pi / step))
	for k := 0; k < n; k++ {
		theta := -math.Pi + float64(k)*step
		if theta >= math.Pi {
			break
		}

		c, s := math.Cos(theta), math.Sin(theta)
		first := u[0]*c - v[0]*s
		end := u[last]*c - v[last]*s
		e := (first - end) * (first - end)
		if e < bestErr {
			bestErr = e
			best = theta
		}
	}

	return best, nil
}
