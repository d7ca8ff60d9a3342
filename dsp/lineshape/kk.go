package lineshape

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/cwbudde/algo-nmrfit/dsp/core"
)

const (
	// DefaultNodes is the default number of Gauss–Legendre nodes per segment.
	DefaultNodes = 64

	// featureSpan is the half-width, in units of sigma, of the segments placed
	// around the peak feature of the integrand.
	featureSpan = 8
	segments    = 4
)

// Rule evaluates the Kramers–Kronig dispersion of pseudo-Voigt peaks with a
// piecewise Gauss–Legendre rule.
//
// For an output point x at distance d = |x-μ| from the peak, [0, ∞) is split
// into [0, d-8σ], [d-8σ, d], [d, d+8σ] (empty pieces dropped) and a tail
// mapped onto [0, 1) by ω = b + σ·t/(1-t). The node count per piece controls
// the quadrature tolerance.
//
// A Rule holds read-only tables and is safe for concurrent use.
type Rule struct {
	nodes   []float64 // Legendre locations on [0, 1]
	weights []float64

	tailOffset []float64 // t/(1-t)
	tailJac    []float64 // w/(1-t)²

	scratch sync.Pool
}

type kkScratch struct {
	omega []float64
	wts   []float64
	f     []float64
}

// NewRule returns a Rule with n nodes per segment. n <= 0 selects DefaultNodes.
func NewRule(n int) *Rule {
	if n <= 0 {
		n = DefaultNodes
	}

	r := &Rule{
		nodes:      make([]float64, n),
		weights:    make([]float64, n),
		tailOffset: make([]float64, n),
		tailJac:    make([]float64, n),
	}
	quad.Legendre{}.FixedLocations(r.nodes, r.weights, 0, 1)

	for i, t := range r.nodes {
		u := 1 - t
		r.tailOffset[i] = t / u
		r.tailJac[i] = r.weights[i] / (u * u)
	}

	size := segments * n
	r.scratch.New = func() any {
		return &kkScratch{
			omega: make([]float64, 0, size),
			wts:   make([]float64, 0, size),
			f:     make([]float64, size),
		}
	}
	return r
}

// Nodes returns the number of nodes per segment.
func (r *Rule) Nodes() int { return len(r.nodes) }

// At returns I(x) for a single output point.
func (r *Rule) At(x float64, s Shape) float64 {
	sc := r.scratch.Get().(*kkScratch)
	v := r.at(sc, x, s)
	r.scratch.Put(sc)
	return v
}

// Dispersion writes I(x) for every point of the axis into dst, which is
// grown if needed. Samples whose quadrature is not finite are set to zero and
// counted in degraded.
func (r *Rule) Dispersion(dst, x []float64, s Shape) (out []float64, degraded int) {
	dst = core.EnsureLen(dst, len(x))
	sc := r.scratch.Get().(*kkScratch)
	for i, xi := range x {
		v := r.at(sc, xi, s)
		if !core.IsFinite(v) {
			v = 0
			degraded++
		}
		dst[i] = v
	}
	r.scratch.Put(sc)
	return dst, degraded
}

// AddDispersion accumulates I(x) over the axis into dst, which must have the
// same length as x.
func (r *Rule) AddDispersion(dst, x []float64, s Shape) (degraded int) {
	sc := r.scratch.Get().(*kkScratch)
	for i, xi := range x {
		v := r.at(sc, xi, s)
		if !core.IsFinite(v) {
			degraded++
			continue
		}
		dst[i] += v
	}
	r.scratch.Put(sc)
	return degraded
}

func (r *Rule) at(sc *kkScratch, x float64, s Shape) float64 {
	if !(s.Sigma > 0) {
		return math.NaN()
	}

	d := math.Abs(x - s.Mu)
	span := featureSpan * s.Sigma

	sc.omega = sc.omega[:0]
	sc.wts = sc.wts[:0]

	a := d - span
	if a > 0 {
		r.appendSegment(sc, 0, a)
	} else {
		a = 0
	}
	r.appendSegment(sc, a, d)
	r.appendSegment(sc, d, d+span)

	b := d + span
	for i, off := range r.tailOffset {
		sc.omega = append(sc.omega, b+s.Sigma*off)
		sc.wts = append(sc.wts, s.Sigma*r.tailJac[i])
	}

	f := sc.f[:len(sc.omega)]
	for i, w := range sc.omega {
		f[i] = (s.profile(x-w) - s.profile(x+w)) / w
	}

	return floats.Dot(sc.wts, f) / math.Pi
}

func (r *Rule) appendSegment(sc *kkScratch, lo, hi float64) {
	length := hi - lo
	if length <= 0 {
		return
	}
	for i, t := range r.nodes {
		sc.omega = append(sc.omega, lo+length*t)
		sc.wts = append(sc.wts, length*r.weights[i])
	}
}
