package optimizer

import (
	"math"

	"github.com/cwbudde/algo-nmrfit/dsp/core"
)

// boxMap maps an unconstrained vector z onto the free coordinates of a box:
// x = lo + (hi-lo)(1+sin z)/2. Coordinates outside free keep their base value.
type boxMap struct {
	lo, hi []float64
	base   []float64
	free   []int
}

func newBoxMap(p Problem, base []float64, fixed int) boxMap {
	b := boxMap{lo: p.Lower, hi: p.Upper, base: append([]float64(nil), base...)}
	for j := fixed; j < p.Dim(); j++ {
		if p.Upper[j] > p.Lower[j] {
			b.free = append(b.free, j)
		}
	}
	return b
}

func (b boxMap) toX(z []float64) []float64 {
	x := append([]float64(nil), b.base...)
	for k, j := range b.free {
		x[j] = b.lo[j] + (b.hi[j]-b.lo[j])*(1+math.Sin(z[k]))/2
	}
	return x
}

func (b boxMap) toZ(x []float64) []float64 {
	z := make([]float64, len(b.free))
	for k, j := range b.free {
		t := 2*(x[j]-b.lo[j])/(b.hi[j]-b.lo[j]) - 1
		z[k] = math.Asin(core.Clamp(t, -1, 1))
	}
	return z
}
