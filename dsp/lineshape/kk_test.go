package lineshape

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/cwbudde/algo-nmrfit/dsp/core"
	"github.com/cwbudde/algo-nmrfit/internal/testutil"
)

// lorentzDispersion is the closed-form Hilbert image of the unit-area
// Lorentzian scaled by a.
func lorentzDispersion(x, sigma, mu, a float64) float64 {
	g := sigma / 2
	d := x - mu
	return a * d / (math.Pi * (d*d + g*g))
}

func TestDispersionMatchesLorentzianClosedForm(t *testing.T) {
	s := Shape{R: 1, Sigma: 0.01, Mu: 3.4, A: 1.3}
	rule := NewRule(0)
	scale := s.A / (math.Pi * s.Sigma)

	for _, k := range []float64{0, 0.3, -0.7, 2, -5, 20, 300} {
		x := s.Mu + k*s.Sigma
		got := rule.At(x, s)
		want := lorentzDispersion(x, s.Sigma, s.Mu, s.A)
		if math.Abs(got-want) > 1e-4*scale {
			t.Errorf("I(μ%+gσ) = %v, want %v", k, got, want)
		}
	}
}

// dawson returns D(y) = exp(-y²)∫₀^y exp(t²) dt, integrating exp(t²-y²)
// with the steep last unit of the range split off.
func dawson(y float64) float64 {
	if y < 0 {
		return -dawson(-y)
	}
	f := func(t float64) float64 { return math.Exp(t*t - y*y) }
	mid := math.Max(0, y-1)
	return quad.Fixed(f, 0, mid, 128, quad.Legendre{}, 0) + quad.Fixed(f, mid, y, 128, quad.Legendre{}, 0)
}

// gaussDispersion is the closed-form Hilbert image of the unit-area
// Gaussian scaled by a.
func gaussDispersion(x, sigma, mu, a float64) float64 {
	c := sigma / (2 * math.Sqrt(math.Ln2))
	return a * (2 / sigma) * math.Sqrt(math.Ln2/math.Pi) * (2 / math.Sqrt(math.Pi)) * dawson((x-mu)/c)
}

func TestDawson(t *testing.T) {
	testutil.RequireNearlyEqual(t, dawson(0), 0, 1e-15)
	testutil.RequireNearlyEqual(t, dawson(1), 0.5380795069127684, 1e-12)
	testutil.RequireNearlyEqual(t, dawson(-1), -0.5380795069127684, 1e-12)
}

func TestDispersionMatchesGaussianClosedForm(t *testing.T) {
	s := Shape{R: 0, Sigma: 0.02, Mu: 1.7, A: 0.8}
	rule := NewRule(0)
	scale := s.A * (2 / s.Sigma) * math.Sqrt(math.Ln2/math.Pi) * (2 / math.Sqrt(math.Pi))

	for _, k := range []float64{0, 0.3, -0.7, 1, 2.5, -4} {
		x := s.Mu + k*s.Sigma
		got := rule.At(x, s)
		want := gaussDispersion(x, s.Sigma, s.Mu, s.A)
		if math.Abs(got-want) > 1e-6*scale {
			t.Errorf("I(μ%+gσ) = %v, want %v", k, got, want)
		}
	}
}

func TestDispersionIgnoresOffset(t *testing.T) {
	rule := NewRule(32)
	x := core.Linspace(-0.1, 0.1, 41)

	base := Shape{R: 0.5, Sigma: 0.02, Mu: 0.01, A: 1}
	shifted := base
	shifted.YOffset = 5

	a, _ := rule.Dispersion(nil, x, base)
	b, _ := rule.Dispersion(nil, x, shifted)
	testutil.RequireSliceNearlyEqual(t, a, b, 0)
}

func TestGaussianDispersionIsOdd(t *testing.T) {
	s := Shape{R: 0, Sigma: 0.05, Mu: 1, A: 2}
	rule := NewRule(0)
	scale := s.A / s.Sigma

	if v := rule.At(s.Mu, s); math.Abs(v) > 1e-9*scale {
		t.Fatalf("I(μ) = %v, want 0", v)
	}

	for _, d := range []float64{0.01, 0.05, 0.2, 1} {
		left := rule.At(s.Mu-d, s)
		right := rule.At(s.Mu+d, s)
		if math.Abs(left+right) > 1e-9*scale {
			t.Errorf("I(μ-%g) = %v, I(μ+%g) = %v, want opposite", d, left, d, right)
		}
		if right <= 0 {
			t.Errorf("I(μ+%g) = %v, want > 0", d, right)
		}
	}
}

func TestDispersionDegradedWidth(t *testing.T) {
	rule := NewRule(8)
	x := []float64{0, 1, 2}

	out, degraded := rule.Dispersion(nil, x, Shape{R: 1, Sigma: 0, A: 1})
	if degraded != len(x) {
		t.Fatalf("degraded = %d, want %d", degraded, len(x))
	}
	testutil.RequireSliceNearlyEqual(t, out, []float64{0, 0, 0}, 0)

	acc := []float64{1, 1, 1}
	if n := rule.AddDispersion(acc, x, Shape{R: 1, Sigma: -1, A: 1}); n != len(x) {
		t.Fatalf("AddDispersion degraded = %d, want %d", n, len(x))
	}
	testutil.RequireSliceNearlyEqual(t, acc, []float64{1, 1, 1}, 0)
}

func TestAddDispersionAccumulates(t *testing.T) {
	rule := NewRule(0)
	x := core.Linspace(3.2, 3.6, 21)
	s1 := Shape{R: 0.8, Sigma: 0.01, Mu: 3.4, A: 1}
	s2 := Shape{R: 0.8, Sigma: 0.01, Mu: 3.3, A: 0.1}

	acc := make([]float64, len(x))
	rule.AddDispersion(acc, x, s1)
	rule.AddDispersion(acc, x, s2)

	a, _ := rule.Dispersion(nil, x, s1)
	b, _ := rule.Dispersion(nil, x, s2)
	for i := range a {
		a[i] += b[i]
	}
	testutil.RequireSliceNearlyEqual(t, acc, a, 1e-12)
}

func TestHilbertFFTMatchesQuadrature(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		tol   float64
	}{
		{"gaussian", Shape{R: 0, Sigma: 0.02, Mu: 0, A: 1}, 0.01},
		{"lorentzian", Shape{R: 1, Sigma: 0.02, Mu: 0, A: 1}, 0.05},
	}

	rule := NewRule(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := core.Linspace(-50*tt.shape.Sigma, 50*tt.shape.Sigma, 2001)
			v := Voigt(nil, x, tt.shape)

			fast, err := HilbertFFT(nil, v)
			if err != nil {
				t.Fatal(err)
			}
			ref, _ := rule.Dispersion(nil, x, tt.shape)

			peak := 0.0
			for _, r := range ref {
				peak = math.Max(peak, math.Abs(r))
			}
			for i, xi := range x {
				if math.Abs(xi) > 5*tt.shape.Sigma {
					continue
				}
				if math.Abs(fast[i]-ref[i]) > tt.tol*peak {
					t.Fatalf("x=%v: fft %v, quadrature %v", xi, fast[i], ref[i])
				}
			}
		})
	}
}

func TestHilbertFFTEmpty(t *testing.T) {
	if _, err := HilbertFFT(nil, nil); err != ErrEmptyInput {
		t.Fatalf("err = %v, want %v", err, ErrEmptyInput)
	}
}
