package lineshape

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/integrate"

	"github.com/cwbudde/algo-nmrfit/dsp/core"
	"github.com/cwbudde/algo-nmrfit/internal/testutil"
)

func TestHalfMaximumAtHalfWidth(t *testing.T) {
	const sigma, mu = 0.02, 3.4

	tests := []struct {
		name string
		fn   func(x, sigma, mu float64) float64
	}{
		{"lorentzian", Lorentzian},
		{"gaussian", Gaussian},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			peak := tt.fn(mu, sigma, mu)
			left := tt.fn(mu-sigma/2, sigma, mu)
			right := tt.fn(mu+sigma/2, sigma, mu)
			testutil.RequireNearlyEqual(t, left, peak/2, 1e-12)
			testutil.RequireNearlyEqual(t, right, peak/2, 1e-12)
		})
	}

	testutil.RequireNearlyEqual(t, Lorentzian(mu, sigma, mu), 2/(math.Pi*sigma), 1e-12)
	testutil.RequireNearlyEqual(t, Gaussian(mu, sigma, mu), (2/sigma)*math.Sqrt(math.Ln2/math.Pi), 1e-12)
}

func TestPureLorentzianArea(t *testing.T) {
	s := Shape{R: 1, YOffset: 0, Sigma: 0.01, Mu: 0, A: 2.5}

	// ±1000 FWHM leaves ~3e-4 of the Lorentzian mass outside the window.
	x := core.Linspace(-1000*s.Sigma, 1000*s.Sigma, 80001)
	area := integrate.Trapezoidal(x, Voigt(nil, x, s))

	if math.Abs(area-s.A)/s.A > 1e-3 {
		t.Fatalf("area = %v, want ≈ %v", area, s.A)
	}
}

func TestPureGaussianArea(t *testing.T) {
	s := Shape{R: 0, YOffset: 0, Sigma: 0.03, Mu: 1.2, A: 0.7}

	x := core.Linspace(s.Mu-10*s.Sigma, s.Mu+10*s.Sigma, 4001)
	area := integrate.Trapezoidal(x, Voigt(nil, x, s))

	if math.Abs(area-s.A)/s.A > 1e-6 {
		t.Fatalf("area = %v, want ≈ %v", area, s.A)
	}
}

func TestVoigtMixAndOffset(t *testing.T) {
	s := Shape{R: 0.3, YOffset: 0.01, Sigma: 0.05, Mu: 0.5, A: 1.5}
	x := []float64{0.4, 0.5, 0.62}

	got := Voigt(make([]float64, 1), x, s)
	if len(got) != len(x) {
		t.Fatalf("len = %d, want %d", len(got), len(x))
	}

	for i, xi := range x {
		want := s.YOffset + s.A*(s.R*Lorentzian(xi, s.Sigma, s.Mu)+(1-s.R)*Gaussian(xi, s.Sigma, s.Mu))
		testutil.RequireNearlyEqual(t, got[i], want, 1e-14)
	}
}

func TestParameterLayout(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
		peaks   int
	}{
		{3, false, 0},
		{6, false, 1},
		{21, false, 6},
		{2, true, 0},
		{7, true, 0},
	}

	for _, tt := range tests {
		got, err := NumPeaks(tt.n)
		if (err != nil) != tt.wantErr {
			t.Fatalf("NumPeaks(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err == nil && got != tt.peaks {
			t.Fatalf("NumPeaks(%d) = %d, want %d", tt.n, got, tt.peaks)
		}
	}
}

func TestVectorRoundTrip(t *testing.T) {
	g := Globals{Theta: 0.1, R: 0.4, YOffset: -0.002}
	p := Vector(g,
		Peak{Width: 0.01, Location: 3.4, Area: 10},
		Peak{Width: 0.02, Location: 3.3, Area: 1},
	)

	if len(p) != VectorLen(2) {
		t.Fatalf("len = %d, want %d", len(p), VectorLen(2))
	}
	if SplitGlobals(p) != g {
		t.Fatalf("globals = %+v, want %+v", SplitGlobals(p), g)
	}

	s := ShapeAt(p, 1)
	want := Shape{R: 0.4, YOffset: -0.002, Sigma: 0.02, Mu: 3.3, A: 1}
	if s != want {
		t.Fatalf("ShapeAt = %+v, want %+v", s, want)
	}

	testutil.RequireSliceNearlyEqual(t, Areas(p), []float64{10, 1}, 0)
}
