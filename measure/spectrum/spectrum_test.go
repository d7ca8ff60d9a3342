package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-nmrfit/internal/testutil"
)

func TestNewReversesDescendingAxis(t *testing.T) {
	s, err := New([]float64{3, 2, 1}, []float64{30, 20, 10}, []float64{-3, -2, -1})
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, s.W, []float64{1, 2, 3}, 0)
	testutil.RequireSliceNearlyEqual(t, s.U, []float64{10, 20, 30}, 0)
	testutil.RequireSliceNearlyEqual(t, s.V, []float64{-1, -2, -3}, 0)
	if s.Min() != 1 || s.Max() != 3 || s.Len() != 3 {
		t.Fatalf("Min/Max/Len = %v/%v/%v", s.Min(), s.Max(), s.Len())
	}
}

func TestNewCopiesInput(t *testing.T) {
	w := []float64{1, 2}
	s, err := New(w, []float64{0, 0}, []float64{0, 0})
	if err != nil {
		t.Fatal(err)
	}
	w[0] = 99
	if s.W[0] != 1 {
		t.Fatal("spectrum shares the caller's axis")
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name    string
		w, u, v []float64
		want    error
	}{
		{"length", []float64{1, 2}, []float64{1}, []float64{1, 2}, ErrLengthMismatch},
		{"short", []float64{1}, []float64{1}, []float64{1}, ErrTooShort},
		{"nan", []float64{1, 2}, []float64{math.NaN(), 0}, []float64{0, 0}, ErrNonFinite},
		{"repeated", []float64{1, 1, 2}, []float64{0, 0, 0}, []float64{0, 0, 0}, ErrNotMonotonic},
		{"zigzag", []float64{1, 3, 2}, []float64{0, 0, 0}, []float64{0, 0, 0}, ErrNotMonotonic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.w, tt.u, tt.v); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCropOpenInterval(t *testing.T) {
	s, _ := New([]float64{1, 2, 3, 4, 5}, []float64{1, 2, 3, 4, 5}, []float64{5, 4, 3, 2, 1})

	// Only w=3 lies strictly inside (2, 4).
	if _, err := s.Crop(4, 2); !errors.Is(err, ErrTooShort) {
		t.Fatalf("err = %v, want %v", err, ErrTooShort)
	}

	c, err := s.Crop(4.5, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, c.W, []float64{2, 3, 4}, 0)
	testutil.RequireSliceNearlyEqual(t, c.V, []float64{4, 3, 2}, 0)

	// The source is untouched.
	if s.Len() != 5 {
		t.Fatalf("source length = %d, want 5", s.Len())
	}
}

func TestRotatedUsesPhase(t *testing.T) {
	s, _ := New([]float64{0, 1}, []float64{1, 0}, []float64{0, 1})
	V, I := s.Rotated(math.Pi / 2)
	testutil.RequireSliceNearlyEqual(t, V, []float64{0, -1}, 1e-15)
	testutil.RequireSliceNearlyEqual(t, I, []float64{1, 0}, 1e-15)
}
