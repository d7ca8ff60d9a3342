package lineshape

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-nmrfit/dsp/core"
)

// ErrEmptyInput is returned when a transform receives no samples.
var ErrEmptyInput = errors.New("lineshape: input is empty")

// HilbertFFT computes the discrete Hilbert transform of v, sampled on a
// uniform axis, and writes it into dst (grown if needed).
//
// The signal is zero padded to a power of two at least twice its length to
// suppress circular wrap-around, transformed, multiplied by -i·sgn(k) and
// transformed back. The sign convention matches [Rule.Dispersion]:
//
//	H[v](x) = (1/π) P∫ v(x') / (x - x') dx'
//
// Constant baselines have no Hilbert image; callers should remove them first.
func HilbertFFT(dst, v []float64) ([]float64, error) {
	n := len(v)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	size := nextPowerOf2(2 * n)

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("lineshape: failed to create FFT plan: %w", err)
	}

	buf := make([]complex128, size)
	for i, x := range v {
		buf[i] = complex(x, 0)
	}

	spec := make([]complex128, size)
	if err := plan.Forward(spec, buf); err != nil {
		return nil, fmt.Errorf("lineshape: forward FFT failed: %w", err)
	}

	half := size / 2
	spec[0] = 0
	spec[half] = 0
	for k := 1; k < half; k++ {
		spec[k] *= complex(0, -1)
		spec[size-k] *= complex(0, 1)
	}

	if err := plan.Inverse(buf, spec); err != nil {
		return nil, fmt.Errorf("lineshape: inverse FFT failed: %w", err)
	}

	dst = core.EnsureLen(dst, n)
	for i := range dst {
		dst[i] = real(buf[i])
	}
	return dst, nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
