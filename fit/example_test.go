package fit_test

import (
	"fmt"

	"github.com/cwbudde/algo-nmrfit/dsp/lineshape"
	"github.com/cwbudde/algo-nmrfit/fit"
)

func ExampleAreaFraction() {
	params := lineshape.Vector(lineshape.Globals{R: 0.5},
		lineshape.Peak{Width: 0.02, Location: 1.0, Area: 9},
		lineshape.Peak{Width: 0.02, Location: 1.2, Area: 1},
	)
	frac, low := fit.AreaFraction(params)
	fmt.Printf("%.2f %v\n", frac, low)
	// Output: 0.10 false
}
