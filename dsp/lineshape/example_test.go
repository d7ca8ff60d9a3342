package lineshape_test

import (
	"fmt"

	"github.com/cwbudde/algo-nmrfit/dsp/lineshape"
)

func ExampleVector() {
	p := lineshape.Vector(
		lineshape.Globals{Theta: 0, R: 0.5, YOffset: 0},
		lineshape.Peak{Width: 0.01, Location: 3.40, Area: 10},
		lineshape.Peak{Width: 0.01, Location: 3.31, Area: 1},
	)
	n, _ := lineshape.NumPeaks(len(p))
	fmt.Println(len(p), n, lineshape.Areas(p))

	// Output:
	// 9 2 [10 1]
}

func ExampleRule_At() {
	rule := lineshape.NewRule(0)
	s := lineshape.Shape{R: 1, Sigma: 0.02, Mu: 0, A: 1}

	// The dispersion of a Lorentzian peaks half a width from its center.
	fmt.Printf("%.3f %.3f\n", rule.At(-0.01, s), rule.At(0.01, s))

	// Output:
	// -15.915 15.915
}
