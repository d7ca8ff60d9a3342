package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-nmrfit/dsp/core"
)

func ExampleBracket() {
	axis := core.Linspace(3.2, 3.6, 5)
	lo, hi := core.Bracket(axis, [2]float64{3.52, 3.31})
	fmt.Println(lo, hi)

	// Output:
	// 1 3
}

func ExampleEnsureLen() {
	buf := make([]float64, 2, 4)
	buf[0], buf[1] = 1, 2
	buf = core.EnsureLen(buf, 4)
	core.Fill(buf[2:], 3)
	fmt.Println(buf)

	core.Zero(buf[:2])
	fmt.Println(buf)

	// Output:
	// [1 2 3 3]
	// [0 0 3 3]
}
