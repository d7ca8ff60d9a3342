package residual_test

import (
	"fmt"

	"github.com/cwbudde/algo-nmrfit/stats/residual"
)

func ExampleCalculate() {
	s, err := residual.Calculate([]float64{1, 2, 3, 4}, []float64{0, 3, 2, 5})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("rms=%.1f sign changes=%d\n", s.RMS, s.SignChanges)

	// Output:
	// rms=1.0 sign changes=3
}
