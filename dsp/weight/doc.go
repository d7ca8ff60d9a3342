// Package weight builds per-sample error weights for peak fitting.
//
// A weight field starts at a default value (0.1) and is raised inside each
// region of interest to (maxHeight/height)^expon, so small satellite peaks
// count as much as the dominant peaks. A few relaxation passes of a discrete
// Laplacian then soften the steps at region edges:
//
//	x[i] ← (1-ω)·x[i] + ω·(x[i-1] + x[i+1])/2
//
// # Usage
//
//	field, err := weight.Build(w, []weight.ROI{
//	    {Bounds: [2]float64{3.38, 3.42}, Height: 1.0},
//	    {Bounds: [2]float64{3.30, 3.32}, Height: 0.01},
//	}, weight.DefaultConfig())
//
// [Dynamic] rebuilds the field from the heights of an already rotated
// absorptive signal. [Region] lists express the coarser "all" / interval
// weighting used by the objective function.
package weight
