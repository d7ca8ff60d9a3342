// Package objective turns a spectrum and a peak count into a scalar cost
// over pseudo-Voigt parameter vectors.
//
// The cost is the (optionally weighted) sum of squared differences between
// the phase-rotated data and the summed lineshape model. With imaginary
// fitting enabled the dispersive channel is fitted as well through the
// Kramers–Kronig transform and the two residuals are averaged.
//
// # Usage
//
//	obj, err := objective.New(s, 2,
//		objective.WithWeightMode(objective.StaticField),
//		objective.WithROIs(spectrum.ROIs(peaks)...),
//	)
//	if err != nil {
//		return err
//	}
//	cost := obj.Evaluate(params)
//
// Evaluate is safe for concurrent use, so the same Objective can be shared by
// parallel optimizer workers.
package objective
