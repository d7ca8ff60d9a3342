// Package fit fits pseudo-Voigt peaks to a phased frequency-domain spectrum.
//
// Fit validates the peak list and parameter bounds, builds the residual
// objective, runs the configured optimization strategy and derives dense
// fitted curves plus the area fraction between major peaks and satellites
// from the converged parameters.
//
// Parameter vectors follow the layout
//
//	[theta, r, y_offset, width_1, loc_1, area_1, width_2, loc_2, area_2, ...]
//
// # Usage
//
//	lower, upper := spectrum.InitialBounds(peaks, theta0)
//	res, err := fit.Fit(ctx, s, peaks, lower, upper,
//		fit.WithLocalRefinement(true),
//		fit.WithLogger(logger),
//	)
//	if err != nil {
//		return err
//	}
//	fmt.Println(res.AreaFraction, res.LowConfidence)
//
// EvaluateResult rebuilds the curves for any parameter vector without
// fitting, which is useful for inspecting a stored fit.
package fit
