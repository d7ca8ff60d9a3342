// Package lineshape evaluates pseudo-Voigt peak profiles and their dispersive
// companions.
//
// A pseudo-Voigt profile is the linear mixture of a Lorentzian and a Gaussian,
// both normalized to unit area and sharing a full width at half maximum σ:
//
//	L(x) = (2/(π·σ)) · 1/(1 + ((x-μ)/(0.5σ))²)
//	G(x) = (2/σ)·sqrt(ln2/π)·exp(-((x-μ)/(σ/(2·sqrt(ln2))))²)
//	V(x) = y_offset + a·(r·L(x) + (1-r)·G(x))
//
// The dispersive part I(x) follows from the Kramers–Kronig relation and is
// evaluated numerically by a [Rule]:
//
//	I(x) = (1/π) ∫₀^∞ (V(x-ω) - V(x+ω)) / ω dω
//
// The difference form removes the singularity at ω = 0 and cancels the
// baseline offset before quadrature. [HilbertFFT] offers a cheaper discrete
// estimate for densely and uniformly sampled curves.
//
// # Parameter vectors
//
// Fits operate on flat parameter vectors laid out as
//
//	[theta, r, y_offset, width_1, loc_1, area_1, width_2, loc_2, area_2, ...]
//
// [ValidateLayout], [SplitGlobals], [ShapeAt] and [Vector] convert between the
// flat layout and [Shape] values.
package lineshape
