// Package spectrum holds the frequency-domain data a fit consumes: the
// sampled spectrum itself, the peaks (regions of interest) selected on it, and
// helpers that derive fit seeds and summary figures from them.
//
// A [Spectrum] is immutable by convention. Every operation that restricts or
// transforms it returns new slices.
//
// # Usage
//
//	s, err := spectrum.New(w, u, v)
//	s, err = s.Crop(3.2, 3.6)
//	theta0, _ := s.EstimatePhase(0)
//	V, _ := s.Rotated(theta0)
//	p, err := spectrum.NewPeak(s.W, V, 3.38, 3.42)
//	lower, upper := spectrum.InitialBounds([]spectrum.Peak{p}, theta0)
package spectrum
