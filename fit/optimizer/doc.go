// Package optimizer minimizes bounded scalar functions with pluggable
// strategies.
//
// A Strategy takes a Problem (cost function, box bounds and an optional
// seed) and returns the best point it found. Three strategies are provided:
//
//   - Swarm: particle swarm optimization with a parallel evaluation pool.
//   - CMAES: covariance matrix adaptation evolution strategy.
//   - Local: derivative-free refinement from a seed point.
//
// TwoStage chains a global strategy with an optional Local stage seeded from
// the global result. The bounded strategies that delegate to gonum search an
// unconstrained space mapped onto the box by x = lo + (hi-lo)(1+sin z)/2.
//
// # Usage
//
//	strategy := optimizer.TwoStage{
//		Global: optimizer.NewSwarm(optimizer.DefaultSwarmConfig()),
//		Local:  optimizer.NewLocal(),
//	}
//	res, err := strategy.Minimize(ctx, optimizer.Problem{
//		Func:  obj.Evaluate,
//		Lower: lower,
//		Upper: upper,
//	})
//
// Functions handed to a parallel strategy must be safe for concurrent use.
package optimizer
