// Package collisions implements the Monte-Carlo super-droplet collision
// algorithm of Shima et al. 2009, generalised from coalescence to any
// collision outcome.
//
// A [Collisions] value combines three policies:
//
//   - [Kernel]: probability that one pair of real droplets collides in ΔT within volume V
//   - [Outcome]: what a confirmed collision does to the pair ([Coalescence], [Breakup], [Rebound], [CoalBuRe])
//   - the shared [sdm.GenPool] supplying the Monte-Carlo draws
//
// Each call shuffles the ensemble, splits it into consecutive pairs and
// resolves every pair independently. Pairs are index-disjoint, so pairs
// are processed in parallel without locking.
//
// # Example
//
//	colls := collisions.New(1.0, collisions.Golovin{}, collisions.Coalescence{})
//	nnull, err := colls.Collide(team, drops, state.Volume, gens)
//
// # Thread Safety
//
// Kernels, outcomes, fragment models and selectors are immutable values
// and may be shared freely across goroutines.
package collisions
