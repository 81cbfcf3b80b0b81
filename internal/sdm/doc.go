// Package sdm provides the execution primitives shared by every
// super-droplet microphysics process.
//
// The package defines the cooperative-worker and randomness building
// blocks that the collision and condensation engines run on:
//
//   - [Team]: a fixed group of workers with fork-join For, Reduce and Single phases
//   - [GenPool]: a pool of independent random generators with scoped checkout
//   - [StepError]: wraps an engine error with the tick and gridbox it occurred in
//
// # Example
//
//	team := sdm.NewTeam(4)
//	gens := sdm.NewGenPool(team.Size(), 42)
//	total, err := team.Reduce(len(drops), func(i int) (float64, error) {
//		return drops[i].Mass(), nil
//	})
//
// # Thread Safety
//
// A Team may be shared by concurrent callers; each call builds its own
// worker group. Generators handed out by a GenPool are exclusively owned
// by the caller until released, and [GenPool.With] guarantees release on
// every exit path.
package sdm
