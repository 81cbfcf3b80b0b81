package collisions

import (
	"math"

	"github.com/san-kum/sdmsim/internal/superdrop"
	"github.com/san-kum/sdmsim/internal/terminalv"
)

// Fragments returns the mean number of fragments per real droplet pair
// produced by a breakup of drop1 and drop2.
type Fragments interface {
	NFrags(drop1, drop2 *superdrop.Superdrop) float64
}

// ConstNFrags always produces N fragments.
type ConstNFrags struct {
	N float64
}

func (c ConstNFrags) NFrags(_, _ *superdrop.Superdrop) float64 { return c.N }

// CollisionKineticEnergyNFrags parameterises the total number of outcomes
// from Schlottke et al. 2010 (figure 13) with collision kinetic energy in
// micro-Joules. The energy is capped below the divergence of the fit so
// nfrags stays under 25, and 11/6 is added so nfrags tends to 2.5 rather
// than 2/3 as the energy vanishes.
type CollisionKineticEnergyNFrags struct{}

func (CollisionKineticEnergyNFrags) NFrags(drop1, drop2 *superdrop.Superdrop) float64 {
	const (
		alpha   = 1.5
		beta    = 0.135
		ckemax  = 16.49789599e-6 // [J]
		epsilon = 11.0 / 6.0
	)

	tv := terminalv.RogersGK{}
	cke := CollisionKineticEnergy(drop1.Radius(), drop2.Radius(), tv.Velocity(drop1), tv.Velocity(drop2))
	capped := math.Min(ckemax, cke)
	gamma := math.Pow(capped*1e6, beta)
	return 1.0/(alpha-gamma) + epsilon
}
