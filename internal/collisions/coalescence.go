package collisions

import (
	"math"

	"github.com/san-kum/sdmsim/internal/superdrop"
)

// Coalescence merges gamma drop1-droplets into each drop2-droplet,
// Shima et al. 2009 section 5.1.3 part (5).
type Coalescence struct{}

func (Coalescence) Enact(gamma uint64, _ float64, drop1, drop2 *superdrop.Superdrop) (bool, error) {
	return Coalesce(gamma, drop1, drop2), nil
}

// Coalesce enacts coalescence and reports whether drop1 became null.
func Coalesce(gamma uint64, drop1, drop2 *superdrop.Superdrop) bool {
	transfer := gamma * drop2.Xi()
	switch {
	case drop1.Xi() > transfer:
		differentCoalescence(gamma, drop1, drop2)
	case drop1.Xi() == transfer:
		twinCoalescence(gamma, drop1, drop2)
	}
	return drop1.IsNull()
}

// twinCoalescence handles xi1 == gamma*xi2. Both superdroplets end up
// with the same radius and solute mass and share drop2's old
// multiplicity. When xi1 == xi2 == gamma == 1, drop1 becomes null.
func twinCoalescence(gamma uint64, drop1, drop2 *superdrop.Superdrop) {
	g := float64(gamma)
	oldXi := drop2.Xi()
	newXi1 := oldXi / 2
	newXi2 := oldXi - newXi1

	newRcubed := drop2.Rcubed() + g*drop1.Rcubed()
	newR := math.Cbrt(newRcubed)
	newMsol := drop2.Msol() + g*drop1.Msol()

	drop1.SetXi(newXi1)
	drop2.SetXi(newXi2)

	drop1.SetMsol(newMsol)
	drop2.SetMsol(newMsol)

	drop1.SetRadius(newR)
	drop2.SetRadius(newR)
}

// differentCoalescence handles xi1 > gamma*xi2: drop1 loses gamma*xi2
// droplets and drop2 grows by gamma drop1-volumes.
func differentCoalescence(gamma uint64, drop1, drop2 *superdrop.Superdrop) {
	g := float64(gamma)
	drop1.SetXi(drop1.Xi() - gamma*drop2.Xi())

	newRcubed := drop2.Rcubed() + g*drop1.Rcubed()
	drop2.SetMsol(drop2.Msol() + g*drop1.Msol())
	drop2.SetRadius(math.Cbrt(newRcubed))
}
