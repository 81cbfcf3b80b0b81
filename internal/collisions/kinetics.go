package collisions

import (
	"math"

	"github.com/san-kum/sdmsim/internal/thermo"
)

// surfconst converts r^2 into surface tension energy [J m^-2].
const surfconst = 4.0 * thermo.SurfSigma * math.Pi

// CollisionKineticEnergy is the kinetic energy [J] of the relative motion
// of two falling drops, Low and List 1982(a) eq. 3.1.
func CollisionKineticEnergy(r1, r2, v1, v2 float64) float64 {
	const ckeconst = 2.0 / 3.0 * thermo.RhoL * math.Pi

	ratio := r1 / r2
	rratio := r1 * r1 * r1 / (1.0 + ratio*ratio*ratio)
	vdiff := v1 - v2
	return ckeconst * rratio * vdiff * vdiff
}

// SurfEnergy is the surface tension energy [J] of a single drop.
func SurfEnergy(radius float64) float64 {
	return surfconst * radius * radius
}

// TotalSurfEnergy is the combined surface tension energy [J] of two drops.
func TotalSurfEnergy(r1, r2 float64) float64 {
	return surfconst * (r1*r1 + r2*r2)
}

// CoalSurfEnergy is the surface tension energy [J] of the single sphere
// with the combined volume of both drops.
func CoalSurfEnergy(r1, r2 float64) float64 {
	r3sum := r1*r1*r1 + r2*r2*r2
	return surfconst * math.Pow(r3sum, 2.0/3.0)
}
