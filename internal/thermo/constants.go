// Package thermo holds physical constants, the per-gridbox thermodynamic
// state and the closed-form thermodynamic relations used by droplet growth.
//
// All quantities are SI.
package thermo

import "math"

// Physical constants.
const (
	G         = 9.80665       // gravitational acceleration [m s^-2]
	RgasUniv  = 8.314462618   // universal gas constant [J mol^-1 K^-1]
	MrWater   = 0.01801528    // molecular mass of water [kg mol^-1]
	MrDry     = 0.028966216   // molecular mass of dry air [kg mol^-1]
	LatentV   = 2500930.0     // latent heat of vapourisation [J kg^-1]
	CpDry     = 1004.64       // isobaric specific heat of dry air [J kg^-1 K^-1]
	CpV       = 1865.01       // isobaric specific heat of water vapour [J kg^-1 K^-1]
	CL        = 4192.664      // specific heat of liquid water [J kg^-1 K^-1]
	RhoDry    = 1.177         // density of dry air [kg m^-3]
	RhoL      = 998.203       // density of liquid water [kg m^-3]
	DynVisc   = 18.45e-6      // dynamic viscosity of air [kg m^-1 s^-1]
	SurfSigma = 7.28e-2       // surface tension of water [J m^-2]
	RgasDry   = RgasUniv / MrDry
	RgasV     = RgasUniv / MrWater
	MrRatio   = MrWater / MrDry
)

// Default solute (NaCl).
const (
	RhoSol = 2016.5     // density [kg m^-3]
	MrSol  = 0.05844277 // molecular mass [kg mol^-1]
	Ionic  = 2.0        // degree of ionic dissociation
)

// SphereVolume returns the volume of a sphere of radius r.
func SphereVolume(r float64) float64 {
	return 4.0 / 3.0 * math.Pi * r * r * r
}
