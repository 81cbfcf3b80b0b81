package collisions

import (
	"math"

	"github.com/san-kum/sdmsim/internal/superdrop"
	"github.com/san-kum/sdmsim/internal/terminalv"
	"github.com/san-kum/sdmsim/internal/thermo"
)

// Kernel returns K(drop1, drop2)·ΔT/V, the probability that one pair of
// real droplets collides within volume V [m^3] over ΔT [s] (Shima et al.
// 2009 eq. 3).
type Kernel interface {
	Probability(drop1, drop2 *superdrop.Superdrop, deltaT, volume float64) float64
}

// ConstKernel has the same collection rate C [m^3 s^-1] for every pair.
type ConstKernel struct {
	C float64
}

func (k ConstKernel) Probability(_, _ *superdrop.Superdrop, deltaT, volume float64) float64 {
	return k.C * deltaT / volume
}

// GolovinB is the Golovin kernel coefficient [s^-1] used by Shima et al. 2009.
const GolovinB = 1.5e3

// Golovin is the sum-of-volumes kernel K = b(v1 + v2).
type Golovin struct{}

func (Golovin) Probability(drop1, drop2 *superdrop.Superdrop, deltaT, volume float64) float64 {
	return GolovinB * (drop1.Volume() + drop2.Volume()) * deltaT / volume
}

// Efficiency scales the geometric sweep-out kernel of a pair.
type Efficiency interface {
	Efficiency(drop1, drop2 *superdrop.Superdrop) float64
}

// ConstEff is the same efficiency for every pair.
type ConstEff struct {
	E float64
}

func (e ConstEff) Efficiency(_, _ *superdrop.Superdrop) float64 { return e.E }

// Hydrodynamic is the gravitational kernel
// K = eff·π(r1 + r2)^2·|v1 - v2|.
type Hydrodynamic struct {
	Eff      Efficiency
	Velocity terminalv.Formula
}

func (k Hydrodynamic) Probability(drop1, drop2 *superdrop.Superdrop, deltaT, volume float64) float64 {
	eff := k.Eff.Efficiency(drop1, drop2)
	sumr := drop1.Radius() + drop2.Radius()
	vdiff := math.Abs(k.Velocity.Velocity(drop1) - k.Velocity.Velocity(drop2))
	return eff * math.Pi * sumr * sumr * vdiff * deltaT / volume
}

// NewLongKernel is Long's hydrodynamic kernel as formulated by Simmel et
// al. 2002 with a constant coalescence efficiency.
func NewLongKernel(coaleff float64) Hydrodynamic {
	return Hydrodynamic{Eff: LongEff{CoalEff: coaleff}, Velocity: terminalv.Simmel{}}
}

// NewLowListCoalKernel is Long's kernel scaled by the Low and List 1982(a)
// coalescence efficiency.
func NewLowListCoalKernel() Hydrodynamic {
	return Hydrodynamic{Eff: LowListCoalEff{Velocity: terminalv.Simmel{}}, Velocity: terminalv.Simmel{}}
}

// NewLowListBuKernel is Long's kernel scaled by the breakup efficiency
// 1 - coaleff from Low and List 1982(a).
func NewLowListBuKernel() Hydrodynamic {
	return Hydrodynamic{Eff: LowListBuEff{Velocity: terminalv.Simmel{}}, Velocity: terminalv.Simmel{}}
}

// LongEff is Long's collision efficiency, Simmel et al. 2002 eq. 12 and
// 13, multiplied by a constant coalescence efficiency. Above the 50 micron
// limit the collision efficiency is one. The fit's cgs coefficients
// (4.5e4 cm^-2, 3e-4 cm) are converted to SI.
type LongEff struct {
	CoalEff float64
}

func (e LongEff) Efficiency(drop1, drop2 *superdrop.Superdrop) float64 {
	return LongCollEff(drop1.Radius(), drop2.Radius()) * e.CoalEff
}

// LongCollEff is Long's collision efficiency for a pair of radii.
func LongCollEff(r1, r2 float64) float64 {
	const (
		rlim       = 5e-5  // [m]
		colleffLim = 0.001 // floor when the larger drop is below rlim
		a1         = 4.5e8 // [m^-2]
		a2         = 3e-6  // [m]
	)

	smallr := math.Min(r1, r2)
	bigr := math.Max(r1, r2)
	if bigr >= rlim {
		return 1.0
	}
	return math.Max(a1*bigr*bigr*(1-a2/smallr), colleffLim)
}

// LowListCoalescence is the coalescence efficiency of a colliding pair,
// Low and List 1982(a) eq. 4.5 and 4.6. It is zero once the total
// collision energy exceeds 5 micro-Joules.
func LowListCoalescence(drop1, drop2 *superdrop.Superdrop, velocity terminalv.Formula) float64 {
	const (
		aconst  = 0.778
		bconst  = 2.62e6 // [J^-2 m^2]
		etotlim = 5e-6   // [J]
	)

	r1, r2 := drop1.Radius(), drop2.Radius()
	cke := CollisionKineticEnergy(r1, r2, velocity.Velocity(drop1), velocity.Velocity(drop2))
	surfT := TotalSurfEnergy(r1, r2)
	surfC := CoalSurfEnergy(r1, r2)
	etot := surfT - surfC + cke

	if etot >= etotlim {
		return 0
	}

	rs, rl := math.Min(r1, r2), math.Max(r1, r2)
	sizeratio := 1.0 + rs/rl
	expon := -bconst * thermo.SurfSigma * etot * etot / surfC
	return aconst / (sizeratio * sizeratio) * math.Exp(expon)
}

// LowListCoalEff is Long's collision efficiency times the Low and List
// coalescence efficiency.
type LowListCoalEff struct {
	Velocity terminalv.Formula
}

func (e LowListCoalEff) Efficiency(drop1, drop2 *superdrop.Superdrop) float64 {
	colleff := LongCollEff(drop1.Radius(), drop2.Radius())
	return colleff * LowListCoalescence(drop1, drop2, e.Velocity)
}

// LowListBuEff is Long's collision efficiency times the probability that
// a collision does not coalesce.
type LowListBuEff struct {
	Velocity terminalv.Formula
}

func (e LowListBuEff) Efficiency(drop1, drop2 *superdrop.Superdrop) float64 {
	colleff := LongCollEff(drop1.Radius(), drop2.Radius())
	return colleff * (1.0 - LowListCoalescence(drop1, drop2, e.Velocity))
}
