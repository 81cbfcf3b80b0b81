package collisions

import (
	"math"

	"github.com/san-kum/sdmsim/internal/superdrop"
	"github.com/san-kum/sdmsim/internal/terminalv"
)

// Flag selects the outcome of a collision.
type Flag uint8

const (
	FlagRebound Flag = iota
	FlagCoalescence
	FlagBreakup
)

func (f Flag) String() string {
	switch f {
	case FlagCoalescence:
		return "coalescence"
	case FlagBreakup:
		return "breakup"
	default:
		return "rebound"
	}
}

// Selector decides the outcome of a collision between drop1 and drop2.
type Selector interface {
	Select(phi float64, drop1, drop2 *superdrop.Superdrop) Flag
}

// SUCoalBuReFlag follows the kinetic arguments of Szakáll and Urbich 2018
// section 2.2 (ignoring grazing angles). phi is not used.
type SUCoalBuReFlag struct{}

func (SUCoalBuReFlag) Select(_ float64, drop1, drop2 *superdrop.Superdrop) Flag {
	r1, r2 := drop1.Radius(), drop2.Radius()
	tv := terminalv.RogersGK{}
	cke := CollisionKineticEnergy(r1, r2, tv.Velocity(drop1), tv.Velocity(drop2))

	switch {
	case cke < SurfEnergy(math.Min(r1, r2)):
		return FlagRebound
	case cke < CoalSurfEnergy(r1, r2): // Weber number < 1
		return FlagCoalescence
	default:
		return FlagBreakup
	}
}

// TSCoalBuReFlag uses the energy regimes of Testik et al. 2011 (figure 12)
// with the coalescence efficiency of Straub et al. 2010.
type TSCoalBuReFlag struct{}

func (f TSCoalBuReFlag) Select(phi float64, drop1, drop2 *superdrop.Superdrop) Flag {
	r1, r2 := drop1.Radius(), drop2.Radius()
	tv := terminalv.RogersGK{}
	cke := CollisionKineticEnergy(r1, r2, tv.Velocity(drop1), tv.Velocity(drop2))
	coalesces := phi < StraubCoalEff(r1, r2, cke)

	switch {
	case cke < SurfEnergy(math.Min(r1, r2)): // below DE2 boundary
		if coalesces {
			return FlagCoalescence
		}
		return FlagRebound
	case cke < SurfEnergy(math.Max(r1, r2)): // below DE1 boundary
		if coalesces {
			return FlagCoalescence
		}
		return FlagBreakup
	default:
		return FlagBreakup
	}
}

// StraubCoalEff is the coalescence efficiency exp(-1.15·We) of Straub et
// al. 2010 eq. 5.
func StraubCoalEff(r1, r2, cke float64) float64 {
	const beta = -1.15
	weber := cke / CoalSurfEnergy(r1, r2)
	return math.Exp(beta * weber)
}

// CoalBuRe resolves each collision as coalescence, breakup or rebound
// according to Flag.
type CoalBuRe struct {
	Frags Fragments
	Flag  Selector
}

func (c CoalBuRe) Enact(gamma uint64, phi float64, drop1, drop2 *superdrop.Superdrop) (bool, error) {
	switch c.Flag.Select(phi, drop1, drop2) {
	case FlagCoalescence:
		return Coalesce(gamma, drop1, drop2), nil
	case FlagBreakup:
		return false, BreakUp(c.Frags.NFrags(drop1, drop2), drop1, drop2)
	default:
		return false, nil
	}
}
