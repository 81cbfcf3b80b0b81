// Package initsupers generates the initial superdroplet ensemble of a
// gridbox.
package initsupers

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/san-kum/sdmsim/internal/sdm"
	"github.com/san-kum/sdmsim/internal/superdrop"
)

// Params describes one gridbox's ensemble.
type Params struct {
	Gbx     uint32
	Supers  int     // superdroplets in the gridbox
	NumConc float64 // real droplets per volume [m^-3]
	Volume  float64 // gridbox volume [m^3]
	Radius  float64 // radius [m], the mean volume radius for ExpVolume
	Msol    float64 // solute mass per droplet [kg]
	Solute  superdrop.Solute
}

// Multiplicity is the number of real droplets each of the equally
// weighted superdroplets represents. It is never below one.
func (p Params) Multiplicity() uint64 {
	xi := math.Round(p.NumConc * p.Volume / float64(p.Supers))
	return uint64(math.Max(xi, 1))
}

func (p Params) validate() error {
	if p.Supers < 1 || !(p.NumConc > 0) || !(p.Volume > 0) || !(p.Radius > 0) {
		return fmt.Errorf("initsupers: %+v: %w", p, sdm.ErrInvalidConfig)
	}
	return nil
}

func (p Params) solute() superdrop.Solute {
	if p.Solute == (superdrop.Solute{}) {
		return superdrop.NaCl
	}
	return p.Solute
}

// Monodisperse gives every superdroplet the same radius and multiplicity.
func Monodisperse(p Params, ids superdrop.IDGen) ([]superdrop.Superdrop, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	attrs := superdrop.Attrs{
		Solute: p.solute(),
		Xi:     p.Multiplicity(),
		Radius: p.Radius,
		Msol:   p.Msol,
	}
	drops := make([]superdrop.Superdrop, p.Supers)
	for i := range drops {
		drops[i] = superdrop.New(p.Gbx, [3]float64{}, attrs, ids.Next())
	}
	return drops, nil
}

// ExpVolume samples radii from an exponential distribution in droplet
// volume with mean 4/3·π·Radius^3, the initial condition of Golovin's
// analytic solution. Multiplicities are equal.
func ExpVolume(p Params, ids superdrop.IDGen, g *rand.Rand) ([]superdrop.Superdrop, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	meanVol := 4.0 / 3.0 * math.Pi * p.Radius * p.Radius * p.Radius
	xi := p.Multiplicity()
	sol := p.solute()

	drops := make([]superdrop.Superdrop, p.Supers)
	for i := range drops {
		vol := meanVol * g.ExpFloat64()
		attrs := superdrop.Attrs{
			Solute: sol,
			Xi:     xi,
			Radius: math.Cbrt(3.0 * vol / (4.0 * math.Pi)),
			Msol:   p.Msol,
		}
		drops[i] = superdrop.New(p.Gbx, [3]float64{}, attrs, ids.Next())
	}
	return drops, nil
}

// Generate builds an ensemble with the named distribution.
func Generate(distribution string, p Params, ids superdrop.IDGen, gens *sdm.GenPool) ([]superdrop.Superdrop, error) {
	switch distribution {
	case "monodisperse":
		return Monodisperse(p, ids)
	case "expvolume":
		var (
			drops []superdrop.Superdrop
			err   error
		)
		gens.With(func(g *rand.Rand) {
			drops, err = ExpVolume(p, ids, g)
		})
		return drops, err
	default:
		return nil, fmt.Errorf("initsupers: unknown distribution %q: %w", distribution, sdm.ErrInvalidConfig)
	}
}
