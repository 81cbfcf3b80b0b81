package condensation

import (
	"math"

	"github.com/san-kum/sdmsim/internal/process"
	"github.com/san-kum/sdmsim/internal/sdm"
	"github.com/san-kum/sdmsim/internal/superdrop"
	"github.com/san-kum/sdmsim/internal/thermo"
)

// Config selects the optional physics of a Condensation routine.
type Config struct {
	// AlterThermo feeds the condensed mass back into temperature, qvap
	// and qcond.
	AlterThermo bool
	// Psat is the saturation pressure fit. Nil means thermo.SaturationPressure.
	Psat thermo.PsatFunc
	// Ventilation divides the diffusion factor by the ventilation factor
	// of each droplet.
	Ventilation bool
}

// Condensation changes superdroplet radii by condensation and evaporation
// over one step of its solver, and optionally the gridbox thermodynamics.
type Condensation struct {
	impe *ImplicitEuler
	cfg  Config
}

func New(impe *ImplicitEuler, cfg Config) *Condensation {
	if cfg.Psat == nil {
		cfg.Psat = thermo.SaturationPressure
	}
	return &Condensation{impe: impe, cfg: cfg}
}

// Result summarises one condensation step of a gridbox.
type Result struct {
	MassCondensed float64 // [kg], negative for evaporation
	Substeps      int     // total sub-steps over all droplets
}

// Microphysics runs one condensation step on the gridbox ensemble.
func (c *Condensation) Microphysics(team *sdm.Team, _ uint64, drops []superdrop.Superdrop, state *thermo.State, _ *sdm.GenPool) ([]superdrop.Superdrop, error) {
	_, err := c.Condense(team, drops, state)
	return drops, err
}

// Condense solves every droplet's growth under the state at entry, then
// applies the total mass change to the state once.
func (c *Condensation) Condense(team *sdm.Team, drops []superdrop.Superdrop, state *thermo.State) (Result, error) {
	var res Result

	psat := c.cfg.Psat(state.Temp)
	s := thermo.SupersaturationRatio(state.Press, state.Qvap, psat)
	ffactor := thermo.DiffusionFactor(state.Press, state.Temp, psat)
	akoh := thermo.KohlerA(state.Temp)

	substeps := make([]int, len(drops))
	mass, err := team.Reduce(len(drops), func(i int) (float64, error) {
		drop := &drops[i]
		if drop.IsNull() {
			return 0, nil
		}

		f := ffactor
		if c.cfg.Ventilation {
			f /= thermo.VentilationFactor(drop.Radius())
		}
		sol := drop.Solute()
		coeffs := Coefficients{
			S: s,
			A: akoh,
			B: thermo.KohlerB(drop.Msol(), sol.Ionic, sol.MrSol),
			F: f,
		}

		newr, n, err := c.impe.Solve(coeffs, drop.Radius())
		if err != nil {
			return 0, err
		}
		substeps[i] = n
		return massChange(drop, newr), nil
	})
	if err != nil {
		return res, err
	}
	res.MassCondensed = mass
	for _, n := range substeps {
		res.Substeps += n
	}

	if !c.cfg.AlterThermo {
		return res, nil
	}
	err = team.Single(func() error {
		ApplyMassChange(state, mass)
		return nil
	})
	return res, err
}

// massChange moves drop to newr, respecting its dry radius, and returns
// the mass of liquid [kg] condensed onto all xi droplets it represents.
func massChange(drop *superdrop.Superdrop, newr float64) float64 {
	const dmdt = 4.0 * math.Pi * thermo.RhoL

	deltar := drop.ChangeRadius(newr)
	r := drop.Radius()
	return dmdt * r * r * float64(drop.Xi()) * deltar
}

// ApplyMassChange converts a condensed mass [kg] in the state's volume
// into changes of qcond, qvap and latent heating of temp.
func ApplyMassChange(state *thermo.State, mass float64) {
	deltaQcond := mass / state.Volume / thermo.RhoDry
	deltaTemp := thermo.LatentV / thermo.MoistSpecificHeat(state.Qvap, state.Qcond) * deltaQcond

	state.Temp += deltaTemp
	state.Qvap -= deltaQcond
	state.Qcond += deltaQcond
}

// NewProcess wraps condensation as a constant-interval process firing
// every interval ticks, with a solver step of toSeconds(interval).
func NewProcess(interval uint64, toSeconds func(uint64) float64, niters int, rtol, atol, minsubdelt float64, cfg Config) (process.ConstTstep[*Condensation], error) {
	impe, err := NewImplicitEuler(niters, toSeconds(interval), rtol, atol, minsubdelt)
	if err != nil {
		return process.ConstTstep[*Condensation]{}, err
	}
	return process.NewConstTstep("condensation", interval, New(impe, cfg))
}
