// Package condensation grows and shrinks superdroplets by diffusion of
// water vapour.
//
// The diffusional growth ODE dr/dt = (S - 1 - a/r + b/r^3) / (F r) is
// integrated per droplet with an implicit Euler step in z = r^2, whose
// root g(z) = 0 is found by Newton-Raphson iteration (Shima et al. 2009
// section 5.1.2). Steps longer than the uniqueness bound of Matsushima et
// al. 2023 are split into sub-steps so the iteration cannot converge to a
// spurious root.
package condensation

import (
	"fmt"
	"math"

	"github.com/san-kum/sdmsim/internal/sdm"
	"github.com/san-kum/sdmsim/internal/thermo"
)

const (
	// maxExtraIters bounds the Newton-Raphson iterations taken after the
	// first niters when the convergence test still fails.
	maxExtraIters = 50

	// minZ keeps the squared radius strictly positive [m^2].
	minZ = 1e-20

	// activatedGuess is the squared radius [m^2] of a 1mm drop, the
	// initial guess for droplets beyond their activation supersaturation.
	activatedGuess = 1e-3 * 1e-3
)

// Coefficients of the growth ODE for one droplet under a fixed
// thermodynamic state.
type Coefficients struct {
	S float64 // supersaturation ratio
	A float64 // Kelvin (curvature) factor [m]
	B float64 // Raoult (solute) factor [m^3]
	F float64 // diffusion factor [s m^-2]
}

// ActivationSupersaturation is the peak of the droplet's Kohler curve.
func (c Coefficients) ActivationSupersaturation() float64 {
	return thermo.ActivationSupersaturation(c.A, c.B)
}

// CriticalRadiusSqrd is the squared radius at the peak of the Kohler curve.
func (c Coefficients) CriticalRadiusSqrd() float64 {
	return thermo.CriticalRadiusSqrd(c.A, c.B)
}

// CriticalTimestep is the largest step [s] for which g(z) has a single
// positive root regardless of the droplet's state.
func (c Coefficients) CriticalTimestep() float64 {
	return 2.5 * c.F / c.A * math.Pow(5.0*c.B/c.A, 1.5)
}

// ImplicitEuler integrates the growth ODE of one droplet over a fixed
// step delt. It holds only configuration and is safe for concurrent use.
type ImplicitEuler struct {
	niters     int
	delt       float64
	rtol       float64
	atol       float64
	minsubdelt float64
}

// NewImplicitEuler configures a solver that always takes at least niters
// Newton-Raphson iterations per step of delt [s]. Sub-steps are never
// shorter than minsubdelt [s], which must be positive and not exceed delt.
func NewImplicitEuler(niters int, delt, rtol, atol, minsubdelt float64) (*ImplicitEuler, error) {
	if !(minsubdelt > 0) {
		return nil, fmt.Errorf("minimum sub-step %gs must be positive: %w", minsubdelt, sdm.ErrInvalidConfig)
	}
	if minsubdelt > delt {
		return nil, fmt.Errorf("minimum sub-step %gs exceeds step %gs: %w", minsubdelt, delt, sdm.ErrSubstepTooLarge)
	}
	if niters < 1 {
		niters = 1
	}
	return &ImplicitEuler{
		niters:     niters,
		delt:       delt,
		rtol:       rtol,
		atol:       atol,
		minsubdelt: minsubdelt,
	}, nil
}

func (ie *ImplicitEuler) DeltaT() float64 {
	return ie.delt
}

// Solve advances a droplet of radius rprev [m] by one step and returns
// its new radius and the number of sub-steps taken, including the last.
// nsubsteps is zero when the whole step has a unique root.
func (ie *ImplicitEuler) Solve(c Coefficients, rprev float64) (newr float64, nsubsteps int, err error) {
	sAct := c.ActivationSupersaturation()
	rcSqrd := c.CriticalRadiusSqrd()
	crit := c.CriticalTimestep()

	remaining := ie.delt
	r := rprev
	for remaining > 0 {
		z := initialGuess(c.S, sAct, r)

		unactivated := r*r < rcSqrd && z < rcSqrd && c.S < sAct
		if remaining <= crit || unactivated {
			r, err = ie.newtonRaphson(c, remaining, r, z)
			if nsubsteps > 0 {
				nsubsteps++
			}
			return r, nsubsteps, err
		}

		// a zero or NaN sub-step would never use up remaining
		subdelt := math.Min(math.Max(crit, ie.minsubdelt), remaining)
		if !(subdelt > 0) {
			r, err = ie.newtonRaphson(c, remaining, r, z)
			return r, nsubsteps, err
		}
		r, err = ie.newtonRaphson(c, subdelt, r, z)
		if err != nil {
			return r, nsubsteps, err
		}
		remaining -= subdelt
		nsubsteps++
	}
	return r, nsubsteps, nil
}

// initialGuess seeds the iteration with a large radius for droplets that
// should already be activated, else with the previous radius.
func initialGuess(s, sAct, rprev float64) float64 {
	rprevSqrd := rprev * rprev
	if s > sAct {
		return math.Max(activatedGuess, rprevSqrd)
	}
	return rprevSqrd
}

// newtonRaphson finds the root of g(z) for a step of dt starting from z.
func (ie *ImplicitEuler) newtonRaphson(c Coefficients, dt, rprev, z float64) (float64, error) {
	it := iteration{c: c, dt: dt, rprevSqrd: rprev * rprev}

	var gprev float64
	for i := 0; i < ie.niters; i++ {
		gprev, z = it.step(z)
	}

	for i := 0; ; i++ {
		gnew := it.g(z)
		if math.Abs(gnew-gprev) < ie.rtol*math.Abs(gnew)+ie.atol {
			return math.Sqrt(z), nil
		}
		if i == maxExtraIters {
			return math.Sqrt(z), fmt.Errorf("radius %g after %d iterations: %w", rprev, ie.niters+i, sdm.ErrNotConverged)
		}
		gprev, z = it.step(z)
	}
}

// iteration is g(z) and its derivative for one step, both scaled by z/dt.
type iteration struct {
	c         Coefficients
	dt        float64
	rprevSqrd float64
}

// step performs one Newton-Raphson update and returns g at the old iterate.
func (it iteration) step(z float64) (float64, float64) {
	g := it.g(z)
	znew := z * (1 - g/it.dg(z))
	return g, math.Max(znew, minZ)
}

func (it iteration) g(z float64) float64 {
	r := math.Sqrt(z)
	alpha := it.c.S - 1 - it.c.A/r + it.c.B/(r*r*r)
	beta := 2.0 * it.dt / (z * it.c.F)
	return 1 - it.rprevSqrd/z - alpha*beta
}

func (it iteration) dg(z float64) float64 {
	r := math.Sqrt(z)
	alpha := it.c.A/r - 3.0*it.c.B/(r*r*r)
	beta := it.dt / (z * it.c.F)
	return 1 - alpha*beta
}
