package condensation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/sdmsim/internal/sdm"
	"github.com/san-kum/sdmsim/internal/superdrop"
	"github.com/san-kum/sdmsim/internal/thermo"
)

func coefficients(temp, press, s, msol float64) Coefficients {
	psat := thermo.SaturationPressure(temp)
	return Coefficients{
		S: s,
		A: thermo.KohlerA(temp),
		B: thermo.KohlerB(msol, thermo.Ionic, thermo.MrSol),
		F: thermo.DiffusionFactor(press, temp, psat),
	}
}

// stateAt returns a gridbox state whose supersaturation ratio is s.
func stateAt(temp, press, s float64) *thermo.State {
	psat := thermo.SaturationPressure(temp)
	qvap := s * thermo.MrRatio * psat / (press - s*psat)
	return &thermo.State{Volume: 1e3, Press: press, Temp: temp, Qvap: qvap, Qcond: 1e-4}
}

func newSolver(t *testing.T, minsub float64) *ImplicitEuler {
	t.Helper()
	impe, err := NewImplicitEuler(2, 1.0, 0.0, 0.01, minsub)
	require.NoError(t, err)
	return impe
}

func TestNewImplicitEuler_SubstepTooLarge(t *testing.T) {
	_, err := NewImplicitEuler(2, 1.0, 0.0, 0.01, 2.0)
	assert.ErrorIs(t, err, sdm.ErrSubstepTooLarge)
}

func TestNewImplicitEuler_NonPositiveSubstep(t *testing.T) {
	for _, minsub := range []float64{0, -1} {
		_, err := NewImplicitEuler(2, 1.0, 0.0, 0.01, minsub)
		assert.ErrorIs(t, err, sdm.ErrInvalidConfig, "minsubdelt %g", minsub)
	}
}

func TestSolve_PureWaterTerminates(t *testing.T) {
	c := coefficients(273.0, 1e5, 1.01, 0)
	require.Zero(t, c.CriticalTimestep())

	newr, nsub, err := newSolver(t, 0.25).Solve(c, 1e-6)
	require.NoError(t, err)
	assert.Equal(t, 4, nsub)
	assert.InEpsilon(t, 1.4374e-6, newr, 1e-3)

	// without a minimum the whole step is taken at once
	unbounded := &ImplicitEuler{niters: 2, delt: 1.0, atol: 0.01}
	newr, nsub, err = unbounded.Solve(c, 1e-6)
	require.NoError(t, err)
	assert.Equal(t, 0, nsub)
	assert.InEpsilon(t, 1.4419e-6, newr, 1e-3)
}

func TestSolve_CountsFinalSubstep(t *testing.T) {
	c := coefficients(273.0, 1e5, 1.01, 6.9e-20)
	require.InDelta(t, 0.3, c.CriticalTimestep(), 0.01)
	require.Greater(t, c.S, c.ActivationSupersaturation())

	// three sub-steps of crit, then the remaining 0.1s within the bound
	_, nsub, err := newSolver(t, 0.1).Solve(c, 1e-6)
	require.NoError(t, err)
	assert.Equal(t, 4, nsub)
}

func TestSolve_UnactivatedGrowsWithoutSubstepping(t *testing.T) {
	c := coefficients(273.0, 1e5, 1.01, 1e-21)
	require.Less(t, c.S, c.ActivationSupersaturation())
	require.Greater(t, 1.0, c.CriticalTimestep(), "step must exceed the uniqueness bound")

	impe := newSolver(t, 0.1)
	r := 1e-8
	require.Less(t, r*r, c.CriticalRadiusSqrd())

	for step := 0; step < 5; step++ {
		newr, nsub, err := impe.Solve(c, r)
		require.NoError(t, err)
		assert.Equal(t, 0, nsub)
		assert.GreaterOrEqual(t, newr, r*(1-1e-12))
		assert.Less(t, newr*newr, c.CriticalRadiusSqrd())
		r = newr
	}
	assert.InDelta(t, 1.16e-8, r, 1e-10)
}

func TestSolve_ActivatedSubsteps(t *testing.T) {
	c := coefficients(273.0, 1e5, 1.05, 1e-21)
	require.Greater(t, c.S, c.ActivationSupersaturation())

	newr, nsub, err := newSolver(t, 0.25).Solve(c, 1e-8)
	require.NoError(t, err)
	assert.Equal(t, 4, nsub)
	assert.Greater(t, newr, 1e-6)
}

func TestSolve_Evaporation(t *testing.T) {
	c := coefficients(283.0, 9e4, 0.95, 1e-18)
	newr, nsub, err := newSolver(t, 0.25).Solve(c, 1e-5)
	require.NoError(t, err)
	assert.Equal(t, 0, nsub)
	assert.InDelta(t, 9.52e-6, newr, 1e-8)
}

func TestSolve_NotConverged(t *testing.T) {
	impe, err := NewImplicitEuler(1, 1.0, 0.0, -1.0, 0.1)
	require.NoError(t, err)

	_, _, err = impe.Solve(coefficients(283.0, 9e4, 1.01, 1e-18), 1e-5)
	assert.ErrorIs(t, err, sdm.ErrNotConverged)
}

func TestCondense_ThermoFeedback(t *testing.T) {
	tests := []struct {
		name string
		s    float64
		sign float64
	}{
		{"condensation warms", 1.01, 1},
		{"evaporation cools", 0.95, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drops := make([]superdrop.Superdrop, 100)
			for i := range drops {
				drops[i] = superdrop.New(0, [3]float64{}, superdrop.Attrs{
					Solute: superdrop.NaCl, Xi: 1e6, Radius: 1e-5, Msol: 1e-18,
				}, superdrop.ID{})
			}
			state := stateAt(283.0, 9e4, tt.s)
			before := *state

			cond := New(newSolver(t, 0.25), Config{AlterThermo: true})
			res, err := cond.Condense(sdm.NewTeam(4), drops, state)
			require.NoError(t, err)

			assert.Equal(t, tt.sign, sign(res.MassCondensed))
			assert.Equal(t, tt.sign, sign(state.Temp-before.Temp))
			assert.Equal(t, tt.sign, sign(before.Qvap-state.Qvap))
			assert.InDelta(t, before.Qvap+before.Qcond, state.Qvap+state.Qcond, 1e-15)

			dq := res.MassCondensed / before.Volume / thermo.RhoDry
			assert.InEpsilon(t, dq, state.Qcond-before.Qcond, 1e-9)
		})
	}
}

func TestCondense_WithoutFeedbackLeavesState(t *testing.T) {
	drops := []superdrop.Superdrop{
		superdrop.New(0, [3]float64{}, superdrop.Attrs{Solute: superdrop.NaCl, Xi: 10, Radius: 1e-5, Msol: 1e-18}, superdrop.ID{}),
		superdrop.New(0, [3]float64{}, superdrop.Attrs{Solute: superdrop.NaCl, Xi: 0, Radius: 1e-5, Msol: 1e-18}, superdrop.ID{}),
	}
	state := stateAt(283.0, 9e4, 1.01)
	before := *state

	out, err := New(newSolver(t, 0.25), Config{}).Microphysics(sdm.NewTeam(1), 0, drops, state, nil)
	require.NoError(t, err)
	assert.Equal(t, before, *state)
	assert.Greater(t, out[0].Radius(), 1e-5)
	assert.Equal(t, 1e-5, out[1].Radius(), "null superdroplets are skipped")
}

func TestCondense_Ventilation(t *testing.T) {
	grow := func(cfg Config) float64 {
		drops := []superdrop.Superdrop{
			superdrop.New(0, [3]float64{}, superdrop.Attrs{Solute: superdrop.NaCl, Xi: 1, Radius: 1e-5, Msol: 1e-18}, superdrop.ID{}),
		}
		_, err := New(newSolver(t, 0.25), cfg).Condense(sdm.NewTeam(1), drops, stateAt(283.0, 9e4, 1.01))
		require.NoError(t, err)
		return drops[0].Radius()
	}

	assert.Greater(t, grow(Config{Ventilation: true}), grow(Config{}))
	assert.InDelta(t, grow(Config{}), grow(Config{Psat: thermo.SaturationPressureMurphyKoop}), 1e-8)
}

func TestNewProcess(t *testing.T) {
	toSeconds := func(ticks uint64) float64 { return float64(ticks) }

	p, err := NewProcess(2, toSeconds, 2, 0, 0.01, 0.1, Config{AlterThermo: true})
	require.NoError(t, err)
	assert.Equal(t, "condensation", p.Name())
	assert.Equal(t, 2.0, p.Routine().impe.DeltaT())

	_, err = NewProcess(2, toSeconds, 2, 0, 0.01, 5, Config{})
	assert.ErrorIs(t, err, sdm.ErrSubstepTooLarge)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
