// Package metrics reduces a gridbox's superdroplets and state to bulk
// diagnostics and tracks run-level quantities across observations.
package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/sdmsim/internal/superdrop"
	"github.com/san-kum/sdmsim/internal/thermo"
)

// Diagnostics are the bulk properties of one gridbox at one tick.
type Diagnostics struct {
	Tick       uint64  `json:"tick"`
	Time       float64 `json:"time"` // [s]
	Gridbox    int     `json:"gridbox"`
	Nsupers    int     `json:"nsupers"`
	TotalXi    float64 `json:"total_xi"`
	NumConc    float64 `json:"numconc"`     // [m^-3]
	MassConc   float64 `json:"massconc"`    // droplet mass per volume [kg m^-3]
	MeanRadius float64 `json:"mean_radius"` // multiplicity weighted [m]
	MaxRadius  float64 `json:"max_radius"`  // [m]
	Temp       float64 `json:"temp"`
	Press      float64 `json:"press"`
	Qvap       float64 `json:"qvap"`
	Qcond      float64 `json:"qcond"`
	Supersat   float64 `json:"supersat"`
}

// Compute reduces drops and state. Null superdroplets carry zero weight.
func Compute(tick uint64, seconds float64, gbx int, drops []superdrop.Superdrop, state *thermo.State) Diagnostics {
	d := Diagnostics{
		Tick:     tick,
		Time:     seconds,
		Gridbox:  gbx,
		Nsupers:  len(drops),
		Temp:     state.Temp,
		Press:    state.Press,
		Qvap:     state.Qvap,
		Qcond:    state.Qcond,
		Supersat: state.Supersaturation(),
	}
	if len(drops) == 0 {
		return d
	}

	xi := make([]float64, len(drops))
	radius := make([]float64, len(drops))
	mass := make([]float64, len(drops))
	for i := range drops {
		xi[i] = float64(drops[i].Xi())
		radius[i] = drops[i].Radius()
		mass[i] = drops[i].Mass()
	}

	d.TotalXi = floats.Sum(xi)
	d.NumConc = d.TotalXi / state.Volume
	d.MassConc = floats.Dot(xi, mass) / state.Volume
	if d.TotalXi > 0 {
		d.MeanRadius = floats.Dot(xi, radius) / d.TotalXi
	}
	d.MaxRadius = floats.Max(radius)
	return d
}

// Total sums the extensive diagnostics of several gridboxes observed at
// the same tick, weighting intensive ones by gridbox volume.
func Total(ds []Diagnostics, volumes []float64) Diagnostics {
	var out Diagnostics
	if len(ds) == 0 {
		return out
	}
	out.Tick, out.Time, out.Gridbox = ds[0].Tick, ds[0].Time, -1

	vtot := floats.Sum(volumes)
	var xiRadius float64
	for i, d := range ds {
		w := volumes[i] / vtot
		out.Nsupers += d.Nsupers
		out.TotalXi += d.TotalXi
		out.NumConc += w * d.NumConc
		out.MassConc += w * d.MassConc
		out.Temp += w * d.Temp
		out.Press += w * d.Press
		out.Qvap += w * d.Qvap
		out.Qcond += w * d.Qcond
		out.Supersat += w * d.Supersat
		out.MaxRadius = max(out.MaxRadius, d.MaxRadius)
		xiRadius += d.TotalXi * d.MeanRadius
	}
	if out.TotalXi > 0 {
		out.MeanRadius = xiRadius / out.TotalXi
	}
	return out
}
