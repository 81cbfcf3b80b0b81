package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/sdmsim/internal/superdrop"
)

// SmoothingSigma0 sets the kernel width sigma = sigma0 * nsupers^(-1/5).
const SmoothingSigma0 = 0.62

// Point is one sample of a spectrum.
type Point struct {
	X, Y float64
}

// Spectrum is g(ln R) [kg m^-3 per unit ln R] sampled at radii R [m].
type Spectrum struct {
	Radius  []float64
	Density []float64
}

// Points returns the spectrum as (radius, density) pairs.
func (s Spectrum) Points() []Point {
	pts := make([]Point, len(s.Radius))
	for i := range s.Radius {
		pts[i] = Point{X: s.Radius[i], Y: s.Density[i]}
	}
	return pts
}

// LogRadii returns n radii spaced evenly in ln R over [rmin, rmax].
func LogRadii(rmin, rmax float64, n int) []float64 {
	lnr := make([]float64, n)
	floats.Span(lnr, math.Log(rmin), math.Log(rmax))
	for i := range lnr {
		lnr[i] = math.Exp(lnr[i])
	}
	return lnr
}

// MassDensity estimates the liquid mass density distribution of drops in
// a gridbox of the given volume. Each superdroplet contributes its total
// mass xi*m spread by a Gaussian of width sigma in ln R. Null
// superdroplets contribute nothing.
func MassDensity(drops []superdrop.Superdrop, volume float64, radii []float64) Spectrum {
	s := Spectrum{Radius: radii, Density: make([]float64, len(radii))}

	nsupers := len(drops) - superdrop.CountNull(drops)
	if nsupers == 0 || !(volume > 0) {
		return s
	}

	sigma := SmoothingSigma0 * math.Pow(float64(nsupers), -0.2)
	norm := 1.0 / (math.Sqrt(2*math.Pi) * sigma * volume)
	for i := range drops {
		if drops[i].IsNull() {
			continue
		}
		mass := float64(drops[i].Xi()) * drops[i].CondensateMass()
		lnri := math.Log(drops[i].Radius())
		for j, r := range radii {
			d := (math.Log(r) - lnri) / sigma
			s.Density[j] += mass * norm * math.Exp(-0.5*d*d)
		}
	}
	return s
}
