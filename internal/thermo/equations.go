package thermo

import "math"

// PsatFunc computes saturation vapour pressure [Pa] from temperature [K].
type PsatFunc func(temp float64) float64

// SaturationPressure is a Tetens-type fit referenced to the triple point.
func SaturationPressure(temp float64) float64 {
	const (
		a    = 17.4146
		b    = 33.639
		tref = 273.16
		pref = 611.655
	)
	return pref * math.Exp(a*(temp-tref)/(temp-b))
}

// SaturationPressureMurphyKoop follows Murphy and Koop (2005) eq. 10.
func SaturationPressureMurphyKoop(temp float64) float64 {
	lnpsat := 54.842763 - 6763.22/temp - 4.21*math.Log(temp) + 0.000367*temp +
		math.Tanh(0.0415*(temp-218.8))*(53.878-1331.22/temp-9.44523*math.Log(temp)+0.014025*temp)
	return math.Exp(lnpsat)
}

// SupersaturationRatio returns p_v/p_sat for a vapour mixing ratio qvap.
func SupersaturationRatio(press, qvap, psat float64) float64 {
	return (press * qvap) / ((MrRatio + qvap) * psat)
}

// MoistSpecificHeat returns the isobaric specific heat of moist air.
func MoistSpecificHeat(qvap, qcond float64) float64 {
	return CpDry + CpV*qvap + CL*qcond
}

// DiffusionFactor returns the combined heat conduction and vapour
// diffusion factor F [s m^-2] in dr/dt = (S - 1 - a/r + b/r^3) / (F r).
func DiffusionFactor(press, temp, psat float64) float64 {
	const (
		a = 7.11756e-5
		b = 4.38127686e-3
		d = 4.012182971e-5
	)
	thermk := a*temp*temp + b*temp
	diffuseV := (d / press * math.Pow(temp, 1.94)) / RgasV

	fkl := (LatentV/(RgasV*temp) - 1.0) * LatentV / thermk
	fdl := temp / (diffuseV * psat)
	return RhoL * (fkl + fdl)
}

// VentilationFactor enhances diffusional growth of falling drops. It is
// capped at the value for roughly 3.3mm drops.
func VentilationFactor(radius float64) float64 {
	const (
		maxFactor = 20.0
		c1        = 6.954e7
		p1        = 1.963
		c2        = 1.069e3
		p2        = 0.702
	)
	a := 1.0 / (c1 * math.Pow(radius, p1))
	b := 1.0 / (c2 * math.Pow(radius, p2))
	return math.Min(1.0+1.0/(a+b), maxFactor)
}

// KohlerA returns the curvature (Kelvin) coefficient a [m].
func KohlerA(temp float64) float64 {
	return 3.3e-7 / temp
}

// KohlerB returns the solute (Raoult) coefficient b [m^3].
func KohlerB(msol, ionic, mrSol float64) float64 {
	return 4.3e-6 * msol * ionic / mrSol
}

// ActivationSupersaturation is the peak of the Kohler curve.
func ActivationSupersaturation(a, b float64) float64 {
	return 1 + math.Sqrt(4.0*a*a*a/(27.0*b))
}

// CriticalRadiusSqrd is the square of the radius at the Kohler peak.
func CriticalRadiusSqrd(a, b float64) float64 {
	return 3.0 * b / a
}
