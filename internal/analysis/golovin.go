package analysis

import "math"

// GolovinNumConc is the number concentration at time t for the kernel
// K = b(v1+v2), starting from n0 droplets per unit volume holding a total
// liquid volume fraction lwv [m^3 m^-3]. Collisions conserve lwv so
// dn/dt = -b lwv n exactly, whatever the initial distribution.
func GolovinNumConc(n0, lwv, b, t float64) float64 {
	return n0 * math.Exp(-b*lwv*t)
}

// GolovinMeanVolume is the mean droplet volume at time t, lwv / n(t).
func GolovinMeanVolume(n0, lwv, b, t float64) float64 {
	return lwv / GolovinNumConc(n0, lwv, b, t)
}

// RelativeError is |got-want|/|want|.
func RelativeError(got, want float64) float64 {
	return math.Abs(got-want) / math.Abs(want)
}
