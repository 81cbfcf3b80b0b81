// Package analysis compares superdroplet ensembles with reference
// solutions and reduces them to droplet size spectra.
//
//   - [GolovinNumConc] and [GolovinMeanVolume]: the analytic moments of
//     the Golovin kernel, against which a collision-only run is checked.
//   - [MassDensity]: the liquid mass density distribution g(ln R),
//     smoothed with a Gaussian kernel in ln R (Shima et al. 2009).
//
// A Golovin run is checked against the exact number concentration:
//
//	want := analysis.GolovinNumConc(n0, lwc, collisions.GolovinB, t)
//	relErr := math.Abs(got-want) / want
package analysis
