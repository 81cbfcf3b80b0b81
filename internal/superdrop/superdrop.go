// Package superdrop defines the super-droplet: one computational particle
// standing in for many identical real droplets.
package superdrop

import (
	"fmt"
	"math"

	"github.com/san-kum/sdmsim/internal/thermo"
)

// Solute holds the read-only properties of the dissolved aerosol.
type Solute struct {
	RhoSol float64 `yaml:"rho_sol" json:"rho_sol"` // density [kg m^-3]
	MrSol  float64 `yaml:"mr_sol" json:"mr_sol"`   // molecular mass [kg mol^-1]
	Ionic  float64 `yaml:"ionic" json:"ionic"`     // degree of ionic dissociation
}

// NaCl is the default solute.
var NaCl = Solute{RhoSol: thermo.RhoSol, MrSol: thermo.MrSol, Ionic: thermo.Ionic}

// Attrs are the physical attributes of a superdroplet.
type Attrs struct {
	Solute Solute
	Xi     uint64  // multiplicity
	Radius float64 // [m]
	Msol   float64 // dissolved solute mass [kg]
}

// Superdrop is one super-particle. Attributes are only mutated through
// bounded setters so the radius never falls below the dry radius.
//
// Multiplicities are widened to float64 for mass arithmetic; counts above
// 2^53 lose integer precision there and are never narrowed back.
type Superdrop struct {
	id       ID
	gbxindex uint32
	coords   [3]float64 // coord3, coord1, coord2 [m]
	attrs    Attrs
}

// New creates a superdroplet, clamping the radius to at least the dry radius.
func New(gbxindex uint32, coords [3]float64, attrs Attrs, id ID) Superdrop {
	d := Superdrop{id: id, gbxindex: gbxindex, coords: coords, attrs: attrs}
	d.SetRadius(attrs.Radius)
	return d
}

func (d *Superdrop) ID() ID { return d.id }

func (d *Superdrop) GbxIndex() uint32 { return d.gbxindex }

func (d *Superdrop) SetGbxIndex(i uint32) { d.gbxindex = i }

func (d *Superdrop) Coords() [3]float64 { return d.coords }

func (d *Superdrop) SetCoords(c [3]float64) { d.coords = c }

func (d *Superdrop) Attrs() Attrs { return d.attrs }

func (d *Superdrop) Solute() Solute { return d.attrs.Solute }

func (d *Superdrop) Xi() uint64 { return d.attrs.Xi }

func (d *Superdrop) Radius() float64 { return d.attrs.Radius }

func (d *Superdrop) Msol() float64 { return d.attrs.Msol }

func (d *Superdrop) Rcubed() float64 {
	r := d.attrs.Radius
	return r * r * r
}

func (d *Superdrop) Volume() float64 { return thermo.SphereVolume(d.attrs.Radius) }

// IsNull reports whether the multiplicity has reached zero.
func (d *Superdrop) IsNull() bool { return d.attrs.Xi == 0 }

func (d *Superdrop) String() string {
	return fmt.Sprintf("superdrop{id=%s gbx=%d xi=%d r=%.4e msol=%.4e}",
		d.id, d.gbxindex, d.attrs.Xi, d.attrs.Radius, d.attrs.Msol)
}

// SetXi sets the multiplicity. Zero marks the superdroplet as null; null
// superdroplets are inert and removed by Compact.
func (d *Superdrop) SetXi(xi uint64) {
	d.attrs.Xi = xi
}

// SetRadius sets the radius, clamped to at least the dry radius.
func (d *Superdrop) SetRadius(r float64) {
	d.attrs.Radius = math.Max(r, d.DryRadius())
}

// ChangeRadius sets the radius, clamped to at least the dry radius, and
// returns the change actually applied.
func (d *Superdrop) ChangeRadius(newr float64) float64 {
	old := d.attrs.Radius
	d.SetRadius(newr)
	return d.attrs.Radius - old
}

func (d *Superdrop) SetMsol(msol float64) {
	d.attrs.Msol = msol
}

// DryRadius is the radius of a sphere of pure solute of mass msol.
func (d *Superdrop) DryRadius() float64 {
	return math.Cbrt(3.0 * d.attrs.Msol / (4.0 * math.Pi * d.attrs.Solute.RhoSol))
}

// Mass is the total mass of one real droplet: liquid water plus solute.
func (d *Superdrop) Mass() float64 {
	rhoL := thermo.RhoL
	solpart := d.attrs.Msol * (1.0 - rhoL/d.attrs.Solute.RhoSol)
	return solpart + rhoL*d.Volume()
}

// CondensateMass is Mass minus the solute mass, never negative.
func (d *Superdrop) CondensateMass() float64 {
	return math.Max(0, d.Mass()-d.attrs.Msol)
}
