package collisions

import (
	"fmt"
	"math"

	"github.com/san-kum/sdmsim/internal/sdm"
	"github.com/san-kum/sdmsim/internal/superdrop"
)

// MinNFrags is the mean fragment count a breakup must exceed so that it
// increases multiplicity.
const MinNFrags = 2.5

// Breakup shatters a colliding pair into fragments. At most one breakup
// event is resolved per pair per call: any nonzero gamma is treated as one
// event.
type Breakup struct {
	Frags Fragments
}

func (b Breakup) Enact(_ uint64, _ float64, drop1, drop2 *superdrop.Superdrop) (bool, error) {
	return false, BreakUp(b.Frags.NFrags(drop1, drop2), drop1, drop2)
}

// BreakUp enacts breakup with nfrags fragments per real droplet pair. It
// returns ErrFragmentPrecondition, leaving the pair untouched, if the
// breakup would not increase drop2's and the pair's total multiplicity.
func BreakUp(nfrags float64, drop1, drop2 *superdrop.Superdrop) error {
	if !(nfrags > MinNFrags) {
		return fmt.Errorf("nfrags %.4f not above %.1f: %w", nfrags, MinNFrags, sdm.ErrFragmentPrecondition)
	}
	if drop1.Xi() == drop2.Xi() {
		return twinBreakup(nfrags, drop1, drop2)
	}
	return differentBreakup(nfrags, drop1, drop2)
}

// twinBreakup handles xi1 == xi2 and produces non-identical twins whose
// multiplicities split the total fragment count, Shima et al. 2009
// section 5.1.3 part (5) option (b).
func twinBreakup(nfrags float64, drop1, drop2 *superdrop.Superdrop) error {
	oldXi := drop2.Xi()
	totnfrags := nfrags * float64(oldXi)

	newXi1 := uint64(math.Round(totnfrags / 2))
	newXi2 := uint64(math.Round(totnfrags - float64(newXi1)))
	newXitot := newXi1 + newXi2

	if newXi2 <= oldXi || newXitot <= 2*oldXi {
		return fmt.Errorf("twin breakup %d -> (%d, %d): %w", oldXi, newXi1, newXi2, sdm.ErrFragmentPrecondition)
	}

	scale := float64(oldXi) / float64(newXitot)
	newR := math.Cbrt((drop1.Rcubed() + drop2.Rcubed()) * scale)
	newMsol := (drop1.Msol() + drop2.Msol()) * scale

	drop1.SetXi(newXi1)
	drop2.SetXi(newXi2)

	drop1.SetMsol(newMsol)
	drop2.SetMsol(newMsol)

	drop1.SetRadius(newR)
	drop2.SetRadius(newR)
	return nil
}

// differentBreakup handles xi1 > xi2: drop1 loses xi2 droplets and drop2
// becomes the fragments of the xi2 colliding pairs, Shima et al. 2009
// section 5.1.3 part (5) option (a).
func differentBreakup(nfrags float64, drop1, drop2 *superdrop.Superdrop) error {
	oldXi1, oldXi2 := drop1.Xi(), drop2.Xi()
	newXi1 := oldXi1 - oldXi2
	newXi2 := uint64(math.Round(nfrags * float64(oldXi2)))

	if newXi2 <= oldXi2 || newXi1+newXi2 <= oldXi1+oldXi2 {
		return fmt.Errorf("breakup (%d, %d) -> (%d, %d): %w", oldXi1, oldXi2, newXi1, newXi2, sdm.ErrFragmentPrecondition)
	}

	scale := float64(oldXi2) / float64(newXi2)
	newR := math.Cbrt((drop1.Rcubed() + drop2.Rcubed()) * scale)
	newMsol := (drop1.Msol() + drop2.Msol()) * scale

	drop1.SetXi(newXi1)
	drop2.SetXi(newXi2)
	drop2.SetMsol(newMsol)
	drop2.SetRadius(newR)
	return nil
}
