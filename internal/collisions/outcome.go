package collisions

import (
	"github.com/san-kum/sdmsim/internal/superdrop"
)

// Outcome enacts a confirmed collision of gamma real-droplet pairs on a
// superdroplet pair ordered so that drop1.Xi() >= drop2.Xi(). gamma is
// never zero and never exceeds drop1.Xi()/drop2.Xi(). phi is a uniform
// number in [0, 1) conditioned on the collision having occurred.
//
// isNull reports whether drop1 was left with zero multiplicity.
type Outcome interface {
	Enact(gamma uint64, phi float64, drop1, drop2 *superdrop.Superdrop) (isNull bool, err error)
}

// Rebound leaves both superdroplets untouched.
type Rebound struct{}

func (Rebound) Enact(uint64, float64, *superdrop.Superdrop, *superdrop.Superdrop) (bool, error) {
	return false, nil
}
