package collisions

import (
	"math"

	"github.com/san-kum/sdmsim/internal/process"
	"github.com/san-kum/sdmsim/internal/sdm"
	"github.com/san-kum/sdmsim/internal/superdrop"
	"github.com/san-kum/sdmsim/internal/thermo"
)

// Collisions enacts collision events between randomly paired
// superdroplets of one gridbox.
type Collisions struct {
	deltaT  float64
	kernel  Kernel
	outcome Outcome
	shuffle ShuffleFunc
}

// New creates a collision engine evaluating probabilities over deltaT [s].
func New(deltaT float64, kernel Kernel, outcome Outcome) *Collisions {
	return &Collisions{
		deltaT:  deltaT,
		kernel:  kernel,
		outcome: outcome,
		shuffle: FisherYates,
	}
}

// WithShuffle replaces the shuffle used to pair superdroplets.
func (c *Collisions) WithShuffle(fn ShuffleFunc) *Collisions {
	cp := *c
	cp.shuffle = fn
	return &cp
}

func (c *Collisions) DeltaT() float64 {
	return c.deltaT
}

// Microphysics runs one collision step on the gridbox ensemble. Null
// superdroplets produced here stay in place for the caller to compact.
func (c *Collisions) Microphysics(team *sdm.Team, _ uint64, drops []superdrop.Superdrop, state *thermo.State, gens *sdm.GenPool) ([]superdrop.Superdrop, error) {
	_, err := c.Collide(team, drops, state.Volume, gens)
	return drops, err
}

// Collide shuffles drops and collides every consecutive pair within
// volume [m^3]. It returns the number of superdroplets left null.
func (c *Collisions) Collide(team *sdm.Team, drops []superdrop.Superdrop, volume float64, gens *sdm.GenPool) (int, error) {
	if len(drops) < 2 {
		return 0, nil
	}
	if err := c.shuffle(team, drops, gens); err != nil {
		return 0, err
	}
	return c.CollideSupers(team, drops, volume, gens)
}

// CollideSupers collides consecutive pairs of an already shuffled
// ensemble. An odd superdroplet at the end is left unpaired.
func (c *Collisions) CollideSupers(team *sdm.Team, drops []superdrop.Superdrop, volume float64, gens *sdm.GenPool) (int, error) {
	nsupers := len(drops)
	npairs := nsupers / 2
	if npairs == 0 {
		return 0, nil
	}
	scaleP := ScaleFactor(nsupers)

	return team.Count(npairs, func(jj int) (bool, error) {
		kk := jj * 2
		phi := gens.Drand(0, 1)
		return c.CollidePair(&drops[kk], &drops[kk+1], scaleP, volume, phi)
	})
}

// CollidePair resolves one pair given the Monte-Carlo draw phi in [0, 1).
func (c *Collisions) CollidePair(dropA, dropB *superdrop.Superdrop, scaleP, volume, phi float64) (bool, error) {
	drop1, drop2 := Order(dropA, dropB)

	prob := scaleP * float64(drop1.Xi()) * c.kernel.Probability(drop1, drop2, c.deltaT, volume)
	gamma := Gamma(drop1.Xi(), drop2.Xi(), prob, phi)
	if gamma == 0 {
		return false, nil
	}
	return c.outcome.Enact(gamma, RescalePhi(phi, prob), drop1, drop2)
}

// ScaleFactor corrects for evaluating only floor(n/2) of the n(n-1)/2
// possible pairs in an ensemble of n superdroplets.
func ScaleFactor(nsupers int) float64 {
	n := float64(nsupers)
	npairs := float64(nsupers / 2)
	return n * (n - 1.0) / (2.0 * npairs)
}

// Order returns the pair so that the first has the larger multiplicity.
// Ties keep dropA first.
func Order(dropA, dropB *superdrop.Superdrop) (*superdrop.Superdrop, *superdrop.Superdrop) {
	if dropA.Xi() < dropB.Xi() {
		return dropB, dropA
	}
	return dropA, dropB
}

// Gamma is the number of real-droplet collisions one Monte-Carlo event
// represents, capped so no more than xi1 droplets take part.
func Gamma(xi1, xi2 uint64, prob, phi float64) uint64 {
	if xi2 == 0 {
		return 0
	}
	floor := math.Floor(prob)
	gamma := uint64(floor)
	if phi < prob-floor {
		gamma++
	}
	return min(gamma, xi1/xi2)
}

// RescalePhi maps phi back onto [0, 1) independently of the gamma draw:
// draws below the fractional probability are stretched over [0, 1), the
// rest are rescaled from [frac, 1).
func RescalePhi(phi, prob float64) float64 {
	frac := prob - math.Floor(prob)
	switch {
	case frac <= 0:
		return phi
	case phi < frac:
		return phi / frac
	default:
		return (phi - frac) / (1.0 - frac)
	}
}

// NewProcess wraps a collision engine as a constant-interval process
// that fires every interval ticks, with deltaT = toSeconds(interval).
func NewProcess(interval uint64, toSeconds func(uint64) float64, kernel Kernel, outcome Outcome) (process.ConstTstep[*Collisions], error) {
	return process.NewConstTstep("collisions", interval, New(toSeconds(interval), kernel, outcome))
}
