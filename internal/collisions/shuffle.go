package collisions

import (
	"math/rand/v2"

	"github.com/san-kum/sdmsim/internal/sdm"
	"github.com/san-kum/sdmsim/internal/superdrop"
)

// ShuffleFunc permutes drops uniformly at random in place.
type ShuffleFunc func(team *sdm.Team, drops []superdrop.Superdrop, gens *sdm.GenPool) error

// FisherYates shuffles drops on a single worker with one generator
// checked out of gens. The rest of the team is joined before and after.
func FisherYates(team *sdm.Team, drops []superdrop.Superdrop, gens *sdm.GenPool) error {
	return team.Single(func() error {
		gens.With(func(g *rand.Rand) {
			fisherYates(g, drops)
		})
		return nil
	})
}

func fisherYates(g *rand.Rand, drops []superdrop.Superdrop) {
	for i := len(drops) - 1; i > 0; i-- {
		j := int(g.Uint64N(uint64(i) + 1))
		drops[i], drops[j] = drops[j], drops[i]
	}
}

// mergeCutoff is the largest block MergeShuffle shuffles serially.
const mergeCutoff = 1024

// MergeShuffle is the parallel MergeShuffle of Bacher et al. 2015: the
// ensemble is split into 2^c blocks of at most mergeCutoff elements that
// are shuffled independently, then pairs of neighbouring blocks are
// randomly merged until one block remains.
func MergeShuffle(team *sdm.Team, drops []superdrop.Superdrop, gens *sdm.GenPool) error {
	nn := len(drops)
	c := 0
	for (nn >> c) > mergeCutoff {
		c++
	}
	q := 1 << c
	fine := team.WithMinChunk(1)

	err := fine.For(q, func(i int) error {
		j := (nn * i) >> c
		k := (nn * (i + 1)) >> c
		gens.With(func(g *rand.Rand) {
			fisherYates(g, drops[j:k])
		})
		return nil
	})
	if err != nil {
		return err
	}

	for p := 1; p < q; p += p {
		err := fine.For(q/(2*p), func(ii int) error {
			i := ii * 2 * p
			j := (nn * i) >> c
			k := (nn * (i + p)) >> c
			l := (nn * (i + 2*p)) >> c
			gens.With(func(g *rand.Rand) {
				mergeBlocks(g, drops, j, k, l)
			})
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// mergeBlocks randomly interleaves the shuffled blocks [j, k) and [k, l).
func mergeBlocks(g *rand.Rand, drops []superdrop.Superdrop, j, k, l int) {
	u, v, w := j, k, l
	for {
		if g.Uint64()&1 == 1 {
			if v == w {
				break
			}
			drops[u], drops[v] = drops[v], drops[u]
			v++
		} else if u == v {
			break
		}
		u++
	}

	// finish with Fisher-Yates insertions
	for ; u < w; u++ {
		r := j + int(g.Uint64N(uint64(u-j)+1))
		drops[r], drops[u] = drops[u], drops[r]
	}
}
