package sdm

import "math/rand/v2"

// GenPool is a fixed set of independent random generators. A generator
// checked out of the pool is owned exclusively by the caller until it is
// released.
type GenPool struct {
	gens chan *rand.Rand
	size int
}

// NewGenPool creates size PCG generators deterministically derived from seed.
func NewGenPool(size int, seed uint64) *GenPool {
	if size < 1 {
		size = 1
	}
	srcs := make([]rand.Source, size)
	for i := range srcs {
		srcs[i] = rand.NewPCG(seed, uint64(i)+1)
	}
	return NewGenPoolFromSources(srcs...)
}

// NewGenPoolFromSources wraps each source in its own generator.
func NewGenPoolFromSources(srcs ...rand.Source) *GenPool {
	p := &GenPool{
		gens: make(chan *rand.Rand, len(srcs)),
		size: len(srcs),
	}
	for _, src := range srcs {
		p.gens <- rand.New(src)
	}
	return p
}

func (p *GenPool) Size() int {
	return p.size
}

// Acquire blocks until a generator is free. Every Acquire must be paired
// with a Release; prefer With.
func (p *GenPool) Acquire() *rand.Rand {
	return <-p.gens
}

func (p *GenPool) Release(g *rand.Rand) {
	p.gens <- g
}

// With checks out a generator for the duration of fn.
func (p *GenPool) With(fn func(g *rand.Rand)) {
	g := p.Acquire()
	defer p.Release(g)
	fn(g)
}

// Drand draws one uniform number in [lo, hi).
func (p *GenPool) Drand(lo, hi float64) float64 {
	var v float64
	p.With(func(g *rand.Rand) {
		v = Uniform(g, lo, hi)
	})
	return v
}

// Uniform returns a uniform number in [lo, hi) drawn from g.
func Uniform(g *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*g.Float64()
}
