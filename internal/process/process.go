// Package process schedules microphysical routines on a common integer
// tick clock.
//
// A [Process] fires on some ticks and passes the ensemble through
// unchanged on all others. Processes compose sequentially with [Combine];
// the combination is associative and [Null] is its identity, so any
// pipeline of microphysics can be assembled by chaining:
//
//	pipeline := process.Chain(condensation, collisions)
//	for t := uint64(0); t < tend; t = pipeline.NextStep(t) {
//		drops, err = pipeline.RunStep(team, t, drops, &state, gens)
//	}
package process

import (
	"fmt"
	"math"

	"github.com/san-kum/sdmsim/internal/sdm"
	"github.com/san-kum/sdmsim/internal/superdrop"
	"github.com/san-kum/sdmsim/internal/thermo"
)

// Microphysics is a routine that mutates one gridbox's superdroplets and
// thermodynamic state. It may reorder drops but returns the same elements.
type Microphysics interface {
	Microphysics(team *sdm.Team, t uint64, drops []superdrop.Superdrop, state *thermo.State, gens *sdm.GenPool) ([]superdrop.Superdrop, error)
}

// Process is a microphysics routine bound to a schedule.
type Process interface {
	// NextStep returns the first tick after t on which the process fires.
	NextStep(t uint64) uint64
	// OnStep reports whether the process fires on tick t.
	OnStep(t uint64) bool
	// RunStep runs the routine if OnStep(t), else returns drops unchanged.
	RunStep(team *sdm.Team, t uint64, drops []superdrop.Superdrop, state *thermo.State, gens *sdm.GenPool) ([]superdrop.Superdrop, error)
	Name() string
}

// Never is the tick a process that never fires reports as its next step.
const Never = math.MaxUint64

// ConstTstep fires its routine every interval ticks.
type ConstTstep[M Microphysics] struct {
	name     string
	interval uint64
	do       M
}

// NewConstTstep binds do to a constant interval, which must be positive.
func NewConstTstep[M Microphysics](name string, interval uint64, do M) (ConstTstep[M], error) {
	if interval == 0 {
		return ConstTstep[M]{}, fmt.Errorf("%s: %w", name, sdm.ErrInvalidInterval)
	}
	return ConstTstep[M]{name: name, interval: interval, do: do}, nil
}

func (p ConstTstep[M]) NextStep(t uint64) uint64 {
	return (t/p.interval + 1) * p.interval
}

func (p ConstTstep[M]) OnStep(t uint64) bool {
	return t%p.interval == 0
}

func (p ConstTstep[M]) RunStep(team *sdm.Team, t uint64, drops []superdrop.Superdrop, state *thermo.State, gens *sdm.GenPool) ([]superdrop.Superdrop, error) {
	if !p.OnStep(t) {
		return drops, nil
	}
	out, err := p.do.Microphysics(team, t, drops, state, gens)
	if err != nil {
		return out, fmt.Errorf("%s: %w", p.name, err)
	}
	return out, nil
}

func (p ConstTstep[M]) Name() string { return p.name }

func (p ConstTstep[M]) Interval() uint64 { return p.interval }

// Routine returns the wrapped microphysics.
func (p ConstTstep[M]) Routine() M { return p.do }

// Null never fires.
type Null struct{}

func (Null) NextStep(uint64) uint64 { return Never }

func (Null) OnStep(uint64) bool { return false }

func (Null) RunStep(_ *sdm.Team, _ uint64, drops []superdrop.Superdrop, _ *thermo.State, _ *sdm.GenPool) ([]superdrop.Superdrop, error) {
	return drops, nil
}

func (Null) Name() string { return "null" }

// Combined runs A then B on the same ensemble and state. Each still
// gates on its own schedule.
type Combined[A, B Process] struct {
	a A
	b B
}

func Combine[A, B Process](a A, b B) Combined[A, B] {
	return Combined[A, B]{a: a, b: b}
}

func (c Combined[A, B]) NextStep(t uint64) uint64 {
	return min(c.a.NextStep(t), c.b.NextStep(t))
}

func (c Combined[A, B]) OnStep(t uint64) bool {
	return c.a.OnStep(t) || c.b.OnStep(t)
}

func (c Combined[A, B]) RunStep(team *sdm.Team, t uint64, drops []superdrop.Superdrop, state *thermo.State, gens *sdm.GenPool) ([]superdrop.Superdrop, error) {
	drops, err := c.a.RunStep(team, t, drops, state, gens)
	if err != nil {
		return drops, err
	}
	return c.b.RunStep(team, t, drops, state, gens)
}

func (c Combined[A, B]) Name() string {
	return c.a.Name() + "+" + c.b.Name()
}

// Chain combines processes left to right. An empty chain is Null.
func Chain(ps ...Process) Process {
	var out Process = Null{}
	for i, p := range ps {
		if i == 0 {
			out = p
			continue
		}
		out = Combine(out, p)
	}
	return out
}
