package process_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sdmsim/internal/process"
	"github.com/san-kum/sdmsim/internal/sdm"
	"github.com/san-kum/sdmsim/internal/superdrop"
	"github.com/san-kum/sdmsim/internal/thermo"
)

// grow adds delta to every radius and records the ticks it ran on.
type grow struct {
	delta float64
	ticks *[]uint64
	err   error
}

func (g grow) Microphysics(_ *sdm.Team, t uint64, drops []superdrop.Superdrop, state *thermo.State, _ *sdm.GenPool) ([]superdrop.Superdrop, error) {
	if g.err != nil {
		return drops, g.err
	}
	*g.ticks = append(*g.ticks, t)
	for i := range drops {
		drops[i].SetRadius(drops[i].Radius() + g.delta)
	}
	state.Temp += g.delta
	return drops, nil
}

func newDrops() []superdrop.Superdrop {
	gen := &superdrop.IntIDGen{}
	drops := make([]superdrop.Superdrop, 3)
	for i := range drops {
		drops[i] = superdrop.New(0, [3]float64{}, superdrop.Attrs{Solute: superdrop.NaCl, Xi: 10, Radius: 1e-6}, gen.Next())
	}
	return drops
}

func mustConst(name string, interval uint64, g grow) process.ConstTstep[grow] {
	p, err := process.NewConstTstep(name, interval, g)
	Expect(err).NotTo(HaveOccurred())
	return p
}

var _ = Describe("ConstTstep", func() {
	var (
		ticks []uint64
		p     process.ConstTstep[grow]
		team  *sdm.Team
		gens  *sdm.GenPool
	)

	BeforeEach(func() {
		ticks = nil
		p = mustConst("grow", 5, grow{delta: 1e-6, ticks: &ticks})
		team = sdm.NewTeam(1)
		gens = sdm.NewGenPool(1, 1)
	})

	It("fires on multiples of its interval", func() {
		Expect(p.OnStep(0)).To(BeTrue())
		Expect(p.OnStep(5)).To(BeTrue())
		Expect(p.OnStep(3)).To(BeFalse())
		Expect(p.OnStep(12)).To(BeFalse())
	})

	It("reports the next multiple strictly after t", func() {
		Expect(p.NextStep(0)).To(Equal(uint64(5)))
		Expect(p.NextStep(4)).To(Equal(uint64(5)))
		Expect(p.NextStep(5)).To(Equal(uint64(10)))
		Expect(p.NextStep(11)).To(Equal(uint64(15)))
	})

	It("passes the ensemble through off its schedule", func() {
		drops := newDrops()
		state := thermo.State{Temp: 280}

		out, err := p.RunStep(team, 3, drops, &state, gens)
		Expect(err).NotTo(HaveOccurred())
		Expect(ticks).To(BeEmpty())
		Expect(out[0].Radius()).To(Equal(1e-6))
		Expect(state.Temp).To(Equal(280.0))

		_, err = p.RunStep(team, 10, drops, &state, gens)
		Expect(err).NotTo(HaveOccurred())
		Expect(ticks).To(Equal([]uint64{10}))
		Expect(out[0].Radius()).To(BeNumerically("~", 2e-6, 1e-18))
	})

	It("rejects a zero interval", func() {
		_, err := process.NewConstTstep("bad", 0, grow{})
		Expect(errors.Is(err, sdm.ErrInvalidInterval)).To(BeTrue())
	})

	It("wraps routine errors with the process name", func() {
		boom := errors.New("boom")
		bad := mustConst("bad", 1, grow{err: boom})
		_, err := bad.RunStep(team, 0, newDrops(), &thermo.State{}, gens)
		Expect(err).To(MatchError(ContainSubstring("bad: boom")))
		Expect(errors.Is(err, boom)).To(BeTrue())
	})
})

var _ = Describe("Null", func() {
	It("never fires", func() {
		n := process.Null{}
		Expect(n.OnStep(0)).To(BeFalse())
		Expect(n.NextStep(0)).To(Equal(uint64(process.Never)))

		drops := newDrops()
		out, err := n.RunStep(nil, 0, drops, &thermo.State{}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(drops))
	})
})

var _ = Describe("Combined", func() {
	var (
		ticksA, ticksB []uint64
		a, b           process.ConstTstep[grow]
		team           *sdm.Team
		gens           *sdm.GenPool
	)

	BeforeEach(func() {
		ticksA, ticksB = nil, nil
		a = mustConst("a", 4, grow{delta: 1e-6, ticks: &ticksA})
		b = mustConst("b", 6, grow{delta: 2e-6, ticks: &ticksB})
		team = sdm.NewTeam(1)
		gens = sdm.NewGenPool(1, 1)
	})

	It("takes the earliest next step and ORs on-step", func() {
		c := process.Combine(a, b)
		Expect(c.NextStep(0)).To(Equal(uint64(4)))
		Expect(c.NextStep(4)).To(Equal(uint64(6)))
		Expect(c.NextStep(6)).To(Equal(uint64(8)))
		Expect(c.OnStep(6)).To(BeTrue())
		Expect(c.OnStep(8)).To(BeTrue())
		Expect(c.OnStep(7)).To(BeFalse())
	})

	It("runs a then b, each gated on its own schedule", func() {
		c := process.Combine(a, b)
		drops := newDrops()
		state := thermo.State{}

		for t := uint64(0); t <= 12; t = c.NextStep(t) {
			var err error
			drops, err = c.RunStep(team, t, drops, &state, gens)
			Expect(err).NotTo(HaveOccurred())
		}

		Expect(ticksA).To(Equal([]uint64{0, 4, 8, 12}))
		Expect(ticksB).To(Equal([]uint64{0, 6, 12}))
		Expect(drops[0].Radius()).To(BeNumerically("~", 1e-6+4e-6+6e-6, 1e-15))
	})

	DescribeTable("is indistinguishable from P when combined with Null",
		func(mk func(p process.Process) process.Process) {
			var ticksP, ticksQ []uint64
			p := mustConst("p", 3, grow{delta: 1e-6, ticks: &ticksP})
			q := mk(mustConst("p", 3, grow{delta: 1e-6, ticks: &ticksQ}))

			dropsP, dropsQ := newDrops(), newDrops()
			stateP, stateQ := thermo.State{Temp: 270}, thermo.State{Temp: 270}

			for t := uint64(0); t < 20; t++ {
				Expect(q.OnStep(t)).To(Equal(p.OnStep(t)))
				Expect(q.NextStep(t)).To(Equal(p.NextStep(t)))

				var err error
				dropsP, err = p.RunStep(team, t, dropsP, &stateP, gens)
				Expect(err).NotTo(HaveOccurred())
				dropsQ, err = q.RunStep(team, t, dropsQ, &stateQ, gens)
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(ticksQ).To(Equal(ticksP))
			Expect(stateQ).To(Equal(stateP))
			for i := range dropsP {
				Expect(dropsQ[i].Radius()).To(Equal(dropsP[i].Radius()))
			}
		},
		Entry("null on the right", func(p process.Process) process.Process { return process.Combine(p, process.Null{}) }),
		Entry("null on the left", func(p process.Process) process.Process { return process.Combine(process.Null{}, p) }),
		Entry("single chain", func(p process.Process) process.Process { return process.Chain(p) }),
	)

	It("is associative", func() {
		var t1, t2 []uint64
		c := mustConst("c", 5, grow{delta: 3e-6, ticks: &t1})
		c2 := mustConst("c", 5, grow{delta: 3e-6, ticks: &t2})

		left := process.Combine(process.Combine(a, b), c)
		right := process.Combine(a, process.Combine(b, c2))

		dl, dr := newDrops(), newDrops()
		sl, sr := thermo.State{}, thermo.State{}
		for t := uint64(0); t < 30; t++ {
			Expect(left.NextStep(t)).To(Equal(right.NextStep(t)))
			Expect(left.OnStep(t)).To(Equal(right.OnStep(t)))
			var err error
			dl, err = left.RunStep(team, t, dl, &sl, gens)
			Expect(err).NotTo(HaveOccurred())
			dr, err = right.RunStep(team, t, dr, &sr, gens)
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(sl.Temp).To(BeNumerically("~", sr.Temp, 1e-12))
		Expect(t1).To(Equal(t2))
	})

	It("chains an empty pipeline to Null", func() {
		Expect(process.Chain().Name()).To(Equal("null"))
		Expect(process.Chain(a, b).Name()).To(Equal("a+b"))
	})
})
