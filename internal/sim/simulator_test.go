package sim_test

import (
	"context"
	"errors"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sdmsim/internal/analysis"
	"github.com/san-kum/sdmsim/internal/collisions"
	"github.com/san-kum/sdmsim/internal/config"
	"github.com/san-kum/sdmsim/internal/metrics"
	"github.com/san-kum/sdmsim/internal/process"
	"github.com/san-kum/sdmsim/internal/sdm"
	"github.com/san-kum/sdmsim/internal/sim"
	"github.com/san-kum/sdmsim/internal/superdrop"
	"github.com/san-kum/sdmsim/internal/thermo"
)

// kill nulls every other superdroplet, or fails on failAt.
type kill struct {
	failAt uint64
}

func (k kill) Microphysics(_ *sdm.Team, t uint64, drops []superdrop.Superdrop, _ *thermo.State, _ *sdm.GenPool) ([]superdrop.Superdrop, error) {
	if k.failAt != 0 && t == k.failAt {
		return drops, sdm.ErrNotConverged
	}
	for i := 0; i < len(drops); i += 2 {
		drops[i].SetXi(0)
	}
	return drops, nil
}

func smallConfig(preset string) *config.Config {
	cfg := config.GetPreset(preset)
	cfg.Init.Supers = 128
	cfg.Timesteps.Duration = 60
	cfg.Timesteps.Observation = 10
	cfg.Workers = 2
	return cfg
}

func gridboxes(n, supers int) []sim.Gridbox {
	gbxs := make([]sim.Gridbox, n)
	for i := range gbxs {
		drops := make([]superdrop.Superdrop, supers)
		for j := range drops {
			drops[j] = superdrop.New(uint32(i), [3]float64{}, superdrop.Attrs{Solute: superdrop.NaCl, Xi: 5, Radius: 1e-5}, superdrop.ID{})
		}
		gbxs[i] = sim.Gridbox{
			Index: i,
			State: thermo.State{Volume: 1, Press: 1e5, Temp: 280, Qvap: 5e-3},
			Drops: drops,
		}
	}
	return gbxs
}

var _ = Describe("Simulator", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("with the golovin preset", func() {
		It("conserves droplet mass while reducing number", func() {
			cfg := smallConfig("golovin")
			s, gbxs, err := sim.Setup(cfg, logr.Discard())
			Expect(err).NotTo(HaveOccurred())

			drift, ratio := metrics.NewMassDrift(), metrics.NewNumConcRatio()
			s.AddMetric(drift)
			s.AddMetric(ratio)

			res, err := s.Run(ctx, gbxs, sim.RunConfig(cfg))
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Ticks).To(Equal(uint64(600)))
			Expect(res.Steps).To(Equal(60))
			Expect(res.Observations).To(Equal(7))
			Expect(res.Diagnostics).To(HaveLen(7))
			Expect(res.Metrics).To(HaveKeyWithValue("mass_drift", BeNumerically("<", 1e-9)))
			Expect(res.Metrics["numconc_ratio"]).To(BeNumerically("<", 1.0))

			first := res.Diagnostics[0]
			lwv := first.MassConc / thermo.RhoL
			want := analysis.GolovinNumConc(first.NumConc, lwv, collisions.GolovinB, 60) / first.NumConc
			Expect(res.Metrics["numconc_ratio"]).To(BeNumerically("~", want, want/2))
			Expect(res.Diagnostics[6].Time).To(BeNumerically("~", 60.0, 1e-9))
		})
	})

	Context("with the cond preset", func() {
		It("grows droplets and releases latent heat", func() {
			cfg := smallConfig("cond")
			cfg.Timesteps.Duration = 20
			s, gbxs, err := sim.Setup(cfg, logr.Discard())
			Expect(err).NotTo(HaveOccurred())
			temp0 := gbxs[0].State.Temp

			res, err := s.Run(ctx, gbxs, sim.RunConfig(cfg))
			Expect(err).NotTo(HaveOccurred())

			first, last := res.Diagnostics[0], res.Diagnostics[len(res.Diagnostics)-1]
			Expect(last.MeanRadius).To(BeNumerically(">", first.MeanRadius))
			Expect(gbxs[0].State.Temp).To(BeNumerically(">", temp0))
			Expect(last.Qcond).To(BeNumerically(">", first.Qcond))
		})
	})

	It("compacts null superdroplets after each step", func() {
		p, err := process.NewConstTstep("kill", 4, kill{})
		Expect(err).NotTo(HaveOccurred())
		gbxs := gridboxes(3, 8)

		s := sim.New(p, sdm.NewGenPool(2, 1), logr.Discard())
		res, err := s.Run(ctx, gbxs, sim.Config{Tick: 1, Tend: 5, Parallel: 2})
		Expect(err).NotTo(HaveOccurred())

		// fires on ticks 0 and 4
		Expect(res.Steps).To(Equal(2))
		Expect(res.Nulls).To(Equal(3 * (4 + 2)))
		for _, gbx := range gbxs {
			Expect(gbx.Drops).To(HaveLen(2))
			Expect(superdrop.CountNull(gbx.Drops)).To(BeZero())
		}
	})

	It("wraps microphysics errors with the tick and gridbox", func() {
		p, err := process.NewConstTstep("kill", 2, kill{failAt: 4})
		Expect(err).NotTo(HaveOccurred())

		s := sim.New(p, sdm.NewGenPool(1, 1), logr.Discard())
		res, err := s.Run(ctx, gridboxes(2, 4), sim.Config{Tick: 1, Tend: 10})

		Expect(err).To(MatchError(sdm.ErrNotConverged))
		var stepErr *sdm.StepError
		Expect(errors.As(err, &stepErr)).To(BeTrue())
		Expect(stepErr.Tick).To(Equal(uint64(4)))
		Expect(stepErr.Process).To(Equal("kill"))
		Expect(res.Steps).To(Equal(2))
	})

	It("stops when the context is canceled", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		s := sim.New(process.Null{}, sdm.NewGenPool(1, 1), logr.Discard())
		_, err := s.Run(cctx, gridboxes(1, 1), sim.Config{Tick: 1, Tend: 10})
		Expect(err).To(MatchError(sdm.ErrCanceled))
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})

	It("rejects an invalid run configuration", func() {
		s := sim.New(process.Null{}, sdm.NewGenPool(1, 1), logr.Discard())
		_, err := s.Run(ctx, nil, sim.Config{Tick: 0, Tend: 10})
		Expect(err).To(MatchError(sdm.ErrInvalidConfig))
	})

	It("hands per-gridbox diagnostics to observers", func() {
		var ticks []uint64
		s := sim.New(process.Null{}, sdm.NewGenPool(1, 1), logr.Discard())
		s.AddObserver(sim.ObserverFunc(func(tick uint64, diags []metrics.Diagnostics) error {
			ticks = append(ticks, tick)
			Expect(diags).To(HaveLen(3))
			Expect(diags[2].Gridbox).To(Equal(2))
			Expect(diags[0].TotalXi).To(Equal(20.0))
			return nil
		}))

		res, err := s.Run(ctx, gridboxes(3, 4), sim.Config{Tick: 0.5, Tend: 9, ObsInterval: 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(ticks).To(Equal([]uint64{0, 3, 6, 9}))
		Expect(res.Steps).To(BeZero())
	})
})

var _ = Describe("Ensemble", func() {
	It("runs one member per seed", func() {
		cfg := smallConfig("golovin")
		cfg.Timesteps.Duration = 10
		results, err := sim.NewEnsemble(cfg, 2, logr.Discard()).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(2))

		a, b := results[0].Diagnostics, results[1].Diagnostics
		Expect(a[0].MeanRadius).NotTo(Equal(b[0].MeanRadius))
	})
})
