package sim

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/sdmsim/internal/logging"
	"github.com/san-kum/sdmsim/internal/metrics"
	"github.com/san-kum/sdmsim/internal/process"
	"github.com/san-kum/sdmsim/internal/sdm"
	"github.com/san-kum/sdmsim/internal/superdrop"
)

// Simulator advances gridboxes through a microphysics pipeline on an
// integer tick clock. Gridboxes are independent and are stepped in
// parallel, each by a team of Config.Workers goroutines.
type Simulator struct {
	pipeline  process.Process
	gens      *sdm.GenPool
	logger    logr.Logger
	metrics   []metrics.Metric
	observers []Observer
}

func New(pipeline process.Process, gens *sdm.GenPool, logger logr.Logger) *Simulator {
	return &Simulator{
		pipeline:  pipeline,
		gens:      gens,
		logger:    logger,
		metrics:   make([]metrics.Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }

// Run steps gbxs from tick 0 to cfg.Tend. Null superdroplets are
// compacted away after every step. On error the gridboxes hold the state
// reached so far.
func (s *Simulator) Run(ctx context.Context, gbxs []Gridbox, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Diagnostics: make([]metrics.Diagnostics, 0),
		Metrics:     make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	team := sdm.NewTeam(cfg.Workers)
	s.logger.Info("run started", "pipeline", s.pipeline.Name(), "gridboxes", len(gbxs), "tend", cfg.Tend)

	t := uint64(0)
	for t < cfg.Tend {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("tick %d: %w: %w", t, sdm.ErrCanceled, ctx.Err())
		default:
		}

		if onObs(cfg, t) {
			if err := s.observe(t, gbxs, cfg, result); err != nil {
				return result, err
			}
		}

		if s.pipeline.OnStep(t) {
			nulls, err := s.step(ctx, team, t, gbxs, cfg)
			result.Nulls += nulls
			if err != nil {
				return result, err
			}
			result.Steps++
		}

		t = min(s.pipeline.NextStep(t), nextObs(cfg, t), cfg.Tend)
		result.Ticks = t
	}

	if onObs(cfg, t) {
		if err := s.observe(t, gbxs, cfg, result); err != nil {
			return result, err
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	s.logger.Info("run finished", "ticks", result.Ticks, "steps", result.Steps, "nulls", result.Nulls)
	return result, nil
}

// step runs the pipeline once on every gridbox.
func (s *Simulator) step(ctx context.Context, team *sdm.Team, t uint64, gbxs []Gridbox, cfg Config) (int, error) {
	s.logger.V(logging.DEBUG).Info("microphysics", "tick", t, "pipeline", s.pipeline.Name())

	var nulls atomic.Int64
	g, _ := errgroup.WithContext(ctx)
	if cfg.Parallel > 0 {
		g.SetLimit(cfg.Parallel)
	}
	for i := range gbxs {
		gbx := &gbxs[i]
		g.Go(func() error {
			drops, err := s.pipeline.RunStep(team, t, gbx.Drops, &gbx.State, s.gens)
			if err != nil {
				return &sdm.StepError{Tick: t, Gridbox: gbx.Index, Process: s.pipeline.Name(), Wrapped: err}
			}
			var n int
			gbx.Drops, n = superdrop.Compact(drops)
			nulls.Add(int64(n))
			s.logger.V(logging.TRACE).Info("gridbox stepped", "tick", t, "gridbox", gbx.Index, "nsupers", len(gbx.Drops), "nulls", n)
			return nil
		})
	}
	err := g.Wait()
	return int(nulls.Load()), err
}

func (s *Simulator) observe(t uint64, gbxs []Gridbox, cfg Config, result *Result) error {
	seconds := float64(t) * cfg.Tick
	diags := make([]metrics.Diagnostics, len(gbxs))
	volumes := make([]float64, len(gbxs))
	for i := range gbxs {
		diags[i] = metrics.Compute(t, seconds, gbxs[i].Index, gbxs[i].Drops, &gbxs[i].State)
		volumes[i] = gbxs[i].State.Volume
	}

	total := metrics.Total(diags, volumes)
	result.Diagnostics = append(result.Diagnostics, total)
	result.Observations++
	for _, m := range s.metrics {
		m.Observe(total)
	}
	s.logger.V(logging.VERBOSE).Info("observation", "tick", t, "time", seconds,
		"nsupers", total.Nsupers, "numconc", total.NumConc, "mean_radius", total.MeanRadius, "temp", total.Temp)

	for _, o := range s.observers {
		if err := o.Observe(t, diags); err != nil {
			return fmt.Errorf("observer at tick %d: %w", t, err)
		}
	}
	return nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.Tick > 0) {
		return fmt.Errorf("tick must be positive, got %g: %w", cfg.Tick, sdm.ErrInvalidConfig)
	}
	if cfg.Tend == 0 {
		return fmt.Errorf("tend must be positive: %w", sdm.ErrInvalidConfig)
	}
	return nil
}

func onObs(cfg Config, t uint64) bool {
	return cfg.ObsInterval > 0 && t%cfg.ObsInterval == 0
}

func nextObs(cfg Config, t uint64) uint64 {
	if cfg.ObsInterval == 0 {
		return process.Never
	}
	return (t/cfg.ObsInterval + 1) * cfg.ObsInterval
}
