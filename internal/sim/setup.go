package sim

import (
	"fmt"
	"runtime"

	"github.com/go-logr/logr"

	"github.com/san-kum/sdmsim/internal/config"
	"github.com/san-kum/sdmsim/internal/initsupers"
	"github.com/san-kum/sdmsim/internal/sdm"
	"github.com/san-kum/sdmsim/internal/superdrop"
	"github.com/san-kum/sdmsim/internal/thermo"
)

// InitialState is the thermodynamic state every gridbox starts from.
func InitialState(d config.DomainConfig) thermo.State {
	psat := thermo.SaturationPressure(d.Temp)
	qvap := d.Supersat * thermo.MrRatio * psat / (d.Press - d.Supersat*psat)
	return thermo.State{
		Volume: d.Volume,
		Press:  d.Press,
		Temp:   d.Temp,
		Qvap:   qvap,
		Qcond:  d.Qcond,
		Wvel:   d.Wvel,
	}
}

// NewGridboxes initialises every gridbox of cfg. Superdroplet identities
// are unique across the domain.
func NewGridboxes(cfg *config.Config, gens *sdm.GenPool) ([]Gridbox, error) {
	ids := &superdrop.IntIDGen{}
	gbxs := make([]Gridbox, cfg.Domain.Gridboxes)
	for i := range gbxs {
		state := InitialState(cfg.Domain)
		if err := state.Validate(); err != nil {
			return nil, fmt.Errorf("gridbox %d: %w", i, err)
		}

		drops, err := initsupers.Generate(cfg.Init.Distribution, initsupers.Params{
			Gbx:     uint32(i),
			Supers:  cfg.Init.Supers,
			NumConc: cfg.Init.NumConc,
			Volume:  cfg.Domain.Volume,
			Radius:  cfg.Init.Radius,
			Msol:    cfg.Init.Msol,
		}, ids, gens)
		if err != nil {
			return nil, fmt.Errorf("gridbox %d: %w", i, err)
		}
		gbxs[i] = Gridbox{Index: i, State: state, Drops: drops}
	}
	return gbxs, nil
}

// RunConfig converts the timestep settings of cfg to ticks.
func RunConfig(cfg *config.Config) Config {
	var obs uint64
	if cfg.Timesteps.Observation > 0 {
		obs = cfg.Ticks(cfg.Timesteps.Observation)
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return Config{
		Tick:        cfg.Timesteps.Tick,
		Tend:        cfg.Ticks(cfg.Timesteps.Duration),
		ObsInterval: obs,
		Workers:     workers,
		Parallel:    cfg.Domain.Parallel,
	}
}

// Setup validates cfg and builds a simulator and its initial gridboxes.
func Setup(cfg *config.Config, logger logr.Logger) (*Simulator, []Gridbox, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	pipeline, err := config.BuildPipeline(cfg)
	if err != nil {
		return nil, nil, err
	}

	rc := RunConfig(cfg)
	gens := sdm.NewGenPool(rc.Workers*max(rc.Parallel, cfg.Domain.Gridboxes), cfg.Seed)
	gbxs, err := NewGridboxes(cfg, gens)
	if err != nil {
		return nil, nil, err
	}
	return New(pipeline, gens, logger), gbxs, nil
}
