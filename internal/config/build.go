package config

import (
	"fmt"

	"github.com/san-kum/sdmsim/internal/collisions"
	"github.com/san-kum/sdmsim/internal/condensation"
	"github.com/san-kum/sdmsim/internal/process"
	"github.com/san-kum/sdmsim/internal/terminalv"
	"github.com/san-kum/sdmsim/internal/thermo"
)

// BuildTerminalVelocity resolves a fall-speed formula by name.
func BuildTerminalVelocity(name string) (terminalv.Formula, error) {
	tv, ok := terminalv.ByName(name)
	if !ok {
		return nil, invalid("unknown terminal velocity %q", name)
	}
	return tv, nil
}

// BuildKernel resolves the collision kernel of cfg.
func BuildKernel(cfg CollisionsConfig) (collisions.Kernel, error) {
	switch cfg.Kernel {
	case "const":
		return collisions.ConstKernel{C: cfg.ConstC}, nil
	case "golovin":
		return collisions.Golovin{}, nil
	case "long":
		kernel := collisions.NewLongKernel(cfg.CoalEff)
		if cfg.Velocity != "" {
			tv, err := BuildTerminalVelocity(cfg.Velocity)
			if err != nil {
				return nil, err
			}
			kernel.Velocity = tv
		}
		return kernel, nil
	case "lowlist_coal":
		return collisions.NewLowListCoalKernel(), nil
	case "lowlist_bu":
		return collisions.NewLowListBuKernel(), nil
	default:
		return nil, invalid("unknown collision kernel %q", cfg.Kernel)
	}
}

// BuildFragments returns a constant fragment count when NFrags is set,
// else the collision kinetic energy model.
func BuildFragments(cfg CollisionsConfig) collisions.Fragments {
	if cfg.NFrags > 0 {
		return collisions.ConstNFrags{N: cfg.NFrags}
	}
	return collisions.CollisionKineticEnergyNFrags{}
}

// BuildOutcome resolves what a confirmed collision does.
func BuildOutcome(cfg CollisionsConfig) (collisions.Outcome, error) {
	switch cfg.Outcome {
	case "coalescence":
		return collisions.Coalescence{}, nil
	case "breakup":
		return collisions.Breakup{Frags: BuildFragments(cfg)}, nil
	case "rebound":
		return collisions.Rebound{}, nil
	case "coalbure":
		var flag collisions.Selector
		switch cfg.Flag {
		case "su":
			flag = collisions.SUCoalBuReFlag{}
		case "ts":
			flag = collisions.TSCoalBuReFlag{}
		default:
			return nil, invalid("unknown coalbure flag %q", cfg.Flag)
		}
		return collisions.CoalBuRe{Frags: BuildFragments(cfg), Flag: flag}, nil
	default:
		return nil, invalid("unknown collision outcome %q", cfg.Outcome)
	}
}

func BuildShuffle(name string) (collisions.ShuffleFunc, error) {
	switch name {
	case "", "fisheryates":
		return collisions.FisherYates, nil
	case "merge":
		return collisions.MergeShuffle, nil
	default:
		return nil, invalid("unknown shuffle %q", name)
	}
}

func BuildPsat(name string) (thermo.PsatFunc, error) {
	switch name {
	case "", "tetens":
		return thermo.SaturationPressure, nil
	case "murphykoop":
		return thermo.SaturationPressureMurphyKoop, nil
	default:
		return nil, invalid("unknown saturation pressure %q", name)
	}
}

// BuildPipeline chains the enabled microphysics: condensation first,
// then collisions. A run with neither returns process.Null.
func BuildPipeline(cfg *Config) (process.Process, error) {
	var procs []process.Process

	if step := cfg.Timesteps.Condensation; step > 0 {
		cc := cfg.Condensation
		psat, err := BuildPsat(cc.Psat)
		if err != nil {
			return nil, err
		}
		cond, err := condensation.NewProcess(cfg.Ticks(step), cfg.Seconds,
			cc.Iters, cc.Rtol, cc.Atol, cc.MinSubstep,
			condensation.Config{AlterThermo: cc.AlterThermo, Psat: psat, Ventilation: cc.Ventilation})
		if err != nil {
			return nil, fmt.Errorf("condensation: %w", err)
		}
		procs = append(procs, cond)
	}

	if step := cfg.Timesteps.Collisions; step > 0 {
		kernel, err := BuildKernel(cfg.Collisions)
		if err != nil {
			return nil, err
		}
		outcome, err := BuildOutcome(cfg.Collisions)
		if err != nil {
			return nil, err
		}
		shuffle, err := BuildShuffle(cfg.Collisions.Shuffle)
		if err != nil {
			return nil, err
		}
		interval := cfg.Ticks(step)
		colls := collisions.New(cfg.Seconds(interval), kernel, outcome).WithShuffle(shuffle)
		proc, err := process.NewConstTstep("collisions", interval, colls)
		if err != nil {
			return nil, fmt.Errorf("collisions: %w", err)
		}
		procs = append(procs, proc)
	}

	return process.Chain(procs...), nil
}
