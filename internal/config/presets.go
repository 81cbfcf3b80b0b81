package config

import "sort"

// Presets are complete run configurations for the standard box-model test
// cases. Each is built on DefaultConfig.
var Presets = map[string]func() *Config{
	// Shima et al. 2009 figure 2: Golovin kernel on an exponential
	// distribution, for comparison with the analytic solution.
	"golovin": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "golovin"
		cfg.Timesteps.Duration = 3600
		cfg.Timesteps.Observation = 600
		cfg.Init.Supers = 4096
		cfg.Init.NumConc = 2.5e8
		cfg.Init.Radius = 3.0531e-5
		return cfg
	},
	"hydrodynamic": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "hydrodynamic"
		cfg.Timesteps.Duration = 1800
		cfg.Init.Supers = 4096
		cfg.Init.NumConc = 2.5e8
		cfg.Init.Radius = 3.0531e-5
		cfg.Collisions.Kernel = "long"
		return cfg
	},
	"breakup": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "breakup"
		cfg.Timesteps.Duration = 1800
		cfg.Init.Radius = 3e-4
		cfg.Init.NumConc = 1e4
		cfg.Collisions.Kernel = "lowlist_bu"
		cfg.Collisions.Outcome = "breakup"
		cfg.Collisions.NFrags = 5
		return cfg
	},
	"coalbure": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "coalbure"
		cfg.Timesteps.Duration = 1800
		cfg.Init.Radius = 2e-4
		cfg.Init.NumConc = 1e5
		cfg.Collisions.Kernel = "long"
		cfg.Collisions.Outcome = "coalbure"
		cfg.Collisions.Flag = "ts"
		return cfg
	},
	"cond": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "cond"
		cfg.Timesteps.Duration = 300
		cfg.Timesteps.Collisions = 0
		cfg.Timesteps.Condensation = 1.0
		cfg.Timesteps.Observation = 10
		cfg.Domain.Supersat = 1.005
		cfg.Init.Distribution = "monodisperse"
		cfg.Init.Radius = 1e-7
		cfg.Init.Msol = 1e-19
		cfg.Init.Supers = 64
		return cfg
	},
	"cond_coll": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "cond_coll"
		cfg.Timesteps.Duration = 900
		cfg.Timesteps.Condensation = 1.0
		cfg.Domain.Supersat = 1.002
		cfg.Domain.Temp = 283.15
		cfg.Domain.Press = 9e4
		cfg.Collisions.Kernel = "lowlist_coal"
		cfg.Condensation.Ventilation = true
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
