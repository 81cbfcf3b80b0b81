package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sdmsim/internal/collisions"
	"github.com/san-kum/sdmsim/internal/sdm"
)

const (
	DefaultTick      = 0.1   // [s]
	DefaultDuration  = 600.0 // [s]
	DefaultObsStep   = 60.0  // [s]
	DefaultGridboxes = 1
	DefaultVolume    = 1e6 // [m^3]
	DefaultSupers    = 256
	DefaultNumConc   = 1e8    // [m^-3]
	DefaultRadius    = 3e-5   // [m]
	DefaultMsol      = 1e-20  // [kg]
	DefaultPress     = 1e5    // [Pa]
	DefaultTemp      = 273.15 // [K]
	DefaultCondIters = 2
	DefaultCondAtol  = 0.01
	DefaultMinSubdt  = 0.1 // [s]
)

type Config struct {
	Name         string             `yaml:"name"`
	Seed         uint64             `yaml:"seed" env:"SEED"`
	Workers      int                `yaml:"workers" env:"WORKERS"`
	Timesteps    TimestepConfig     `yaml:"timesteps" envPrefix:"TIMESTEPS_"`
	Domain       DomainConfig       `yaml:"domain" envPrefix:"DOMAIN_"`
	Init         InitConfig         `yaml:"init" envPrefix:"INIT_"`
	Collisions   CollisionsConfig   `yaml:"collisions" envPrefix:"COLLISIONS_"`
	Condensation CondensationConfig `yaml:"condensation" envPrefix:"CONDENSATION_"`
	Output       OutputConfig       `yaml:"output" envPrefix:"OUTPUT_"`
}

// TimestepConfig holds times in seconds. A process step of zero disables
// the process.
type TimestepConfig struct {
	Tick         float64 `yaml:"tick" env:"TICK"`
	Duration     float64 `yaml:"duration" env:"DURATION"`
	Collisions   float64 `yaml:"collisions" env:"COLLISIONS"`
	Condensation float64 `yaml:"condensation" env:"CONDENSATION"`
	Observation  float64 `yaml:"observation" env:"OBSERVATION"`
}

type DomainConfig struct {
	Gridboxes int     `yaml:"gridboxes" env:"GRIDBOXES"`
	Parallel  int     `yaml:"parallel" env:"PARALLEL"`
	Volume    float64 `yaml:"volume" env:"VOLUME"`
	Press     float64 `yaml:"press" env:"PRESS"`
	Temp      float64 `yaml:"temp" env:"TEMP"`
	// Supersat is the initial supersaturation ratio, from which qvap is set.
	Supersat float64 `yaml:"supersat" env:"SUPERSAT"`
	Qcond    float64 `yaml:"qcond" env:"QCOND"`
	Wvel     float64 `yaml:"wvel" env:"WVEL"`
}

type InitConfig struct {
	Distribution string  `yaml:"distribution" env:"DISTRIBUTION"`
	Supers       int     `yaml:"supers" env:"SUPERS"`
	NumConc      float64 `yaml:"numconc" env:"NUMCONC"`
	Radius       float64 `yaml:"radius" env:"RADIUS"`
	Msol         float64 `yaml:"msol" env:"MSOL"`
}

type CollisionsConfig struct {
	Kernel   string  `yaml:"kernel" env:"KERNEL"`
	ConstC   float64 `yaml:"const_c" env:"CONST_C"`
	CoalEff  float64 `yaml:"coal_eff" env:"COAL_EFF"`
	Velocity string  `yaml:"velocity" env:"VELOCITY"`
	Outcome  string  `yaml:"outcome" env:"OUTCOME"`
	Flag     string  `yaml:"flag" env:"FLAG"`
	NFrags   float64 `yaml:"nfrags" env:"NFRAGS"` // zero selects the kinetic energy model
	Shuffle  string  `yaml:"shuffle" env:"SHUFFLE"`
}

type CondensationConfig struct {
	Iters       int     `yaml:"iters" env:"ITERS"`
	Rtol        float64 `yaml:"rtol" env:"RTOL"`
	Atol        float64 `yaml:"atol" env:"ATOL"`
	MinSubstep  float64 `yaml:"min_substep" env:"MIN_SUBSTEP"`
	AlterThermo bool    `yaml:"alter_thermo" env:"ALTER_THERMO"`
	Psat        string  `yaml:"psat" env:"PSAT"`
	Ventilation bool    `yaml:"ventilation" env:"VENTILATION"`
}

type OutputConfig struct {
	Dir  string `yaml:"dir" env:"DIR"`
	Save bool   `yaml:"save" env:"SAVE"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "golovin",
		Seed: 1,
		Timesteps: TimestepConfig{
			Tick:        DefaultTick,
			Duration:    DefaultDuration,
			Collisions:  1.0,
			Observation: DefaultObsStep,
		},
		Domain: DomainConfig{
			Gridboxes: DefaultGridboxes,
			Volume:    DefaultVolume,
			Press:     DefaultPress,
			Temp:      DefaultTemp,
			Supersat:  1.0,
		},
		Init: InitConfig{
			Distribution: "expvolume",
			Supers:       DefaultSupers,
			NumConc:      DefaultNumConc,
			Radius:       DefaultRadius,
			Msol:         DefaultMsol,
		},
		Collisions: CollisionsConfig{
			Kernel:   "golovin",
			CoalEff:  1.0,
			Velocity: "simmel",
			Outcome:  "coalescence",
			Flag:     "su",
			Shuffle:  "fisheryates",
		},
		Condensation: CondensationConfig{
			Iters:       DefaultCondIters,
			Atol:        DefaultCondAtol,
			MinSubstep:  DefaultMinSubdt,
			AlterThermo: true,
			Psat:        "tetens",
		},
		Output: OutputConfig{
			Dir: ".sdmsim",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first setting that cannot produce a run.
func (c *Config) Validate() error {
	ts := c.Timesteps
	switch {
	case !(ts.Tick > 0):
		return invalid("timesteps.tick must be positive")
	case !(ts.Duration > 0):
		return invalid("timesteps.duration must be positive")
	case ts.Collisions < 0 || ts.Condensation < 0 || ts.Observation < 0:
		return invalid("process timesteps must not be negative")
	}
	for name, step := range map[string]float64{
		"collisions":   ts.Collisions,
		"condensation": ts.Condensation,
		"observation":  ts.Observation,
	} {
		if step > 0 && c.Ticks(step) == 0 {
			return invalid("timesteps.%s %gs is shorter than one tick", name, step)
		}
	}

	d := c.Domain
	switch {
	case d.Gridboxes < 1:
		return invalid("domain.gridboxes must be at least 1")
	case !(d.Volume > 0) || !(d.Press > 0) || !(d.Temp > 0):
		return invalid("domain volume, press and temp must be positive")
	case d.Supersat < 0:
		return invalid("domain.supersat must not be negative")
	}

	in := c.Init
	switch {
	case in.Supers < 1:
		return invalid("init.supers must be at least 1")
	case !(in.NumConc > 0) || !(in.Radius > 0):
		return invalid("init numconc and radius must be positive")
	case in.Msol < 0:
		return invalid("init.msol must not be negative")
	}

	if nf := c.Collisions.NFrags; nf != 0 && !(nf > collisions.MinNFrags) {
		return fmt.Errorf("collisions.nfrags %g must exceed %g: %w",
			nf, collisions.MinNFrags, sdm.ErrFragmentPrecondition)
	}

	if ts.Condensation > 0 && !(c.Condensation.MinSubstep > 0) {
		return invalid("condensation.min_substep must be positive")
	}
	if ts.Condensation > 0 && c.Condensation.MinSubstep > ts.Condensation {
		return fmt.Errorf("condensation.min_substep %gs exceeds step %gs: %w",
			c.Condensation.MinSubstep, ts.Condensation, sdm.ErrSubstepTooLarge)
	}
	return nil
}

// Ticks converts seconds to the nearest whole number of ticks.
func (c *Config) Ticks(seconds float64) uint64 {
	return uint64(math.Round(seconds / c.Timesteps.Tick))
}

// Seconds converts ticks to seconds.
func (c *Config) Seconds(ticks uint64) float64 {
	return float64(ticks) * c.Timesteps.Tick
}

func invalid(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, sdm.ErrInvalidConfig)...)
}
