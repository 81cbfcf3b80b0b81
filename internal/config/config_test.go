package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/sdmsim/internal/collisions"
	"github.com/san-kum/sdmsim/internal/sdm"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "golovin", cfg.Collisions.Kernel)
	assert.Equal(t, uint64(10), cfg.Ticks(1.0))
	assert.InDelta(t, 1.0, cfg.Seconds(10), 1e-12)
}

func TestPresets_AllValid(t *testing.T) {
	names := ListPresets()
	require.Len(t, names, len(Presets))
	assert.IsIncreasing(t, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			require.NotNil(t, cfg)
			assert.Equal(t, name, cfg.Name)
			require.NoError(t, cfg.Validate())

			_, err := BuildPipeline(cfg)
			require.NoError(t, err)
		})
	}
}

func TestGetPreset_FreshCopy(t *testing.T) {
	a := GetPreset("cond")
	a.Init.Supers = 1
	b := GetPreset("cond")
	assert.NotEqual(t, 1, b.Init.Supers)

	assert.Nil(t, GetPreset("nonexistent"))
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("coalbure")
	cfg.Seed = 99

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SDMSIM_SEED", "42")
	t.Setenv("SDMSIM_TIMESTEPS_DURATION", "120")
	t.Setenv("SDMSIM_COLLISIONS_KERNEL", "long")
	t.Setenv("SDMSIM_CONDENSATION_VENTILATION", "true")

	cfg := DefaultConfig()
	require.NoError(t, ApplyEnv(cfg))

	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 120.0, cfg.Timesteps.Duration)
	assert.Equal(t, "long", cfg.Collisions.Kernel)
	assert.True(t, cfg.Condensation.Ventilation)
	assert.Equal(t, DefaultTick, cfg.Timesteps.Tick, "unset variables keep loaded values")
}

func TestApplyEnv_BadValue(t *testing.T) {
	t.Setenv("SDMSIM_INIT_SUPERS", "many")
	assert.Error(t, ApplyEnv(DefaultConfig()))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero tick", func(c *Config) { c.Timesteps.Tick = 0 }, sdm.ErrInvalidConfig},
		{"step below tick", func(c *Config) { c.Timesteps.Collisions = 0.01 }, sdm.ErrInvalidConfig},
		{"no gridboxes", func(c *Config) { c.Domain.Gridboxes = 0 }, sdm.ErrInvalidConfig},
		{"no supers", func(c *Config) { c.Init.Supers = 0 }, sdm.ErrInvalidConfig},
		{"negative msol", func(c *Config) { c.Init.Msol = -1 }, sdm.ErrInvalidConfig},
		{"zero min substep", func(c *Config) {
			c.Timesteps.Condensation = 1
			c.Condensation.MinSubstep = 0
		}, sdm.ErrInvalidConfig},
		{"negative min substep", func(c *Config) {
			c.Timesteps.Condensation = 1
			c.Condensation.MinSubstep = -1
		}, sdm.ErrInvalidConfig},
		{"nfrags at threshold", func(c *Config) { c.Collisions.NFrags = 2.5 }, sdm.ErrFragmentPrecondition},
		{"negative nfrags", func(c *Config) { c.Collisions.NFrags = -3 }, sdm.ErrFragmentPrecondition},
		{"substep too large", func(c *Config) {
			c.Timesteps.Condensation = 1
			c.Condensation.MinSubstep = 2
		}, sdm.ErrSubstepTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestBuildOutcome(t *testing.T) {
	cfg := DefaultConfig().Collisions

	out, err := BuildOutcome(cfg)
	require.NoError(t, err)
	assert.IsType(t, collisions.Coalescence{}, out)

	cfg.Outcome = "coalbure"
	cfg.Flag = "ts"
	out, err = BuildOutcome(cfg)
	require.NoError(t, err)
	require.IsType(t, collisions.CoalBuRe{}, out)
	assert.IsType(t, collisions.TSCoalBuReFlag{}, out.(collisions.CoalBuRe).Flag)
	assert.IsType(t, collisions.CollisionKineticEnergyNFrags{}, out.(collisions.CoalBuRe).Frags)

	cfg.NFrags = 4
	cfg.Outcome = "breakup"
	out, err = BuildOutcome(cfg)
	require.NoError(t, err)
	assert.Equal(t, collisions.Breakup{Frags: collisions.ConstNFrags{N: 4}}, out)

	cfg.Outcome = "splash"
	_, err = BuildOutcome(cfg)
	assert.ErrorIs(t, err, sdm.ErrInvalidConfig)
}

func TestBuildKernel(t *testing.T) {
	for _, name := range []string{"const", "golovin", "long", "lowlist_coal", "lowlist_bu"} {
		_, err := BuildKernel(CollisionsConfig{Kernel: name, Velocity: "rogersgk"})
		assert.NoError(t, err, name)
	}

	_, err := BuildKernel(CollisionsConfig{Kernel: "long", Velocity: "warp"})
	assert.ErrorIs(t, err, sdm.ErrInvalidConfig)

	_, err = BuildKernel(CollisionsConfig{Kernel: "hall"})
	assert.ErrorIs(t, err, sdm.ErrInvalidConfig)
}

func TestBuildPipeline(t *testing.T) {
	cfg := GetPreset("cond_coll")
	p, err := BuildPipeline(cfg)
	require.NoError(t, err)
	assert.Equal(t, "condensation+collisions", p.Name())
	assert.Equal(t, uint64(10), p.NextStep(0))

	cfg.Timesteps.Collisions = 0
	cfg.Timesteps.Condensation = 0
	p, err = BuildPipeline(cfg)
	require.NoError(t, err)
	assert.Equal(t, "null", p.Name())
}
