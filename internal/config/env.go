package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "SDMSIM_"

// ApplyEnv overlays SDMSIM_* environment variables onto cfg. Unset
// variables leave the loaded values in place.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
