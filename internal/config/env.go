package config

import (
	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name in Config's env tags.
const EnvPrefix = "BOARD_"

// parseEnv overlays cfg with BOARD_* environment variables. Unset variables
// leave fields untouched. It panics on malformed values.
func parseEnv(cfg *Config) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(err)
	}
}
