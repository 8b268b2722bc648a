package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays Config with any SHOPPI_* variables that are set.
// Unset variables leave the field untouched.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
