package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the settings that may come from the environment. Values here
// override the matching command-line defaults.
type Env struct {
	DBConnection string `env:"OVERSIGHT_DB_CONNECTION"`
	ConfigFile   string `env:"OVERSIGHT_CONFIG_FILE"`
	Debug        bool   `env:"OVERSIGHT_DEBUG" envDefault:"false"`
}

// ParseEnv loads Env from the process environment.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}
