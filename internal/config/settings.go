package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings holds runtime options sourced from the environment.
type Settings struct {
	ResolverTimeout time.Duration `env:"ICONBRIDGE_RESOLVER_TIMEOUT" envDefault:"10s"`
	ServiceAddr     string        `env:"ICONBRIDGE_SERVICE_ADDR" envDefault:"127.0.0.1:47864"`
	Debug           bool          `env:"ICONBRIDGE_DEBUG"`
	Secret          string        `env:"ICONBRIDGE_SECRET"`
	ServiceToken    string        `env:"ICONBRIDGE_SERVICE_TOKEN"`
}

// LoadSettings parses Settings from the process environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if s.ResolverTimeout < 0 {
		return Settings{}, fmt.Errorf("ICONBRIDGE_RESOLVER_TIMEOUT must not be negative, got %s", s.ResolverTimeout)
	}
	if s.Secret == "" {
		s.Secret = CompiledSecret
	}
	return s, nil
}
