package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings holds runtime tuning read from the environment
type Settings struct {
	SessionTTL      time.Duration `env:"FREECELL_SESSION_TTL"       envDefault:"24h"`
	CleanupInterval time.Duration `env:"FREECELL_CLEANUP_INTERVAL"  envDefault:"1h"`
	MaxBulkMoves    int           `env:"FREECELL_MAX_BULK_MOVES"    envDefault:"52"`
	DefaultDeal     string        `env:"FREECELL_DEFAULT_DEAL"      envDefault:"classic"`
	ReadTimeout     time.Duration `env:"FREECELL_HTTP_READ_TIMEOUT"  envDefault:"15s"`
	WriteTimeout    time.Duration `env:"FREECELL_HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"FREECELL_IDLE_TIMEOUT"      envDefault:"60s"`
}

// LoadSettings parses Settings from the process environment
func LoadSettings() (Settings, error) {
	return parseSettings(env.Options{})
}

// LoadSettingsFrom parses Settings from the given variables instead of the
// process environment
func LoadSettingsFrom(vars map[string]string) (Settings, error) {
	return parseSettings(env.Options{Environment: vars})
}

func parseSettings(opts env.Options) (Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that durations and limits are usable
func (s Settings) Validate() error {
	if s.SessionTTL <= 0 {
		return fmt.Errorf("%w: session TTL must be positive", ErrInvalidConfig)
	}
	if s.CleanupInterval <= 0 {
		return fmt.Errorf("%w: cleanup interval must be positive", ErrInvalidConfig)
	}
	if s.MaxBulkMoves < 1 {
		return fmt.Errorf("%w: max bulk moves must be at least 1", ErrInvalidConfig)
	}
	if s.DefaultDeal == "" {
		return fmt.Errorf("%w: default deal is required", ErrInvalidConfig)
	}
	return nil
}
