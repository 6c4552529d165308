// Package config loads engine tuning from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the combat engine's tunables. The 100ms tick itself is
// fixed (combat.TickInterval), not configuration.
type Config struct {
	// TransitionDelay is the kill-to-respawn window during which an
	// explicit stop can still cancel the next battle.
	TransitionDelay time.Duration `env:"EMBERFALL_TRANSITION_DELAY" envDefault:"800ms"`
	// StopGrace is the final re-check window before arming.
	StopGrace time.Duration `env:"EMBERFALL_STOP_GRACE" envDefault:"10ms"`

	// OfflineCap bounds the catch-up simulation.
	OfflineCap        time.Duration `env:"EMBERFALL_OFFLINE_CAP"         envDefault:"12h"`
	OfflineStatNerf   float64       `env:"EMBERFALL_OFFLINE_STAT_NERF"   envDefault:"0.8"`
	OfflineRewardNerf float64       `env:"EMBERFALL_OFFLINE_REWARD_NERF" envDefault:"0.5"`
	OfflineDropNerf   float64       `env:"EMBERFALL_OFFLINE_DROP_NERF"   envDefault:"0.5"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
