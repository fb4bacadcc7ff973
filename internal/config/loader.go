package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if BINSIGHT_CONFIG is set
//  3. env (prefix BINSIGHT_)
func Load(ctx context.Context) (*Config, error) {
	_ = ctx

	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("BINSIGHT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: BINSIGHT_ADDR, BINSIGHT_REWARD_POINTS, ...
	// Map env keys like BINSIGHT_REWARD_POINTS -> reward_points (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("BINSIGHT_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "binsight_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the session flow cannot run with.
func validate(cfg *Config) error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.RewardPoints <= 0:
		return fmt.Errorf("%w: reward_points must be positive", ErrInvalidConfig)
	case cfg.FinePoints <= 0:
		return fmt.Errorf("%w: fine_points must be positive", ErrInvalidConfig)
	case cfg.CorrectProbability < 0 || cfg.CorrectProbability > 1:
		return fmt.Errorf("%w: correct_probability must be in [0,1]", ErrInvalidConfig)
	case cfg.RecordingTicks <= 0:
		return fmt.Errorf("%w: recording_ticks must be positive", ErrInvalidConfig)
	case cfg.TickIntervalMS <= 0:
		return fmt.Errorf("%w: tick_interval_ms must be positive", ErrInvalidConfig)
	}

	switch cfg.StoreBackend {
	case "file", "memory", "redis":
	default:
		return fmt.Errorf("%w: unknown store_backend %q", ErrInvalidConfig, cfg.StoreBackend)
	}

	if cfg.StoreBackend == "redis" && cfg.RedisAddr == "" {
		return fmt.Errorf("%w: redis_addr must be set for the redis backend", ErrInvalidConfig)
	}
	return nil
}
