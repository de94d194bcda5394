package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/l1jgo/ecscore/internal/core/ecs"
)

type Config struct {
	Registry RegistryConfig `toml:"registry"`
	Logging  LoggingConfig  `toml:"logging"`
	Demo     DemoConfig     `toml:"demo"`
}

type RegistryConfig struct {
	PageSize       int    `toml:"page_size"`       // component slots per page
	DeletionPolicy string `toml:"deletion_policy"` // "swap_remove" or "in_place"
	Capacity       int    `toml:"capacity"`        // entity table pre-size
	ArenaBudget    int64  `toml:"arena_budget"`    // bytes of page memory, 0 = unlimited
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DemoConfig struct {
	Ticks    int           `toml:"ticks"`
	TickRate time.Duration `toml:"tick_rate"`
	Prefabs  string        `toml:"prefabs"` // YAML prefab table
	Spawns   string        `toml:"spawns"`  // YAML spawn list
	Script   string        `toml:"script"`  // Lua script directory or file
	Profile  string        `toml:"profile"` // "", "cpu" or "mem"
}

// Policy parses DeletionPolicy.
func (c RegistryConfig) Policy() (ecs.DeletionPolicy, error) {
	return ecs.ParseDeletionPolicy(c.DeletionPolicy)
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return defaults(), nil
	}
	return cfg, err
}

// Default returns the built-in configuration.
func Default() *Config { return defaults() }

// Validate rejects values the registry or demo cannot use.
func (c *Config) Validate() error {
	var errs []error
	if c.Registry.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("registry.page_size must be positive, got %d", c.Registry.PageSize))
	}
	if _, err := c.Registry.Policy(); err != nil {
		errs = append(errs, fmt.Errorf("registry.deletion_policy: %w", err))
	}
	if c.Registry.Capacity < 0 {
		errs = append(errs, fmt.Errorf("registry.capacity must not be negative, got %d", c.Registry.Capacity))
	}
	if c.Registry.ArenaBudget < 0 {
		errs = append(errs, fmt.Errorf("registry.arena_budget must not be negative, got %d", c.Registry.ArenaBudget))
	}
	if c.Demo.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("demo.tick_rate must be positive, got %s", c.Demo.TickRate))
	}
	switch c.Demo.Profile {
	case "", "cpu", "mem":
	default:
		errs = append(errs, fmt.Errorf("demo.profile: unknown profile %q", c.Demo.Profile))
	}
	return errors.Join(errs...)
}

func defaults() *Config {
	return &Config{
		Registry: RegistryConfig{
			PageSize:       ecs.DefaultPageSize,
			DeletionPolicy: ecs.SwapRemove.String(),
			Capacity:       1024,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Demo: DemoConfig{
			Ticks:    100,
			TickRate: 50 * time.Millisecond,
			Prefabs:  "data/yaml/prefabs.yaml",
			Spawns:   "data/yaml/spawns.yaml",
			Script:   "scripts",
		},
	}
}
