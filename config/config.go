// Package config loads the engine configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level engine configuration.
type Config struct {
	Window WindowConfig `yaml:"window"`
	Engine EngineConfig `yaml:"engine"`
	Level  LevelConfig  `yaml:"level"`
}

// WindowConfig describes the game window and logical resolution.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// EngineConfig holds frame-loop and world tuning.
type EngineConfig struct {
	Gravity   float64 `yaml:"gravity"`
	TimeScale float64 `yaml:"time_scale"`
	// MaxTick clamps the per-frame logical time step, in seconds.
	MaxTick  float64 `yaml:"max_tick"`
	AssetDir string  `yaml:"asset_dir"`
}

// LevelConfig selects the initial level.
type LevelConfig struct {
	Path string `yaml:"path"`
	// ProjectDir is the directory Tiled tileset sources resolve against.
	ProjectDir string `yaml:"project_dir"`
	// Tiled selects the Tiled loader instead of the native one.
	Tiled bool `yaml:"tiled"`
	// HotReload reloads the level when its file changes on disk.
	HotReload bool `yaml:"hot_reload"`
}

// Default returns a config with sensible values for a windowed game.
func Default() *Config {
	return &Config{
		Window: WindowConfig{Width: 1280, Height: 720, Title: "high-impact"},
		Engine: EngineConfig{Gravity: 1, TimeScale: 1, MaxTick: 1.0 / 15},
	}
}

// Load reads a YAML config from path, layered over Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Engine.TimeScale <= 0 {
		return fmt.Errorf("time_scale must be positive, got %g", c.Engine.TimeScale)
	}
	if c.Engine.MaxTick <= 0 {
		return fmt.Errorf("max_tick must be positive, got %g", c.Engine.MaxTick)
	}
	return nil
}
