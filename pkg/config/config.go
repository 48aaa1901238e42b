// Package config loads gv's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pixelweaver/gallery_viewer/pkg/transition"
)

// Config is the user-tunable configuration. Zero values are filled in with
// defaults after load, so a partial file is fine.
type Config struct {
	// Library is the directory scanned for photos.
	Library string `yaml:"library"`
	// Columns is the number of grid columns.
	Columns int `yaml:"columns"`
	// ThumbHeight is the thumbnail height in terminal rows.
	ThumbHeight int `yaml:"thumb_height"`
	// AnimationSpeed is the global speed multiplier for transitions.
	AnimationSpeed float64 `yaml:"animation_speed"`
	// Spring holds the settle spring's physical constants.
	Spring SpringConfig `yaml:"spring"`
	// CachePath is the SQLite thumbnail cache location.
	CachePath string `yaml:"cache_path"`
	// ExifTimeoutSec bounds each exiftool metadata read, in seconds.
	ExifTimeoutSec int `yaml:"exif_timeout_sec"`
}

// SpringConfig mirrors transition.SpringParams in the config file.
type SpringConfig struct {
	Mass      float64 `yaml:"mass"`
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
}

// Params converts to the transition package's parameter type.
func (s SpringConfig) Params() transition.SpringParams {
	return transition.SpringParams{Mass: s.Mass, Stiffness: s.Stiffness, Damping: s.Damping}
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Library:        ".",
		Columns:        4,
		ThumbHeight:    8,
		AnimationSpeed: 1,
		Spring: SpringConfig{
			Mass:      transition.DefaultSpring.Mass,
			Stiffness: transition.DefaultSpring.Stiffness,
			Damping:   transition.DefaultSpring.Damping,
		},
		CachePath:      defaultCachePath(),
		ExifTimeoutSec: 5,
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gv", "config.yaml")
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gv", "thumbs.db")
}

// Load reads the config at path, applying defaults for anything unset. A
// missing file is not an error; it just means all defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Library == "" {
		c.Library = d.Library
	}
	if c.Columns == 0 {
		c.Columns = d.Columns
	}
	if c.ThumbHeight == 0 {
		c.ThumbHeight = d.ThumbHeight
	}
	if c.AnimationSpeed == 0 {
		c.AnimationSpeed = d.AnimationSpeed
	}
	if c.Spring == (SpringConfig{}) {
		c.Spring = d.Spring
	}
	if c.CachePath == "" {
		c.CachePath = d.CachePath
	}
	if c.ExifTimeoutSec == 0 {
		c.ExifTimeoutSec = d.ExifTimeoutSec
	}
}

// Validate rejects values the UI or the spring math cannot work with.
func (c Config) Validate() error {
	if c.Columns < 1 {
		return fmt.Errorf("columns must be at least 1, got %d", c.Columns)
	}
	if c.ThumbHeight < 2 {
		return fmt.Errorf("thumb_height must be at least 2, got %d", c.ThumbHeight)
	}
	if c.AnimationSpeed <= 0 {
		return fmt.Errorf("animation_speed must be positive, got %v", c.AnimationSpeed)
	}
	if !c.Spring.Params().Valid() {
		return fmt.Errorf("spring constants must all be positive, got %+v", c.Spring)
	}
	if c.ExifTimeoutSec < 1 {
		return fmt.Errorf("exif_timeout_sec must be at least 1, got %d", c.ExifTimeoutSec)
	}
	return nil
}
