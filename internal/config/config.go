// Package config handles game configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/totemfall/internal/input"
)

// Config holds all game settings.
type Config struct {
	Match    MatchConfig    `yaml:"match"`
	World    WorldConfig    `yaml:"world"`
	Display  DisplayConfig  `yaml:"display"`
	Controls ControlsConfig `yaml:"controls"`
	Debug    DebugConfig    `yaml:"debug"`
	Logging  LoggingConfig  `yaml:"logging"`

	// Source is the file the config was read from, empty for defaults.
	Source string `yaml:"-"`
}

// MatchConfig holds per-match settings.
type MatchConfig struct {
	Level     int    `yaml:"level"`
	Seed      uint64 `yaml:"seed"`       // 0 picks a random seed
	FrameRate int    `yaml:"frame_rate"` // simulation frames per second
	MaxFrames int    `yaml:"max_frames"` // 0 runs until the match ends
}

// WorldConfig describes the generated terrain grid.
type WorldConfig struct {
	Size        float32 `yaml:"size"`
	Cells       int     `yaml:"cells"`
	Amplitude   float32 `yaml:"amplitude"`
	Wavelength  float32 `yaml:"wavelength"`
	LevelGrowth float32 `yaml:"level_growth"` // extra size per level above 1
}

// DisplayConfig holds terminal view settings.
type DisplayConfig struct {
	Scale      float32 `yaml:"scale"`       // world units per map column
	HoldFrames int     `yaml:"hold_frames"` // frames a movement key stays held
}

// ControlsConfig maps key names to intent names.
type ControlsConfig struct {
	Keys map[string]string `yaml:"keys"`
}

// DebugConfig holds developer switches.
type DebugConfig struct {
	Flight bool `yaml:"flight"`
	Bot    bool `yaml:"bot"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Match: MatchConfig{
			Level:     1,
			FrameRate: 60,
		},
		World: WorldConfig{
			Size:        400,
			Cells:       40,
			Amplitude:   6,
			Wavelength:  120,
			LevelGrowth: 100,
		},
		Display: DisplayConfig{
			Scale:      4,
			HoldFrames: 30,
		},
		Controls: ControlsConfig{
			Keys: input.DefaultKeys(),
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// WorldSize returns the terrain edge length for the configured level.
func (c *Config) WorldSize() float32 {
	return c.World.Size + c.World.LevelGrowth*float32(max(c.Match.Level-1, 0))
}

// Bindings validates the configured key table.
func (c *Config) Bindings() (input.Bindings, error) {
	keys := c.Controls.Keys
	if len(keys) == 0 {
		keys = input.DefaultKeys()
	}
	return input.NewBindings(keys)
}

// Validate reports settings the game cannot start with.
func (c *Config) Validate() error {
	if c.Match.Level < 1 {
		return fmt.Errorf("match.level must be at least 1, got %d", c.Match.Level)
	}
	if c.Match.FrameRate <= 0 {
		return fmt.Errorf("match.frame_rate must be positive, got %d", c.Match.FrameRate)
	}
	if c.World.Size <= 0 || c.World.Cells <= 0 {
		return fmt.Errorf("world size %v with %d cells is empty", c.World.Size, c.World.Cells)
	}
	if c.Display.Scale <= 0 {
		return fmt.Errorf("display.scale must be positive, got %v", c.Display.Scale)
	}
	if _, err := c.Bindings(); err != nil {
		return fmt.Errorf("controls: %w", err)
	}
	return nil
}
