// Package config loads and saves forcepad settings as TOML.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/TFMV/forcepad/physics"
	"github.com/TFMV/forcepad/render"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds forcepad configuration.
type Config struct {
	Push       physics.PushConfig `toml:"push"`
	Pull       physics.PullConfig `toml:"pull"`
	Simulation SimulationConfig   `toml:"simulation"`
	Canvas     CanvasConfig       `toml:"canvas"`
	Server     ServerConfig       `toml:"server"`
	Log        LogConfig          `toml:"log"`
}

// SimulationConfig controls the frame clock.
type SimulationConfig struct {
	FrameRate       int   `toml:"frame_rate"`
	MaxFrameDeltaMS int   `toml:"max_frame_delta_ms"`
	Seed            int64 `toml:"seed"` // zero seeds from the clock
}

// CanvasConfig controls drawing.
type CanvasConfig struct {
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
	Background string  `toml:"background"`
	Directed   bool    `toml:"directed"`
}

// ServerConfig controls the HTTP host.
type ServerConfig struct {
	Port int `toml:"port"`
}

// LogConfig controls logging.
type LogConfig struct {
	Debug bool `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Push: physics.DefaultPush(),
		Pull: physics.DefaultPull(),
		Simulation: SimulationConfig{
			FrameRate:       60,
			MaxFrameDeltaMS: 100,
		},
		Canvas: CanvasConfig{
			Width:      render.DefaultWidth,
			Height:     render.DefaultHeight,
			Background: render.DefaultBackground,
			Directed:   true,
		},
		Server: ServerConfig{Port: 8080},
	}
}

// ConfigDir returns the forcepad config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "forcepad")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the default config file. A missing file yields the defaults.
func Load() (*Config, error) {
	cfg, err := LoadFile(Path())
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFile reads path over the defaults and validates the result.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Save writes cfg to the default config path.
func Save(cfg *Config) error {
	return SaveFile(cfg, Path())
}

// SaveFile writes cfg to path, creating parent directories.
func SaveFile(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create config dir")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create config file")
	}
	defer f.Close()

	return errors.Wrap(toml.NewEncoder(f).Encode(cfg), "encode config")
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if err := c.Push.Validate(); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	if err := c.Pull.Validate(); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	if c.Simulation.FrameRate <= 0 || c.Simulation.FrameRate > 1000 {
		return errors.Wrapf(ErrInvalid, "frame_rate %d out of range 1-1000", c.Simulation.FrameRate)
	}
	if c.Simulation.MaxFrameDeltaMS <= 0 {
		return errors.Wrapf(ErrInvalid, "max_frame_delta_ms %d must be positive", c.Simulation.MaxFrameDeltaMS)
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return errors.Wrapf(ErrInvalid, "canvas %vx%v must be positive", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.Wrapf(ErrInvalid, "port %d out of range", c.Server.Port)
	}
	return nil
}
