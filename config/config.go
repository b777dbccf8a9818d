// Package config loads the overlay tool configuration from TOML.
//
//	debug = false
//
//	[canvas]
//	width = 1920
//	height = 1080
//	background = "#00000000"
//
//	[templates]
//	dir = "templates"
//
//	[fade]
//	duration_ms = 300
//
//	[preview]
//	scale = 0.5
//	tps = 60
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full tool configuration.
type Config struct {
	Debug     bool      `toml:"debug"`
	Canvas    Canvas    `toml:"canvas"`
	Templates Templates `toml:"templates"`
	Fade      Fade      `toml:"fade"`
	Preview   Preview   `toml:"preview"`
}

// Canvas is the broadcast output size in device pixels.
type Canvas struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"`
}

// Templates locates the template store.
type Templates struct {
	Dir string `toml:"dir"`
}

// Fade controls the opacity animation of nodes with their own visibility
// binding.
type Fade struct {
	DurationMS int `toml:"duration_ms"`
}

// Preview controls the live preview window.
type Preview struct {
	Scale float64 `toml:"scale"`
	TPS   int     `toml:"tps"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Canvas:    Canvas{Width: 1920, Height: 1080, Background: "#00000000"},
		Templates: Templates{Dir: "templates"},
		Fade:      Fade{DurationMS: 300},
		Preview:   Preview{Scale: 0.5, TPS: 60},
	}
}

// Load reads path on top of Default. A missing file is not an error. A
// relative templates dir is resolved against the config file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if !filepath.IsAbs(cfg.Templates.Dir) {
		cfg.Templates.Dir = filepath.Join(filepath.Dir(path), cfg.Templates.Dir)
	}
	return cfg, nil
}

// Parse decodes TOML on top of Default and clamps out-of-range values.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	cfg.clamp()
	return cfg, nil
}

// FadeSeconds returns the fade duration in seconds.
func (c Config) FadeSeconds() float32 {
	return float32(c.Fade.DurationMS) / 1000
}

func (c *Config) clamp() {
	def := Default()
	if c.Canvas.Width <= 0 {
		c.Canvas.Width = def.Canvas.Width
	}
	if c.Canvas.Height <= 0 {
		c.Canvas.Height = def.Canvas.Height
	}
	if c.Canvas.Background == "" {
		c.Canvas.Background = def.Canvas.Background
	}
	if c.Templates.Dir == "" {
		c.Templates.Dir = def.Templates.Dir
	}
	if c.Fade.DurationMS < 0 {
		c.Fade.DurationMS = 0
	}
	if c.Preview.Scale <= 0 {
		c.Preview.Scale = def.Preview.Scale
	}
	if c.Preview.TPS <= 0 {
		c.Preview.TPS = def.Preview.TPS
	}
}
