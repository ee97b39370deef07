// Package config loads and saves the TOML settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gogpu/gg"

	"SketchBoard/internal/engine"
	"SketchBoard/internal/state"
)

const (
	appDir     = "sketchboard"
	configFile = "config.toml"
)

type Config struct {
	Canvas Canvas `toml:"canvas"`
	Style  Style  `toml:"style"`
	Mirror Mirror `toml:"mirror"`
	Log    Log    `toml:"log"`
}

type Canvas struct {
	Width              int    `toml:"width"`
	Height             int    `toml:"height"`
	Background         string `toml:"background"`
	CheckpointInterval int    `toml:"checkpoint_interval"`
}

type Style struct {
	Color     string  `toml:"color"`
	WidthMode string  `toml:"width_mode"`
	BaseWidth float32 `toml:"base_width"`
	Width     float32 `toml:"width"`
}

type Mirror struct {
	Enabled   bool `toml:"enabled"`
	Port      int  `toml:"port"`
	Advertise bool `toml:"advertise"`
	MaxWidth  int  `toml:"max_width"`
}

type Log struct {
	Level string `toml:"level"`
}

func Default() Config {
	return Config{
		Canvas: Canvas{
			Width:              1024,
			Height:             768,
			Background:         "#00000000",
			CheckpointInterval: 32,
		},
		Style: Style{
			Color:     "Black",
			WidthMode: "ratio",
			BaseWidth: state.DefaultBaseWidth,
		},
		Mirror: Mirror{
			Port:      8888,
			Advertise: true,
		},
		Log: Log{Level: "info"},
	}
}

// DefaultPath is config.toml under $XDG_CONFIG_HOME, falling back to ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, appDir, configFile)
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	var buffer bytes.Buffer
	if err := toml.NewEncoder(&buffer).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, buffer.Bytes(), 0o644)
}

func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size %dx%d must be positive", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.CheckpointInterval < 0 {
		return fmt.Errorf("checkpoint_interval %d is negative", c.Canvas.CheckpointInterval)
	}
	if _, err := parseHex(c.Canvas.Background); err != nil {
		return err
	}
	if _, err := state.LookupColor(c.Style.Color); err != nil {
		return err
	}
	if _, err := state.ParseWidthMode(c.Style.WidthMode); err != nil {
		return err
	}
	if c.Style.BaseWidth < 0 {
		return fmt.Errorf("base_width %v is negative", c.Style.BaseWidth)
	}
	if c.Mirror.Port < 0 || c.Mirror.Port > 65535 {
		return fmt.Errorf("mirror port %d out of range", c.Mirror.Port)
	}
	if c.Mirror.MaxWidth < 0 {
		return fmt.Errorf("mirror max_width %d is negative", c.Mirror.MaxWidth)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// EngineOptions converts the settings into engine options. Call Validate first.
func (c Config) EngineOptions() engine.Options {
	opts := engine.DefaultOptions()
	if bg, err := parseHex(c.Canvas.Background); err == nil {
		opts.Background = bg
	}
	if col, err := state.LookupColor(c.Style.Color); err == nil {
		opts.Color = col
	}
	if mode, err := state.ParseWidthMode(c.Style.WidthMode); err == nil {
		opts.WidthMode = mode
	}
	opts.BaseWidth = c.Style.BaseWidth
	opts.Width = c.Style.Width
	opts.CheckpointInterval = c.Canvas.CheckpointInterval
	return opts
}

func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", l.Level, err)
	}
	return level, nil
}

// parseHex accepts RGB, RGBA, RRGGBB and RRGGBBAA with an optional '#'.
func parseHex(s string) (color.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3, 4, 6, 8:
	default:
		return nil, fmt.Errorf("background %q is not a hex colour", s)
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return nil, fmt.Errorf("background %q is not a hex colour", s)
		}
	}
	return gg.Hex(hex).Color(), nil
}
