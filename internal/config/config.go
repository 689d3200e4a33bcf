// Package config loads sketch configuration from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/filter"
)

// EnvPrefix prefixes every environment override, e.g. SKETCH_CANVAS_WIDTH.
const EnvPrefix = "SKETCH_"

// Config is the top-level sketch configuration.
type Config struct {
	Canvas  CanvasConfig  `yaml:"canvas"  envPrefix:"CANVAS_"`
	History HistoryConfig `yaml:"history" envPrefix:"HISTORY_"`
	Filters FiltersConfig `yaml:"filters" envPrefix:"FILTERS_"`
	Export  ExportConfig  `yaml:"export"  envPrefix:"EXPORT_"`
	Log     LogConfig     `yaml:"log"     envPrefix:"LOG_"`
}

// CanvasConfig sizes the drawing surface and picks the input handler.
type CanvasConfig struct {
	Width      int    `yaml:"width"      env:"WIDTH"`
	Height     int    `yaml:"height"     env:"HEIGHT"`
	Background string `yaml:"background" env:"BACKGROUND"` // hex color
	Platform   string `yaml:"platform"   env:"PLATFORM"`   // standard | legacy
}

// HistoryConfig controls the undo history.
type HistoryConfig struct {
	Limit       int    `yaml:"limit"       env:"LIMIT"`       // 0 = unbounded
	Compression string `yaml:"compression" env:"COMPRESSION"` // default | none | speed | best
	Cache       int    `yaml:"cache"       env:"CACHE"`       // decoded snapshots kept in memory
}

// FiltersConfig sets up the export filter chain.
type FiltersConfig struct {
	Enabled    []string `yaml:"enabled"     env:"ENABLED" envSeparator:","`
	BlurRadius float64  `yaml:"blur_radius" env:"BLUR_RADIUS"`
	Workers    int      `yaml:"workers"     env:"WORKERS"` // 0 = GOMAXPROCS, 1 = serial
}

// ExportConfig controls encoders and output naming.
type ExportConfig struct {
	JPEGQuality int    `yaml:"jpeg_quality" env:"JPEG_QUALITY"`
	Basename    string `yaml:"basename"     env:"BASENAME"`
	OutDir      string `yaml:"out_dir"      env:"OUT_DIR"`
}

// LogConfig controls the slog handler installed by the CLI.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LEVEL"`  // debug | info | warn | error
	Format string `yaml:"format" env:"FORMAT"` // text | json
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{
			Width:      800,
			Height:     600,
			Background: "#ffffff",
			Platform:   "standard",
		},
		History: HistoryConfig{
			Limit:       0,
			Compression: "default",
			Cache:       8,
		},
		Filters: FiltersConfig{
			Enabled:    []string{},
			BlurRadius: filter.DefaultBlurRadius,
		},
		Export: ExportConfig{
			JPEGQuality: 90,
			Basename:    "image",
			OutDir:      ".",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds a Config from the defaults, the YAML file at path (skipped if
// path is empty) and SKETCH_* environment variables, in that order, and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv applies SKETCH_* environment overrides to target. Unset
// variables leave fields unchanged.
func ParseEnv(target *Config) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height))
	}
	if _, err := sketch.ParseHex(c.Canvas.Background); err != nil {
		errs = append(errs, fmt.Errorf("canvas.background: %w", err))
	}
	switch strings.ToLower(c.Canvas.Platform) {
	case "", "standard", "legacy":
	default:
		errs = append(errs, fmt.Errorf("canvas.platform must be standard or legacy, got %q", c.Canvas.Platform))
	}
	if c.History.Limit < 0 {
		errs = append(errs, fmt.Errorf("history.limit must be >= 0, got %d", c.History.Limit))
	}
	if c.History.Cache < 0 {
		errs = append(errs, fmt.Errorf("history.cache must be >= 0, got %d", c.History.Cache))
	}
	if _, err := c.History.CompressionLevel(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Filters.Set(); err != nil {
		errs = append(errs, fmt.Errorf("filters.enabled: %w", err))
	}
	if c.Filters.BlurRadius <= 0 {
		errs = append(errs, fmt.Errorf("filters.blur_radius must be > 0, got %g", c.Filters.BlurRadius))
	}
	if c.Filters.Workers < 0 {
		errs = append(errs, fmt.Errorf("filters.workers must be >= 0, got %d", c.Filters.Workers))
	}
	if c.Export.JPEGQuality < 1 || c.Export.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("export.jpeg_quality must be in 1-100, got %d", c.Export.JPEGQuality))
	}
	if c.Export.Basename == "" || strings.ContainsAny(c.Export.Basename, `/\`) {
		errs = append(errs, fmt.Errorf("export.basename must be a plain file name, got %q", c.Export.Basename))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// BackgroundColor returns the parsed canvas background.
func (c CanvasConfig) BackgroundColor() sketch.RGBA {
	col, err := sketch.ParseHex(c.Background)
	if err != nil {
		return sketch.White
	}
	return col
}

// CompressionLevel maps Compression to a PNG encoder level.
func (h HistoryConfig) CompressionLevel() (png.CompressionLevel, error) {
	switch strings.ToLower(h.Compression) {
	case "", "default":
		return png.DefaultCompression, nil
	case "none":
		return png.NoCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	default:
		return 0, fmt.Errorf("history.compression must be default, none, speed or best, got %q", h.Compression)
	}
}

// Set returns the enabled filter stages.
func (f FiltersConfig) Set() (filter.Set, error) {
	var s filter.Set
	for _, name := range f.Enabled {
		k, err := filter.ParseKind(name)
		if err != nil {
			return 0, err
		}
		s = s.With(k)
	}
	return s, nil
}

// SlogLevel maps Level to a slog level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// NewLogger creates a logger writing to w in the configured format.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	lvl, err := l.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch l.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("log.format must be text or json, got %q", l.Format)
	}
}
