package config

import (
	"bytes"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/filter"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sketch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 800, cfg.Canvas.Width)
	assert.Equal(t, 600, cfg.Canvas.Height)
	assert.Equal(t, "standard", cfg.Canvas.Platform)
	assert.Equal(t, 0, cfg.History.Limit)
	assert.Equal(t, 8, cfg.History.Cache)
	assert.Equal(t, filter.DefaultBlurRadius, cfg.Filters.BlurRadius)
	assert.Equal(t, 90, cfg.Export.JPEGQuality)
	assert.Equal(t, "image", cfg.Export.Basename)
	assert.Equal(t, sketch.White, cfg.Canvas.BackgroundColor())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
canvas:
  width: 320
  height: 200
  background: "#000"
  platform: legacy
history:
  limit: 25
  compression: best
filters:
  enabled: [blur, invert]
export:
  jpeg_quality: 75
  basename: drawing
log:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 320, cfg.Canvas.Width)
	assert.Equal(t, 200, cfg.Canvas.Height)
	assert.Equal(t, sketch.Black, cfg.Canvas.BackgroundColor())
	assert.Equal(t, "legacy", cfg.Canvas.Platform)
	assert.Equal(t, 25, cfg.History.Limit)
	assert.Equal(t, 75, cfg.Export.JPEGQuality)
	assert.Equal(t, "drawing", cfg.Export.Basename)
	assert.Equal(t, ".", cfg.Export.OutDir, "unset keys keep their defaults")
	assert.Equal(t, filter.DefaultBlurRadius, cfg.Filters.BlurRadius)

	level, err := cfg.History.CompressionLevel()
	require.NoError(t, err)
	assert.Equal(t, png.BestCompression, level)

	set, err := cfg.Filters.Set()
	require.NoError(t, err)
	assert.Equal(t, filter.NewSet(filter.Blur, filter.Invert), set)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "canvas: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "canvas:\n  width: 320\n")
	t.Setenv("SKETCH_CANVAS_WIDTH", "640")
	t.Setenv("SKETCH_HISTORY_LIMIT", "5")
	t.Setenv("SKETCH_FILTERS_ENABLED", "grayscale,invert")
	t.Setenv("SKETCH_FILTERS_WORKERS", "2")
	t.Setenv("SKETCH_EXPORT_OUT_DIR", "/tmp/out")
	t.Setenv("SKETCH_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Canvas.Width)
	assert.Equal(t, 600, cfg.Canvas.Height)
	assert.Equal(t, 5, cfg.History.Limit)
	assert.Equal(t, []string{"grayscale", "invert"}, cfg.Filters.Enabled)
	assert.Equal(t, 2, cfg.Filters.Workers)
	assert.Equal(t, "/tmp/out", cfg.Export.OutDir)

	lvl, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)
}

func TestEnvParseError(t *testing.T) {
	t.Setenv("SKETCH_CANVAS_WIDTH", "wide")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Canvas.Width = 0 }, "canvas size"},
		{"bad background", func(c *Config) { c.Canvas.Background = "#zzz" }, "canvas.background"},
		{"bad platform", func(c *Config) { c.Canvas.Platform = "chrome" }, "canvas.platform"},
		{"negative limit", func(c *Config) { c.History.Limit = -1 }, "history.limit"},
		{"negative cache", func(c *Config) { c.History.Cache = -2 }, "history.cache"},
		{"bad compression", func(c *Config) { c.History.Compression = "max" }, "history.compression"},
		{"unknown filter", func(c *Config) { c.Filters.Enabled = []string{"sepia"} }, "filters.enabled"},
		{"zero blur", func(c *Config) { c.Filters.BlurRadius = 0 }, "filters.blur_radius"},
		{"negative workers", func(c *Config) { c.Filters.Workers = -1 }, "filters.workers"},
		{"jpeg quality", func(c *Config) { c.Export.JPEGQuality = 101 }, "export.jpeg_quality"},
		{"basename path", func(c *Config) { c.Export.Basename = "a/b" }, "export.basename"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Canvas.Width = -1
	cfg.Log.Format = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canvas size")
	assert.Contains(t, err.Error(), "log.format")
}

func TestCompressionLevels(t *testing.T) {
	for in, want := range map[string]png.CompressionLevel{
		"":        png.DefaultCompression,
		"default": png.DefaultCompression,
		"none":    png.NoCompression,
		"speed":   png.BestSpeed,
		"BEST":    png.BestCompression,
	} {
		got, err := HistoryConfig{Compression: in}.CompressionLevel()
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := LogConfig{Level: "info", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	log, err = LogConfig{Level: "debug", Format: "text"}.NewLogger(&buf)
	require.NoError(t, err)
	log.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")

	_, err = LogConfig{Level: "info", Format: "xml"}.NewLogger(&buf)
	assert.Error(t, err)
}
