package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, DefaultPredictionsPath, cfg.Predictions.Path)
	assert.Equal(t, "predicted_x", cfg.Predictions.Columns.X)
	assert.Equal(t, 10, cfg.Overlay.MarkerRadius)
	assert.Equal(t, 5, cfg.Overlay.TrailRadius)
	assert.Equal(t, 30, cfg.Overlay.TrailLength)
	assert.Equal(t, 8, cfg.Overlay.TrailFadeStep)
	assert.Equal(t, DefaultOutputPath, cfg.Output.Path)
	assert.True(t, cfg.Preview.Enabled)
	assert.False(t, cfg.Hotkey.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	t.Run("overrides only the keys present", func(t *testing.T) {
		path := writeConfig(t, "run.yaml", `
predictions:
  path: preds.db
  columns:
    active: value
overlay:
  grayscale: true
  trail_length: 12
output:
  codec: mpeg4
`)
		cfg, err := LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, "preds.db", cfg.Predictions.Path)
		assert.Equal(t, "value", cfg.Predictions.Columns.Active)
		assert.Equal(t, "frame", cfg.Predictions.Columns.Frame)
		assert.True(t, cfg.Overlay.Grayscale)
		assert.Equal(t, 12, cfg.Overlay.TrailLength)
		assert.Equal(t, 10, cfg.Overlay.MarkerRadius)
		assert.Equal(t, "mpeg4", cfg.Output.Codec)
		assert.Equal(t, DefaultOutputPath, cfg.Output.Path)
	})

	t.Run("rejects other extensions", func(t *testing.T) {
		path := writeConfig(t, "run.json", `{}`)
		_, err := LoadFile(path)
		assert.ErrorContains(t, err, ".yaml")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "bad.yml", "overlay: [unterminated")
		_, err := LoadFile(path)
		assert.ErrorContains(t, err, "failed to parse")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero marker radius", func(c *Config) { c.Overlay.MarkerRadius = 0 }, "marker radius"},
		{"negative trail radius", func(c *Config) { c.Overlay.TrailRadius = -1 }, "trail radius"},
		{"zero trail length", func(c *Config) { c.Overlay.TrailLength = 0 }, "trail length"},
		{"negative fade step", func(c *Config) { c.Overlay.TrailFadeStep = -8 }, "fade step"},
		{"empty output", func(c *Config) { c.Output.Path = "" }, "output.path"},
		{"empty codec", func(c *Config) { c.Output.Codec = "" }, "output.codec"},
		{"long quit key", func(c *Config) { c.Preview.QuitKey = "qq" }, "quit_key"},
		{"hotkey without keys", func(c *Config) {
			c.Hotkey.Enabled = true
			c.Hotkey.Keys = nil
		}, "hotkey.keys"},
		{"unnamed column", func(c *Config) { c.Predictions.Columns.Y = "" }, "columns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("quit key ignored without preview", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Preview.Enabled = false
		cfg.Preview.QuitKey = ""
		assert.NoError(t, cfg.Validate())
	})
}
