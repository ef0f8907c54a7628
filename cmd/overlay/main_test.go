package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedantwpatil/ball-overlay/internal/config"
)

func TestParseArgs(t *testing.T) {
	t.Run("flags after the input", func(t *testing.T) {
		a, err := parseArgs([]string{"match.mp4", "--filters", "--trail"}, io.Discard)
		require.NoError(t, err)
		assert.Equal(t, "match.mp4", a.inputPath)
		assert.True(t, a.filters)
		assert.True(t, a.trail)
		assert.False(t, a.trackBall)
		assert.True(t, a.preview)
	})

	t.Run("flags on both sides", func(t *testing.T) {
		a, err := parseArgs([]string{"--track_ball", "match.mp4", "-output", "out.mp4", "--preview=false"}, io.Discard)
		require.NoError(t, err)
		assert.Equal(t, "match.mp4", a.inputPath)
		assert.True(t, a.trackBall)
		assert.Equal(t, "out.mp4", a.outputPath)
		assert.False(t, a.preview)
		assert.True(t, a.set["output"])
		assert.False(t, a.set["filters"])
	})

	t.Run("no input", func(t *testing.T) {
		_, err := parseArgs([]string{"--filters"}, io.Discard)
		assert.ErrorContains(t, err, "expected one input video")
	})

	t.Run("two inputs", func(t *testing.T) {
		_, err := parseArgs([]string{"a.mp4", "b.mp4"}, io.Discard)
		assert.Error(t, err)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := parseArgs([]string{"a.mp4", "--zoom"}, io.Discard)
		assert.Error(t, err)
	})
}

func TestBuildConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		a, err := parseArgs([]string{"in.mp4"}, io.Discard)
		require.NoError(t, err)

		cfg, err := buildConfig(a)
		require.NoError(t, err)
		assert.Equal(t, config.DefaultOutputPath, cfg.Output.Path)
		assert.Equal(t, config.DefaultPredictionsPath, cfg.Predictions.Path)
		assert.False(t, cfg.Overlay.Grayscale)
		assert.False(t, cfg.Overlay.Marker)
		assert.True(t, cfg.Preview.Enabled)
	})

	t.Run("trail implies the marker", func(t *testing.T) {
		a, err := parseArgs([]string{"in.mp4", "--trail"}, io.Discard)
		require.NoError(t, err)

		cfg, err := buildConfig(a)
		require.NoError(t, err)
		assert.True(t, cfg.Overlay.Trail)
		assert.True(t, cfg.Overlay.Marker)
	})

	t.Run("flags override the config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
overlay:
  grayscale: true
  marker: true
preview:
  enabled: true
output:
  path: from-file.mp4
`), 0o644))

		a, err := parseArgs([]string{"in.mp4", "--config", path, "--preview=false", "--trail"}, io.Discard)
		require.NoError(t, err)

		cfg, err := buildConfig(a)
		require.NoError(t, err)
		assert.True(t, cfg.Overlay.Grayscale, "file value kept")
		assert.True(t, cfg.Overlay.Marker)
		assert.True(t, cfg.Overlay.Trail, "flag applied")
		assert.False(t, cfg.Preview.Enabled, "flag wins over file")
		assert.Equal(t, "from-file.mp4", cfg.Output.Path, "unset flag does not clobber file")
	})

	t.Run("invalid config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("overlay:\n  marker_radius: 0\n"), 0o644))

		a, err := parseArgs([]string{"in.mp4", "--config", path}, io.Discard)
		require.NoError(t, err)
		_, err = buildConfig(a)
		assert.True(t, config.IsValidationError(err))
	})
}

func TestApplicationQuitPaths(t *testing.T) {
	preds := filepath.Join(t.TempDir(), "preds.csv")
	require.NoError(t, os.WriteFile(preds, []byte("frame,active,predicted_x,predicted_y\n0,1,1,1\n"), 0o644))

	newApp := func(t *testing.T, mutate func(*config.Config)) *Application {
		t.Helper()
		cfg := config.NewConfig()
		cfg.Predictions.Path = preds
		mutate(cfg)
		app, err := NewApplication(cfg)
		require.NoError(t, err)
		t.Cleanup(app.cancel)
		return app
	}

	t.Run("stop cancels the run context", func(t *testing.T) {
		app := newApp(t, func(*config.Config) {})
		require.NoError(t, app.ctx.Err())

		app.Stop()
		app.Stop()
		assert.ErrorIs(t, app.ctx.Err(), context.Canceled)
	})

	t.Run("hint names the graceful paths", func(t *testing.T) {
		app := newApp(t, func(c *config.Config) { c.Hotkey.Enabled = true })
		hint := app.quitHint()
		assert.Contains(t, hint, "press q in the preview window")
		assert.Contains(t, hint, "press q+ctrl+shift")
		assert.Contains(t, hint, "Ctrl+C aborts without finalizing")
	})

	t.Run("hint without preview or hotkey", func(t *testing.T) {
		app := newApp(t, func(c *config.Config) { c.Preview.Enabled = false })
		assert.Equal(t, "Ctrl+C aborts without finalizing the output.", app.quitHint())
	})
}

func TestRunExitCodes(t *testing.T) {
	dir := t.TempDir()
	preds := filepath.Join(dir, "preds.csv")
	require.NoError(t, os.WriteFile(preds, []byte("frame,active,predicted_x,predicted_y\n0,1,1,1\n"), 0o644))

	t.Run("missing prediction table", func(t *testing.T) {
		code := run([]string{"in.mp4", "--predictions", filepath.Join(dir, "absent.csv"), "--preview=false"})
		assert.Equal(t, 1, code)
	})

	t.Run("missing input video", func(t *testing.T) {
		out := filepath.Join(dir, "out.mp4")
		code := run([]string{filepath.Join(dir, "absent.mp4"), "--predictions", preds, "--output", out, "--preview=false"})
		assert.Equal(t, 1, code)
		_, err := os.Stat(out)
		assert.True(t, os.IsNotExist(err), "no output is created when the source is unavailable")
	})

	t.Run("bad usage", func(t *testing.T) {
		assert.Equal(t, 2, run([]string{}))
	})
}
