package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPredictionsPath = "smoothed_predictions.csv"
	DefaultOutputPath      = "output_video_with_active_frames.mp4"
)

type Config struct {
	Predictions PredictionsConfig `yaml:"predictions"`
	Overlay     OverlayConfig     `yaml:"overlay"`
	Output      OutputConfig      `yaml:"output"`
	Preview     PreviewConfig     `yaml:"preview"`
	Hotkey      HotkeyConfig      `yaml:"hotkey"`
}

// PredictionsConfig names the prediction table and the columns read from it.
type PredictionsConfig struct {
	Path    string        `yaml:"path"`
	Table   string        `yaml:"table"` // sqlite sources only
	Columns ColumnsConfig `yaml:"columns"`
}

type ColumnsConfig struct {
	Frame  string `yaml:"frame"`
	Active string `yaml:"active"`
	X      string `yaml:"x"`
	Y      string `yaml:"y"`
}

type OverlayConfig struct {
	Grayscale     bool `yaml:"grayscale"`
	Marker        bool `yaml:"marker"`
	Trail         bool `yaml:"trail"`
	MarkerRadius  int  `yaml:"marker_radius"`
	TrailRadius   int  `yaml:"trail_radius"`
	TrailLength   int  `yaml:"trail_length"`
	TrailFadeStep int  `yaml:"trail_fade_step"`
}

type OutputConfig struct {
	Path    string `yaml:"path"`
	Codec   string `yaml:"codec"`
	Bitrate int    `yaml:"bitrate"` // 0 keeps the input bitrate
}

type PreviewConfig struct {
	Enabled     bool   `yaml:"enabled"`
	WindowName  string `yaml:"window_name"`
	QuitKey     string `yaml:"quit_key"`
	FitToScreen bool   `yaml:"fit_to_screen"`
}

type HotkeyConfig struct {
	Enabled bool     `yaml:"enabled"`
	Keys    []string `yaml:"keys"`
}

func NewConfig() *Config {
	return &Config{
		Predictions: PredictionsConfig{
			Path:  DefaultPredictionsPath,
			Table: "predictions",
			Columns: ColumnsConfig{
				Frame:  "frame",
				Active: "active",
				X:      "predicted_x",
				Y:      "predicted_y",
			},
		},
		Overlay: OverlayConfig{
			MarkerRadius:  10,
			TrailRadius:   5,
			TrailLength:   30,
			TrailFadeStep: 8,
		},
		Output: OutputConfig{
			Path:  DefaultOutputPath,
			Codec: "libx264",
		},
		Preview: PreviewConfig{
			Enabled:     true,
			WindowName:  "Processed Video with Active Frames",
			QuitKey:     "q",
			FitToScreen: true,
		},
		Hotkey: HotkeyConfig{
			Keys: []string{"q", "ctrl", "shift"},
		},
	}
}

// LoadFile reads a YAML file over the defaults. Keys missing from the file
// keep their default values.
func LoadFile(path string) (*Config, error) {
	cfg := NewConfig()

	cleanPath := filepath.Clean(path)
	switch ext := strings.ToLower(filepath.Ext(cleanPath)); ext {
	case ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("config file must have .yaml or .yml extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", cleanPath, err)
	}
	return cfg, nil
}

// ValidationError lists every invalid field found by Validate.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + strings.Join(e.Problems, "; ")
}

func (c *Config) Validate() error {
	var problems []string

	if c.Predictions.Path == "" {
		problems = append(problems, "predictions.path is empty")
	}
	cols := c.Predictions.Columns
	if cols.Frame == "" || cols.Active == "" || cols.X == "" || cols.Y == "" {
		problems = append(problems, "predictions.columns must name frame, active, x and y")
	}
	if c.Overlay.MarkerRadius <= 0 {
		problems = append(problems, fmt.Sprintf("invalid marker radius: %d", c.Overlay.MarkerRadius))
	}
	if c.Overlay.TrailRadius <= 0 {
		problems = append(problems, fmt.Sprintf("invalid trail radius: %d", c.Overlay.TrailRadius))
	}
	if c.Overlay.TrailLength <= 0 {
		problems = append(problems, fmt.Sprintf("invalid trail length: %d", c.Overlay.TrailLength))
	}
	if c.Overlay.TrailFadeStep < 0 {
		problems = append(problems, fmt.Sprintf("invalid trail fade step: %d", c.Overlay.TrailFadeStep))
	}
	if c.Output.Path == "" {
		problems = append(problems, "output.path is empty")
	}
	if c.Output.Codec == "" {
		problems = append(problems, "output.codec is empty")
	}
	if c.Output.Bitrate < 0 {
		problems = append(problems, fmt.Sprintf("invalid output bitrate: %d", c.Output.Bitrate))
	}
	if c.Preview.Enabled && len(c.Preview.QuitKey) != 1 {
		problems = append(problems, fmt.Sprintf("preview.quit_key must be a single character, got %q", c.Preview.QuitKey))
	}
	if c.Hotkey.Enabled && len(c.Hotkey.Keys) == 0 {
		problems = append(problems, "hotkey.keys is empty")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// IsValidationError reports whether err came from Validate.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
