// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/framepipe/pkg/adapters/models"
	"github.com/user/framepipe/pkg/adapters/patternsource"
	"github.com/user/framepipe/pkg/framepipe"
	"github.com/user/framepipe/pkg/orchestrator"
	"github.com/user/framepipe/pkg/pipeline"
	"github.com/user/framepipe/pkg/stages/capture"
)

// Config represents the full configuration for framepipe.
type Config struct {
	// Source
	SourceDir string        `yaml:"source_dir"` // Image directory; empty uses the test pattern
	Pattern   PatternConfig `yaml:"pattern"`

	// Model
	Model        string        `yaml:"model"`
	ResizeWidth  int           `yaml:"resize_width"`
	ResizeHeight int           `yaml:"resize_height"`
	Latency      time.Duration `yaml:"latency"`

	// Buffers. A preset replaces the three values below.
	Preset         string        `yaml:"preset"`
	InputCapacity  int           `yaml:"input_capacity"`
	OutputCapacity int           `yaml:"output_capacity"`
	PollInterval   time.Duration `yaml:"poll_interval"`

	// Capture
	CropWidth     int           `yaml:"crop_width"`
	CropHeight    int           `yaml:"crop_height"`
	CursorX       int           `yaml:"cursor_x"`
	CursorY       int           `yaml:"cursor_y"`
	FrameInterval time.Duration `yaml:"frame_interval"`
	MaxFrames     int           `yaml:"max_frames"`

	// Outputs
	Outputs []OutputConfig `yaml:"outputs"`

	// Debug
	Debug        bool   `yaml:"debug"`
	DebugDir     string `yaml:"debug_dir"`
	PreviewColor string `yaml:"preview_color"`

	// Reporting
	LogLevel    string `yaml:"log_level"`
	SummaryPath string `yaml:"summary"`
}

// PatternConfig configures the synthetic test pattern source.
type PatternConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	Count      int `yaml:"count"`
	SquareSize int `yaml:"square_size"`
	Step       int `yaml:"step"`
}

// OutputConfig describes one downstream consumer.
// An empty Dir discards frames.
type OutputConfig struct {
	Name     string `yaml:"name"`
	Dir      string `yaml:"dir"`
	Capacity int    `yaml:"capacity"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	pattern := patternsource.DefaultOptions()
	crop := capture.DefaultOptions()

	return Config{
		Pattern: PatternConfig{
			Width:      pattern.Width,
			Height:     pattern.Height,
			Count:      pattern.Count,
			SquareSize: pattern.SquareSize,
			Step:       pattern.Step,
		},

		Model: "identity",

		InputCapacity:  4,
		OutputCapacity: 4,
		PollInterval:   pipeline.DefaultPollInterval,

		CropWidth:  crop.CropWidth,
		CropHeight: crop.CropHeight,
		CursorX:    crop.CursorX,
		CursorY:    crop.CursorY,

		Outputs: []OutputConfig{
			{Name: "frames", Dir: "./out"},
		},

		DebugDir:     "./debug",
		PreviewColor: "#00ff00",
		LogLevel:     "info",
	}
}

// LoadFromFile loads configuration from a YAML file over Defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate reports every invalid value at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.InputCapacity >= 1, "input_capacity must be at least 1, got %d", c.InputCapacity)
	check(c.OutputCapacity >= 1, "output_capacity must be at least 1, got %d", c.OutputCapacity)
	check(c.PollInterval > 0, "poll_interval must be positive, got %s", c.PollInterval)
	check(c.CropWidth > 0 && c.CropHeight > 0, "crop size must be positive, got %dx%d", c.CropWidth, c.CropHeight)
	check(c.FrameInterval >= 0, "frame_interval must not be negative")
	check(c.MaxFrames >= 0, "max_frames must not be negative")
	check(c.Latency >= 0, "latency must not be negative")
	check(len(c.Outputs) > 0, "at least one output is required")

	if c.Preset != "" {
		if _, err := framepipe.ParsePreset(c.Preset); err != nil {
			errs = append(errs, err)
		}
	}

	check(models.Known(c.Model), "unknown model %q (available: %s)", c.Model, strings.Join(models.Names(), ", "))
	if strings.EqualFold(c.Model, "resize") {
		check(c.ResizeWidth > 0 && c.ResizeHeight > 0, "resize target must be positive, got %dx%d", c.ResizeWidth, c.ResizeHeight)
	}

	if c.SourceDir == "" {
		check(c.Pattern.Width > 0 && c.Pattern.Height > 0, "pattern size must be positive, got %dx%d", c.Pattern.Width, c.Pattern.Height)
		check(c.Pattern.Count >= 0, "pattern count must not be negative")
	}

	seen := make(map[string]bool)
	for i, o := range c.Outputs {
		check(o.Name != "", "outputs[%d]: name is required", i)
		check(!seen[o.Name], "outputs[%d]: duplicate name %q", i, o.Name)
		check(o.Capacity >= 0, "outputs[%d]: capacity must not be negative", i)
		seen[o.Name] = true
	}

	if c.PreviewColor != "" {
		if _, err := ParseColor(c.PreviewColor); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// ParseColor parses "#rrggbb" or "rrggbb" into an opaque colour.
func ParseColor(hex string) (color.Color, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return nil, fmt.Errorf("invalid colour %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid colour %q", hex)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// ModelOptions returns the transform options. The caller supplies the renderer.
func (c Config) ModelOptions() models.Options {
	return models.Options{
		ResizeWidth:  c.ResizeWidth,
		ResizeHeight: c.ResizeHeight,
		Latency:      c.Latency,
	}
}

// PatternOptions returns the test pattern options.
func (c Config) PatternOptions() patternsource.Options {
	return patternsource.Options{
		Width:      c.Pattern.Width,
		Height:     c.Pattern.Height,
		Count:      c.Pattern.Count,
		SquareSize: c.Pattern.SquareSize,
		Step:       c.Pattern.Step,
	}
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	b := framepipe.NewConfigBuilder().
		WithInputCapacity(c.InputCapacity).
		WithOutputCapacity(c.OutputCapacity).
		WithPollInterval(c.PollInterval)
	if preset, err := framepipe.ParsePreset(c.Preset); err == nil {
		b.WithPreset(preset)
	}

	return b.
		WithCropSize(c.CropWidth, c.CropHeight).
		WithCursor(c.CursorX, c.CursorY).
		WithFrameInterval(c.FrameInterval).
		WithMaxFrames(c.MaxFrames).
		Build()
}
