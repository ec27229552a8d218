// Package framepipe provides a high-level API for configuring pipeline runs.
package framepipe

import (
	"fmt"
	"time"

	"github.com/user/framepipe/pkg/orchestrator"
	"github.com/user/framepipe/pkg/pipeline"
)

// Preset names a buffer sizing profile.
type Preset string

const (
	PresetRealtime   Preset = "realtime"
	PresetBalanced   Preset = "balanced"
	PresetThroughput Preset = "throughput"
)

// BufferSettings contains the buffer parameters a preset controls.
type BufferSettings struct {
	InputCapacity  int
	OutputCapacity int
	PollInterval   time.Duration
}

// GetBufferSettings returns buffer settings for the given preset.
func GetBufferSettings(preset Preset) BufferSettings {
	switch preset {
	case PresetRealtime:
		// Single slots keep at most one stale frame between stages.
		return BufferSettings{InputCapacity: 1, OutputCapacity: 1, PollInterval: time.Millisecond}
	case PresetThroughput:
		return BufferSettings{InputCapacity: 16, OutputCapacity: 32, PollInterval: pipeline.DefaultPollInterval}
	default: // balanced
		return BufferSettings{InputCapacity: 4, OutputCapacity: 4, PollInterval: pipeline.DefaultPollInterval}
	}
}

// ParsePreset validates a preset name.
func ParsePreset(s string) (Preset, error) {
	switch p := Preset(s); p {
	case PresetRealtime, PresetBalanced, PresetThroughput:
		return p, nil
	default:
		return "", fmt.Errorf("unknown preset %q (available: realtime, balanced, throughput)", s)
	}
}

// ConfigBuilder provides a fluent interface for building orchestrator.Config.
type ConfigBuilder struct {
	config orchestrator.Config
}

// NewConfigBuilder creates a new ConfigBuilder with balanced defaults.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{config: orchestrator.DefaultConfig()}
}

// Build returns the final Config, applying constraints.
func (b *ConfigBuilder) Build() orchestrator.Config {
	cfg := b.config

	// Enforce minimum buffer capacity of 1
	cfg.InputCapacity = max(cfg.InputCapacity, 1)
	cfg.OutputCapacity = max(cfg.OutputCapacity, 1)

	// Enforce minimum poll interval of 1ms
	cfg.PollInterval = max(cfg.PollInterval, time.Millisecond)
	cfg.Capture.PollInterval = cfg.PollInterval

	cfg.Capture.CropWidth = max(cfg.Capture.CropWidth, 1)
	cfg.Capture.CropHeight = max(cfg.Capture.CropHeight, 1)

	return cfg
}

// WithPreset applies the buffer settings of a preset.
func (b *ConfigBuilder) WithPreset(preset Preset) *ConfigBuilder {
	s := GetBufferSettings(preset)
	b.config.InputCapacity = s.InputCapacity
	b.config.OutputCapacity = s.OutputCapacity
	b.config.PollInterval = s.PollInterval
	return b
}

// WithInputCapacity sets the capacity of the buffer between capture and transform.
// Values below 1 will be forced to 1.
func (b *ConfigBuilder) WithInputCapacity(n int) *ConfigBuilder {
	b.config.InputCapacity = n
	return b
}

// WithOutputCapacity sets the default capacity of each output buffer.
// Values below 1 will be forced to 1.
func (b *ConfigBuilder) WithOutputCapacity(n int) *ConfigBuilder {
	b.config.OutputCapacity = n
	return b
}

// WithPollInterval sets the wait between checks of empty or full buffers.
func (b *ConfigBuilder) WithPollInterval(d time.Duration) *ConfigBuilder {
	b.config.PollInterval = d
	return b
}

// WithCropSize sets the crop window size.
func (b *ConfigBuilder) WithCropSize(width, height int) *ConfigBuilder {
	b.config.Capture.CropWidth = width
	b.config.Capture.CropHeight = height
	return b
}

// WithCursor sets the initial crop centre.
func (b *ConfigBuilder) WithCursor(x, y int) *ConfigBuilder {
	b.config.Capture.CursorX = x
	b.config.Capture.CursorY = y
	return b
}

// WithFrameInterval paces source reads. Use 0 to read as fast as possible.
func (b *ConfigBuilder) WithFrameInterval(d time.Duration) *ConfigBuilder {
	b.config.Capture.FrameInterval = d
	return b
}

// WithMaxFrames stops capture after n raw units. Use 0 for unlimited.
func (b *ConfigBuilder) WithMaxFrames(n int) *ConfigBuilder {
	b.config.Capture.MaxFrames = n
	return b
}

// FPSToInterval converts a frame rate to the pacing interval between reads.
// Zero or negative rates mean no pacing.
func FPSToInterval(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
