// Package orchestrator assembles buffers and stages into a running pipeline.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ideamans/go-l10n"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/user/framepipe/pkg/framebuffer"
	"github.com/user/framepipe/pkg/pipeline"
	"github.com/user/framepipe/pkg/ports"
	"github.com/user/framepipe/pkg/stages/capture"
	"github.com/user/framepipe/pkg/stages/drain"
	"github.com/user/framepipe/pkg/stages/transform"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Buffers
	InputCapacity  int `yaml:"input_capacity"`  // Buffer between capture and transform
	OutputCapacity int `yaml:"output_capacity"` // Default capacity of each output buffer

	// Polling
	PollInterval time.Duration `yaml:"poll_interval"`

	// Capture
	Capture capture.Options `yaml:"capture"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		InputCapacity:  4,
		OutputCapacity: 4,
		PollInterval:   pipeline.DefaultPollInterval,
		Capture:        capture.DefaultOptions(),
	}
}

// NamedSink is one downstream consumer with its own output buffer.
type NamedSink struct {
	Name     string
	Sink     ports.FrameSink
	Capacity int // 0 uses Config.OutputCapacity
}

// Orchestrator wires one source, one transform and any number of sinks.
type Orchestrator struct {
	source    ports.FrameSource
	transform pipeline.Transform
	sinks     []NamedSink
	debug     ports.DebugSink
	logger    ports.Logger

	mu      sync.Mutex
	capture *capture.Stage
}

// New creates a new Orchestrator.
func New(
	source ports.FrameSource,
	transform pipeline.Transform,
	sinks []NamedSink,
	debug ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		source:    source,
		transform: transform,
		sinks:     append([]NamedSink(nil), sinks...),
		debug:     debug,
		logger:    logger,
	}
}

// MoveCursor moves the crop centre of the running capture stage.
// It reports false when no run is in progress.
func (o *Orchestrator) MoveCursor(x, y int) bool {
	o.mu.Lock()
	stage := o.capture
	o.mu.Unlock()
	if stage == nil {
		return false
	}
	stage.MoveCursor(x, y)
	return true
}

// Run creates every buffer, starts each stage in its own goroutine and
// waits for all of them.
//
// A failing stage only stops the stages upstream of it. Stages downstream
// see their input marked finished and drain what is already buffered.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	if err := validate(config, o.sinks); err != nil {
		return RunResult{}, err
	}

	runID := uuid.NewString()
	started := time.Now()
	o.logger.Info(l10n.F("Starting pipeline run %s", runID))

	if o.debug.Enabled() {
		if data, err := yaml.Marshal(config); err == nil {
			if err := o.debug.SaveConfigYAML(data); err != nil {
				o.logger.Warn(l10n.F("Failed to save config: %s", err))
			}
		}
	}

	// Buffers
	input, err := framebuffer.New(config.InputCapacity)
	if err != nil {
		return RunResult{}, fmt.Errorf("input buffer: %w", err)
	}
	o.logger.Info(l10n.F("Buffer %s: capacity %d", "input", input.Cap()))

	outputs := make([]*framebuffer.Buffer, len(o.sinks))
	for i, s := range o.sinks {
		capacity := s.Capacity
		if capacity == 0 {
			capacity = config.OutputCapacity
		}
		if outputs[i], err = framebuffer.New(capacity); err != nil {
			return RunResult{}, fmt.Errorf("output buffer %s: %w", s.Name, err)
		}
		o.logger.Info(l10n.F("Buffer %s: capacity %d", s.Name, capacity))
	}

	// Stages
	captureOpts := config.Capture
	captureOpts.PollInterval = config.PollInterval
	captureStage := capture.NewStage(o.source, input, o.debug, o.logger, captureOpts)

	transformOpts := transform.DefaultOptions()
	transformOpts.PollInterval = config.PollInterval
	transformStage, err := transform.NewStage(input, o.transform, outputs, o.logger, transformOpts)
	if err != nil {
		return RunResult{}, fmt.Errorf("transform stage: %w", err)
	}

	drains := make([]*drain.Stage, len(o.sinks))
	for i, s := range o.sinks {
		drains[i] = drain.NewStage(s.Name, outputs[i], s.Sink, o.logger, config.PollInterval)
	}

	o.mu.Lock()
	o.capture = captureStage
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.capture = nil
		o.mu.Unlock()
	}()

	// The capture and transform stages share a context that is cancelled
	// when anything downstream of them fails.
	upstreamCtx, cancelUpstream := context.WithCancel(ctx)
	defer cancelUpstream()

	errs := make([]error, 2+len(drains))
	var g errgroup.Group
	launch := func(slot int, name string, stage pipeline.Stage, stageCtx context.Context) {
		g.Go(func() error {
			if err := stage.Run(stageCtx); err != nil {
				errs[slot] = fmt.Errorf("%s stage: %w", name, err)
				if slot > 0 {
					cancelUpstream()
				}
			}
			return errs[slot]
		})
	}

	launch(0, "capture", captureStage, upstreamCtx)
	launch(1, "transform", transformStage, upstreamCtx)
	for i, d := range drains {
		launch(2+i, "drain "+d.Name(), d, ctx)
	}
	_ = g.Wait()

	result := RunResult{
		RunID:     runID,
		StartedAt: started,
		Duration:  time.Since(started),
		Capture:   captureStage.Stats(),
		Transform: transformStage.Stats(),
		Input:     input.Stats(),
	}
	for i, d := range drains {
		result.Outputs = append(result.Outputs, OutputResult{
			Name:   d.Name(),
			Frames: d.Count(),
			Buffer: outputs[i].Stats(),
		})
		o.logger.Info(l10n.F("Output %s received %d frames", d.Name(), d.Count()))
	}

	if err := rootCause(errs); err != nil {
		o.logger.Error(l10n.F("Pipeline failed: %s", err))
		return result, err
	}

	o.logger.Info(l10n.T("Pipeline completed successfully"))
	return result, nil
}

// rootCause picks the error to report. A stage stopped by another stage's
// failure reports context.Canceled, so the first other error wins.
func rootCause(errs []error) error {
	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if !errors.Is(err, context.Canceled) {
			return err
		}
		if first == nil {
			first = err
		}
	}
	return first
}

func validate(config Config, sinks []NamedSink) error {
	if len(sinks) == 0 {
		return pipeline.ErrNoOutputs
	}
	if config.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", config.PollInterval)
	}
	for _, s := range sinks {
		if s.Sink == nil {
			return fmt.Errorf("output %q has no sink", s.Name)
		}
		if s.Capacity < 0 {
			return fmt.Errorf("output %q: %w", s.Name, framebuffer.ErrInvalidCapacity)
		}
	}
	return nil
}

// OutputResult describes one output after the run.
type OutputResult struct {
	Name   string
	Frames int
	Buffer framebuffer.Stats
}

// RunResult contains the results of a pipeline run for summary generation.
type RunResult struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration

	Capture   capture.Stats
	Transform transform.Stats

	Input   framebuffer.Stats
	Outputs []OutputResult
}
