// Package capture implements the source stage: it reads raw frames, crops
// each one to the current region of interest and pushes the result into the
// pipeline's first buffer.
package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/framepipe/pkg/framebuffer"
	"github.com/user/framepipe/pkg/pipeline"
	"github.com/user/framepipe/pkg/ports"
)

// Options configures the capture stage.
type Options struct {
	CropWidth  int // Crop window width (default: 200)
	CropHeight int // Crop window height (default: 200)
	CursorX    int // Initial crop centre (default: 100)
	CursorY    int // Initial crop centre (default: 100)

	PollInterval  time.Duration // Wait between checks of a full output buffer
	FrameInterval time.Duration // Optional pacing between source reads (0 = none)
	MaxFrames     int           // Stop after this many raw units (0 = unlimited)
}

// DefaultOptions returns Options with default values.
func DefaultOptions() Options {
	return Options{
		CropWidth:    200,
		CropHeight:   200,
		CursorX:      100,
		CursorY:      100,
		PollInterval: pipeline.DefaultPollInterval,
	}
}

// Stats reports what the stage did with the raw units it read.
type Stats struct {
	Read     int
	Produced int
	Skipped  int
	Bytes    int64 // Payload of produced frames, 4 bytes per sample
}

// Stage reads from a frame source and writes cropped frames to one buffer.
type Stage struct {
	source ports.FrameSource
	output *framebuffer.Buffer
	sink   ports.DebugSink
	logger ports.Logger
	opts   Options

	mu     sync.Mutex
	cursor pipeline.Region // X/Y hold the centre, Width/Height the window size

	read     atomic.Int64
	produced atomic.Int64
	skipped  atomic.Int64
	bytes    atomic.Int64
}

// NewStage creates a new capture stage writing to output.
func NewStage(source ports.FrameSource, output *framebuffer.Buffer, sink ports.DebugSink, logger ports.Logger, opts Options) *Stage {
	if opts.PollInterval <= 0 {
		opts.PollInterval = pipeline.DefaultPollInterval
	}
	return &Stage{
		source: source,
		output: output,
		sink:   sink,
		logger: logger.WithComponent("capture"),
		opts:   opts,
		cursor: pipeline.Region{
			X:      opts.CursorX,
			Y:      opts.CursorY,
			Width:  opts.CropWidth,
			Height: opts.CropHeight,
		},
	}
}

// MoveCursor moves the crop centre, clamped to the source bounds.
// It is safe to call while Run is in progress; the next frame read uses it.
func (s *Stage) MoveCursor(x, y int) {
	bounds := s.source.Bounds()
	x = max(x, 0)
	y = max(y, 0)
	if bounds.Width > 0 {
		x = min(x, bounds.Width-1)
	}
	if bounds.Height > 0 {
		y = min(y, bounds.Height-1)
	}

	s.mu.Lock()
	s.cursor.X, s.cursor.Y = x, y
	s.mu.Unlock()

	s.logger.Debug("Cursor moved to (%d, %d)", x, y)
}

// SetRegion replaces the crop window. The region is not clamped; frames
// whose clipped window is empty are skipped.
func (s *Stage) SetRegion(r pipeline.Region) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = pipeline.Region{
		X:      r.X + r.Width/2,
		Y:      r.Y + r.Height/2,
		Width:  r.Width,
		Height: r.Height,
	}
}

// Region returns the current, unclipped crop window.
func (s *Stage) Region() pipeline.Region {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pipeline.CenteredRegion(s.cursor.X, s.cursor.Y, s.cursor.Width, s.cursor.Height)
}

// Stats returns the stage counters.
func (s *Stage) Stats() Stats {
	return Stats{
		Read:     int(s.read.Load()),
		Produced: int(s.produced.Load()),
		Skipped:  int(s.skipped.Load()),
		Bytes:    s.bytes.Load(),
	}
}

// Run reads the source until it is exhausted, fails, or ctx is cancelled.
// On every exit path the output buffer is marked finished before the source
// is closed, so downstream stages drain and stop.
func (s *Stage) Run(ctx context.Context) (err error) {
	defer func() {
		s.output.MarkFinished()
		if cerr := s.source.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close source: %w", cerr)
		}
	}()

	bounds := s.source.Bounds()
	region := s.Region()
	s.logger.Debug("Capture started: %dx%d source, %dx%d crop", bounds.Width, bounds.Height, region.Width, region.Height)

	for i := 0; s.opts.MaxFrames <= 0 || i < s.opts.MaxFrames; i++ {
		if err := ctx.Err(); err != nil {
			s.logger.Debug("Cancelled, marking outputs finished")
			return err
		}

		raw, err := s.source.Next()
		if errors.Is(err, ports.ErrEndOfInput) {
			break
		}
		if err != nil {
			s.logger.Error("Could not read frame: %s", err)
			return fmt.Errorf("%w: %w", pipeline.ErrSourceRead, err)
		}
		s.read.Add(1)

		if err := s.process(ctx, i, raw); err != nil {
			return err
		}

		if s.opts.FrameInterval > 0 {
			if err := pipeline.Wait(ctx, s.opts.FrameInterval); err != nil {
				return err
			}
		}
	}

	st := s.Stats()
	s.logger.Debug("Input stream complete: %d frames, %d skipped", st.Produced, st.Skipped)
	return nil
}

// process derives at most one frame from raw and enqueues it.
func (s *Stage) process(ctx context.Context, index int, raw pipeline.Frame) error {
	region := s.Region().Intersect(raw.Bounds())

	if s.sink.Enabled() {
		if err := s.sink.SavePreview(index, raw, region); err != nil {
			s.logger.Warn("Failed to save preview %d: %s", index, err)
		}
	}

	if region.Empty() {
		s.skipped.Add(1)
		s.logger.Warn("Skipping frame %d: crop region out of bounds", index)
		return nil
	}

	frame := raw.Crop(region)

	s.logger.Debug("Writing frame %d", index)
	if err := s.push(ctx, frame); err != nil {
		return err
	}
	s.produced.Add(1)
	s.bytes.Add(int64(frame.Len()) * 4)
	s.logger.Debug("Written frame %d", index)
	return nil
}

// push waits for room in the output buffer and enqueues frame.
// This stage is the buffer's only writer, so room observed stays available.
func (s *Stage) push(ctx context.Context, frame pipeline.Frame) error {
	for s.output.IsFull() {
		if err := pipeline.Wait(ctx, s.opts.PollInterval); err != nil {
			return err
		}
	}
	if err := s.output.Enqueue(frame); err != nil {
		return fmt.Errorf("enqueue frame %d: %w", frame.Seq, err)
	}
	return nil
}
