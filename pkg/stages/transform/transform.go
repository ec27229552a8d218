// Package transform implements the fan-out stage: it applies a transform to
// each input frame and delivers the result to every output buffer.
package transform

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/user/framepipe/pkg/framebuffer"
	"github.com/user/framepipe/pkg/pipeline"
	"github.com/user/framepipe/pkg/ports"
)

// Options configures the transform stage.
type Options struct {
	PollInterval time.Duration // Wait between checks of empty input or full outputs

	// TerminalOutputs marks every output finished when the stage stops.
	// Leave it true unless another producer shares the outputs.
	TerminalOutputs bool
}

// DefaultOptions returns Options with default values.
func DefaultOptions() Options {
	return Options{
		PollInterval:    pipeline.DefaultPollInterval,
		TerminalOutputs: true,
	}
}

// Stats reports the stage's progress.
type Stats struct {
	Received  int // Frames dequeued from the input
	Processed int // Frames produced by the transform
	Delivered int // Frames delivered to all outputs
	Retries   int // Delivery rounds that found at least one output full
}

// Stage applies a transform and fans each result out to all outputs.
//
// At most one frame is in flight. A frame held for delivery is retried only
// on the outputs that have not yet received it, and the next input frame is
// not read until every output has it, so each output sees input order.
type Stage struct {
	input     *framebuffer.Buffer
	outputs   []*framebuffer.Buffer
	transform pipeline.Transform
	logger    ports.Logger
	opts      Options

	received  atomic.Int64
	processed atomic.Int64
	delivered atomic.Int64
	retries   atomic.Int64
}

// NewStage creates a new transform stage. outputs is copied and must not be empty.
func NewStage(input *framebuffer.Buffer, transform pipeline.Transform, outputs []*framebuffer.Buffer, logger ports.Logger, opts Options) (*Stage, error) {
	if len(outputs) == 0 {
		return nil, pipeline.ErrNoOutputs
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = pipeline.DefaultPollInterval
	}
	return &Stage{
		input:     input,
		outputs:   append([]*framebuffer.Buffer(nil), outputs...),
		transform: transform,
		logger:    logger.WithComponent("transform"),
		opts:      opts,
	}, nil
}

// Stats returns the stage counters.
func (s *Stage) Stats() Stats {
	return Stats{
		Received:  int(s.received.Load()),
		Processed: int(s.processed.Load()),
		Delivered: int(s.delivered.Load()),
		Retries:   int(s.retries.Load()),
	}
}

// Run processes input frames until the input is drained, the transform
// fails, or ctx is cancelled. The input's finished flag is never touched.
// When TerminalOutputs is set, every output is marked finished on exit,
// including error exits, so consumers never wait on a dead producer.
func (s *Stage) Run(ctx context.Context) error {
	if s.opts.TerminalOutputs {
		defer s.finishOutputs()
	}

	s.logger.Debug("Transform started with %d outputs", len(s.outputs))

	var (
		received     pipeline.Frame
		hasReceived  bool
		processed    pipeline.Frame
		hasProcessed bool
		delivered    = make([]bool, len(s.outputs))
	)

	for {
		if err := ctx.Err(); err != nil {
			s.logger.Debug("Cancelled, marking outputs finished")
			return err
		}

		// Deliver the held frame before anything else.
		if hasProcessed {
			if s.deliver(processed, delivered) {
				hasProcessed = false
				processed = pipeline.Frame{}
				clear(delivered)
				s.delivered.Add(1)
				continue
			}
			s.retries.Add(1)
			if err := pipeline.Wait(ctx, s.opts.PollInterval); err != nil {
				return err
			}
			continue
		}

		if hasReceived {
			out, err := s.transform.Apply(received)
			if err != nil {
				s.logger.Error("Transform failed on frame %d: %s", received.Seq, err)
				return fmt.Errorf("%w: frame %d: %w", pipeline.ErrTransform, received.Seq, err)
			}
			processed, hasProcessed = out, true
			received, hasReceived = pipeline.Frame{}, false
			s.processed.Add(1)
			s.logger.Debug("Processed frame %d", out.Seq)
			continue
		}

		// Check finished before empty: a producer enqueues before it marks
		// finished, so finished-then-empty means nothing more can arrive.
		finished := s.input.IsFinished()
		if s.input.IsEmpty() {
			if finished {
				s.logger.Debug("Transform complete: %d frames", s.delivered.Load())
				return nil
			}
			if err := pipeline.Wait(ctx, s.opts.PollInterval); err != nil {
				return err
			}
			continue
		}

		frame, err := s.input.Dequeue()
		if err != nil {
			return fmt.Errorf("dequeue input: %w", err)
		}
		received, hasReceived = frame, true
		s.received.Add(1)
		s.logger.Debug("Received frame %d", frame.Seq)
	}
}

// deliver enqueues frame into every output not yet marked in delivered and
// not currently full. It reports whether all outputs now have the frame.
func (s *Stage) deliver(frame pipeline.Frame, delivered []bool) bool {
	done := 0
	for i, out := range s.outputs {
		if delivered[i] {
			done++
			continue
		}
		if out.IsFull() {
			continue
		}
		// This stage is the only writer, so a non-full output accepts the frame.
		if err := out.Enqueue(frame); err != nil {
			continue
		}
		delivered[i] = true
		done++
	}
	s.logger.Debug("Frame %d delivered to %d/%d outputs", frame.Seq, done, len(s.outputs))
	return done == len(s.outputs)
}

func (s *Stage) finishOutputs() {
	for _, out := range s.outputs {
		out.MarkFinished()
	}
}
