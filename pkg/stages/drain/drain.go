// Package drain implements a terminal consumer stage that empties one buffer
// into a frame sink.
package drain

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/user/framepipe/pkg/framebuffer"
	"github.com/user/framepipe/pkg/pipeline"
	"github.com/user/framepipe/pkg/ports"
)

// Stage polls one buffer and hands every frame to a sink.
type Stage struct {
	name         string
	input        *framebuffer.Buffer
	sink         ports.FrameSink
	logger       ports.Logger
	pollInterval time.Duration

	count atomic.Int64
}

// NewStage creates a drain stage. name identifies the output in logs.
func NewStage(name string, input *framebuffer.Buffer, sink ports.FrameSink, logger ports.Logger, pollInterval time.Duration) *Stage {
	if pollInterval <= 0 {
		pollInterval = pipeline.DefaultPollInterval
	}
	return &Stage{
		name:         name,
		input:        input,
		sink:         sink,
		logger:       logger.WithComponent("drain:" + name),
		pollInterval: pollInterval,
	}
}

// Name returns the output name.
func (s *Stage) Name() string {
	return s.name
}

// Count returns the number of frames handed to the sink.
func (s *Stage) Count() int {
	return int(s.count.Load())
}

// Run consumes frames until the input is finished and empty, the sink
// fails, or ctx is cancelled. The sink is closed on every exit path.
func (s *Stage) Run(ctx context.Context) (err error) {
	defer func() {
		if cerr := s.sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close: %w", pipeline.ErrSink, cerr)
		}
	}()

	for {
		finished := s.input.IsFinished()
		if s.input.IsEmpty() {
			if finished {
				s.logger.Debug("Drain complete: %d frames", s.count.Load())
				return nil
			}
			if err := pipeline.Wait(ctx, s.pollInterval); err != nil {
				return err
			}
			continue
		}

		frame, err := s.input.Dequeue()
		if err != nil {
			return fmt.Errorf("dequeue: %w", err)
		}
		if err := s.sink.Consume(frame); err != nil {
			s.logger.Error("Sink rejected frame %d: %s", frame.Seq, err)
			return fmt.Errorf("%w: frame %d: %w", pipeline.ErrSink, frame.Seq, err)
		}
		s.count.Add(1)
	}
}
