// Package pipeline provides the pipeline infrastructure for framepipe.
package pipeline

import (
	"context"
	"time"
)

// Stage represents an independently scheduled unit of pipeline logic.
// A stage reads from at most one buffer and writes to zero or more buffers.
type Stage interface {
	// Run executes the stage until its input is exhausted, a fatal error
	// occurs, or ctx is cancelled.
	Run(ctx context.Context) error
}

// StageFunc is a function adapter for Stage interface.
type StageFunc func(ctx context.Context) error

// Run implements Stage interface.
func (f StageFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Transform is an opaque frame-to-frame function, typically model inference.
// It may be arbitrarily slow. A returned error is fatal for the calling stage.
type Transform interface {
	Apply(frame Frame) (Frame, error)
}

// TransformFunc is a function adapter for Transform interface.
type TransformFunc func(frame Frame) (Frame, error)

// Apply implements Transform interface.
func (f TransformFunc) Apply(frame Frame) (Frame, error) {
	return f(frame)
}

// DefaultPollInterval is the wait between buffer checks when a stage cannot
// make progress.
const DefaultPollInterval = 10 * time.Millisecond

// Wait blocks for interval or until ctx is done, whichever comes first.
// It returns ctx.Err() when the context ended the wait.
func Wait(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
