// Package nullsink provides sinks that discard their input.
package nullsink

import (
	"sync/atomic"

	"github.com/user/framepipe/pkg/pipeline"
	"github.com/user/framepipe/pkg/ports"
)

// Sink discards frames and debug output. It still counts consumed frames so
// a run without file output can report throughput.
type Sink struct {
	consumed atomic.Int64
}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Consume counts and discards frame.
func (s *Sink) Consume(frame pipeline.Frame) error {
	s.consumed.Add(1)
	return nil
}

// Close does nothing.
func (s *Sink) Close() error {
	return nil
}

// Consumed returns the number of frames discarded.
func (s *Sink) Consumed() int {
	return int(s.consumed.Load())
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SavePreview does nothing.
func (s *Sink) SavePreview(index int, frame pipeline.Frame, region pipeline.Region) error {
	return nil
}

// SaveConfigYAML does nothing.
func (s *Sink) SaveConfigYAML(data []byte) error {
	return nil
}

var (
	_ ports.FrameSink = (*Sink)(nil)
	_ ports.DebugSink = (*Sink)(nil)
)
