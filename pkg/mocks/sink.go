package mocks

import (
	"sync"

	"github.com/user/framepipe/pkg/pipeline"
	"github.com/user/framepipe/pkg/ports"
)

// FrameSink records every frame it consumes.
type FrameSink struct {
	mu     sync.Mutex
	frames []pipeline.Frame
	closed bool

	ConsumeFunc func(frame pipeline.Frame) error
}

// NewFrameSink creates a new mock FrameSink.
func NewFrameSink() *FrameSink {
	return &FrameSink{}
}

func (m *FrameSink) Consume(frame pipeline.Frame) error {
	if m.ConsumeFunc != nil {
		if err := m.ConsumeFunc(frame); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = append(m.frames, frame)
	return nil
}

func (m *FrameSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Frames returns a copy of the consumed frames.
func (m *FrameSink) Frames() []pipeline.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]pipeline.Frame(nil), m.frames...)
}

// Closed reports whether Close was called.
func (m *FrameSink) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var _ ports.FrameSink = (*FrameSink)(nil)

// Preview is one recorded SavePreview call.
type Preview struct {
	Index  int
	Frame  pipeline.Frame
	Region pipeline.Region
}

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu      sync.Mutex
	enabled bool

	Previews   []Preview
	ConfigYAML []byte
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{enabled: enabled}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SavePreview(index int, frame pipeline.Frame, region pipeline.Region) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Previews = append(m.Previews, Preview{Index: index, Frame: frame, Region: region})
	return nil
}

func (m *DebugSink) SaveConfigYAML(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConfigYAML = data
	return nil
}

// PreviewCount returns the number of saved previews.
func (m *DebugSink) PreviewCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Previews)
}

var _ ports.DebugSink = (*DebugSink)(nil)
