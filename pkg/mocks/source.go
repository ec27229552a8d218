package mocks

import (
	"sync"

	"github.com/user/framepipe/pkg/pipeline"
	"github.com/user/framepipe/pkg/ports"
)

// FrameSource replays a fixed slice of frames.
type FrameSource struct {
	mu sync.Mutex

	Frames []pipeline.Frame
	Size   pipeline.Dimension

	// FailAt makes Next return Err instead of the frame at that index.
	// A negative value disables the failure.
	FailAt int
	Err    error

	next   int
	closed bool
	reads  int
}

// NewFrameSource creates a source over frames. Bounds come from the first frame.
func NewFrameSource(frames ...pipeline.Frame) *FrameSource {
	s := &FrameSource{Frames: frames, FailAt: -1}
	if len(frames) > 0 {
		s.Size = frames[0].Bounds()
	}
	return s
}

func (m *FrameSource) Next() (pipeline.Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.next == m.FailAt {
		return pipeline.Frame{}, m.Err
	}
	if m.next >= len(m.Frames) {
		return pipeline.Frame{}, ports.ErrEndOfInput
	}
	f := m.Frames[m.next]
	m.next++
	return f, nil
}

func (m *FrameSource) Bounds() pipeline.Dimension {
	return m.Size
}

func (m *FrameSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *FrameSource) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Reads returns the number of Next calls.
func (m *FrameSource) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

var _ ports.FrameSource = (*FrameSource)(nil)
