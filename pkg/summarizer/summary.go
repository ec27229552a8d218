// Package summarizer provides summary generation for pipeline runs.
package summarizer

import (
	"time"

	"github.com/user/framepipe/pkg/framebuffer"
	"github.com/user/framepipe/pkg/orchestrator"
)

// Summary contains all data collected during a pipeline run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	Run       RunInfo
	Source    SourceInfo
	Settings  Settings
	Capture   CaptureInfo
	Transform TransformInfo

	// Input buffer first, then one entry per output
	Buffers []BufferInfo
	Outputs []OutputInfo
}

// RunInfo identifies the run and its outcome.
type RunInfo struct {
	ID       string
	Duration time.Duration
	Error    string // Empty on success
}

// SourceInfo describes the frame source.
type SourceInfo struct {
	Name   string
	Width  int
	Height int
}

// Settings contains the pipeline configuration.
type Settings struct {
	Model        string
	Preset       string
	CropWidth    int
	CropHeight   int
	PollInterval time.Duration
}

// CaptureInfo contains capture stage counters.
type CaptureInfo struct {
	Read     int
	Produced int
	Skipped  int
	Bytes    int64
}

// TransformInfo contains transform stage counters.
type TransformInfo struct {
	Received  int
	Delivered int
	Retries   int
}

// BufferInfo contains the occupancy statistics of one buffer.
type BufferInfo struct {
	Name     string
	Capacity int
	Peak     int
	Enqueued int
	Dequeued int
}

// OutputInfo contains the result of one downstream consumer.
type OutputInfo struct {
	Name   string
	Frames int
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSource sets source information.
func (b *Builder) WithSource(name string, width, height int) *Builder {
	b.summary.Source = SourceInfo{
		Name:   name,
		Width:  width,
		Height: height,
	}
	return b
}

// WithSettings sets pipeline settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithError records the error that ended the run.
func (b *Builder) WithError(err error) *Builder {
	if err != nil {
		b.summary.Run.Error = err.Error()
	}
	return b
}

// WithResult copies counters and buffer statistics from a run result.
func (b *Builder) WithResult(r orchestrator.RunResult) *Builder {
	s := b.summary
	s.Run.ID = r.RunID
	s.Run.Duration = r.Duration

	s.Capture = CaptureInfo{
		Read:     r.Capture.Read,
		Produced: r.Capture.Produced,
		Skipped:  r.Capture.Skipped,
		Bytes:    r.Capture.Bytes,
	}
	s.Transform = TransformInfo{
		Received:  r.Transform.Received,
		Delivered: r.Transform.Delivered,
		Retries:   r.Transform.Retries,
	}

	s.Buffers = []BufferInfo{bufferInfo("input", r.Input)}
	s.Outputs = nil
	for _, o := range r.Outputs {
		s.Buffers = append(s.Buffers, bufferInfo(o.Name, o.Buffer))
		s.Outputs = append(s.Outputs, OutputInfo{Name: o.Name, Frames: o.Frames})
	}
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}

func bufferInfo(name string, st framebuffer.Stats) BufferInfo {
	return BufferInfo{
		Name:     name,
		Capacity: st.Capacity,
		Peak:     st.Peak,
		Enqueued: st.Enqueued,
		Dequeued: st.Dequeued,
	}
}
