package ports

import (
	"github.com/user/framepipe/pkg/pipeline"
)

// FrameSink receives the frames that reach the end of the pipeline.
type FrameSink interface {
	// Consume handles one frame. A returned error stops the consuming stage.
	Consume(frame pipeline.Frame) error

	// Close flushes and releases the sink after the last frame.
	Close() error
}

// DebugSink abstracts debug output for intermediate results.
// It allows saving intermediate processing results for debugging purposes.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SavePreview saves a full source frame with the crop region outlined.
	SavePreview(index int, frame pipeline.Frame, region pipeline.Region) error

	// SaveConfigYAML saves the effective configuration.
	SaveConfigYAML(data []byte) error
}
