package pipeline

import "errors"

var (
	// ErrSourceRead is returned by the capture stage when the frame source
	// fails for a reason other than end of input.
	ErrSourceRead = errors.New("source read failure")

	// ErrTransform is returned by the transform stage when the transform fails.
	ErrTransform = errors.New("transform failure")

	// ErrSink is returned by a drain stage when its sink rejects a frame.
	ErrSink = errors.New("sink failure")

	// ErrNoOutputs is returned when a fan-out stage is built without outputs.
	ErrNoOutputs = errors.New("no output buffers")
)
