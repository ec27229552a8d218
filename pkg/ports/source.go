package ports

import (
	"errors"

	"github.com/user/framepipe/pkg/pipeline"
)

// ErrEndOfInput is returned by FrameSource.Next when the source is exhausted.
// Any other error from Next is a read failure.
var ErrEndOfInput = errors.New("end of input")

// FrameSource abstracts a lazy, finite sequence of raw frames
// (a video file, an image directory, a camera).
type FrameSource interface {
	// Next reads the next raw unit.
	// It returns ErrEndOfInput once the sequence is exhausted.
	Next() (pipeline.Frame, error)

	// Bounds returns the dimension of the frames the source produces.
	// It is used to clamp the cursor before the first frame is read.
	Bounds() pipeline.Dimension

	// Close releases the source.
	Close() error
}
