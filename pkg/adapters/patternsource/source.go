// Package patternsource generates deterministic synthetic frames.
//
// Each frame is a horizontal gradient with a bright square that moves
// diagonally by Step pixels per frame. The output depends only on the
// options and the frame index, which makes it useful for demos and for
// tests that need to assert on crop contents.
package patternsource

import (
	"fmt"

	"github.com/user/framepipe/pkg/pipeline"
	"github.com/user/framepipe/pkg/ports"
)

// Options configures the generated sequence.
type Options struct {
	Width      int
	Height     int
	Count      int // Number of frames before end of input
	SquareSize int
	Step       int // Pixels the square moves per frame
}

// DefaultOptions returns a 640x480 sequence of 100 frames.
func DefaultOptions() Options {
	return Options{
		Width:      640,
		Height:     480,
		Count:      100,
		SquareSize: 64,
		Step:       4,
	}
}

// Source implements ports.FrameSource.
type Source struct {
	opts   Options
	next   int
	closed bool
}

// New validates opts and creates a Source.
func New(opts Options) (*Source, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid pattern size %dx%d", opts.Width, opts.Height)
	}
	if opts.Count < 0 {
		return nil, fmt.Errorf("invalid pattern count %d", opts.Count)
	}
	return &Source{opts: opts}, nil
}

// Next generates the next frame.
func (s *Source) Next() (pipeline.Frame, error) {
	if s.closed {
		return pipeline.Frame{}, fmt.Errorf("source closed")
	}
	if s.next >= s.opts.Count {
		return pipeline.Frame{}, ports.ErrEndOfInput
	}
	frame := Render(s.opts, s.next)
	s.next++
	return frame, nil
}

// Bounds returns the configured frame size.
func (s *Source) Bounds() pipeline.Dimension {
	return pipeline.Dimension{Width: s.opts.Width, Height: s.opts.Height}
}

// Close stops the source.
func (s *Source) Close() error {
	s.closed = true
	return nil
}

// SquareAt returns the square's region in frame seq.
func SquareAt(opts Options, seq int) pipeline.Region {
	size := opts.SquareSize
	if size <= 0 {
		return pipeline.Region{}
	}
	spanX := max(opts.Width-size, 1)
	spanY := max(opts.Height-size, 1)
	offset := seq * opts.Step
	return pipeline.Region{
		X:      offset % spanX,
		Y:      offset % spanY,
		Width:  size,
		Height: size,
	}.Intersect(pipeline.Dimension{Width: opts.Width, Height: opts.Height})
}

// Render draws frame seq. Samples are 3-channel in [0, 1].
func Render(opts Options, seq int) pipeline.Frame {
	frame := pipeline.NewFrame(seq, opts.Width, opts.Height, 3)
	square := SquareAt(opts, seq)

	for y := 0; y < opts.Height; y++ {
		for x := 0; x < opts.Width; x++ {
			i := frame.Index(x, y, 0)
			if inside(square, x, y) {
				frame.Data[i], frame.Data[i+1], frame.Data[i+2] = 1, 1, 1
				continue
			}
			g := float32(x) / float32(max(opts.Width-1, 1))
			frame.Data[i] = g
			frame.Data[i+1] = 0.25
			frame.Data[i+2] = 1 - g
		}
	}
	return frame
}

func inside(r pipeline.Region, x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

var _ ports.FrameSource = (*Source)(nil)
