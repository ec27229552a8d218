package pipeline

import "fmt"

// =============================================================================
// Common Types
// =============================================================================

// Dimension represents width and height.
type Dimension struct {
	Width  int
	Height int
}

// Region represents a rectangular area in frame coordinates.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Empty reports whether the region covers no samples.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersect clips r to the bounds of a frame of the given dimension.
// The result may be empty.
func (r Region) Intersect(d Dimension) Region {
	x0, y0 := max(r.X, 0), max(r.Y, 0)
	x1, y1 := min(r.X+r.Width, d.Width), min(r.Y+r.Height, d.Height)
	if x1 <= x0 || y1 <= y0 {
		return Region{X: x0, Y: y0}
	}
	return Region{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// CenteredRegion returns a window of the given size centred on (cx, cy).
func CenteredRegion(cx, cy, width, height int) Region {
	return Region{
		X:      cx - width/2,
		Y:      cy - height/2,
		Width:  width,
		Height: height,
	}
}

// =============================================================================
// Frame
// =============================================================================

// Frame is one unit of payload moving through the pipeline: a rectangular
// array of samples in row-major, channel-interleaved order.
//
// Frames are treated as immutable once enqueued. Only transforms inspect Data.
type Frame struct {
	Seq      int // Index of the raw unit this frame was derived from
	Width    int
	Height   int
	Channels int
	Data     []float32
}

// NewFrame allocates a zeroed frame.
func NewFrame(seq, width, height, channels int) Frame {
	return Frame{
		Seq:      seq,
		Width:    width,
		Height:   height,
		Channels: channels,
		Data:     make([]float32, width*height*channels),
	}
}

// Len returns the number of samples the shape describes.
func (f Frame) Len() int {
	return f.Width * f.Height * f.Channels
}

// Valid reports whether the shape is positive and matches the data length.
func (f Frame) Valid() bool {
	return f.Width > 0 && f.Height > 0 && f.Channels > 0 && len(f.Data) == f.Len()
}

// Bounds returns the frame dimension.
func (f Frame) Bounds() Dimension {
	return Dimension{Width: f.Width, Height: f.Height}
}

// Index returns the offset of sample (x, y, c) in Data.
func (f Frame) Index(x, y, c int) int {
	return (y*f.Width+x)*f.Channels + c
}

// At returns sample (x, y, c).
func (f Frame) At(x, y, c int) float32 {
	return f.Data[f.Index(x, y, c)]
}

// Clone returns a deep copy of the frame.
func (f Frame) Clone() Frame {
	out := f
	out.Data = append([]float32(nil), f.Data...)
	return out
}

// Crop copies the samples inside r into a new frame.
// r must already be clipped to the frame bounds and non-empty.
func (f Frame) Crop(r Region) Frame {
	out := NewFrame(f.Seq, r.Width, r.Height, f.Channels)
	rowLen := r.Width * f.Channels
	for y := 0; y < r.Height; y++ {
		src := f.Index(r.X, r.Y+y, 0)
		copy(out.Data[y*rowLen:(y+1)*rowLen], f.Data[src:src+rowLen])
	}
	return out
}

// String returns a short description for logs.
func (f Frame) String() string {
	return fmt.Sprintf("frame#%d %dx%dx%d", f.Seq, f.Width, f.Height, f.Channels)
}
