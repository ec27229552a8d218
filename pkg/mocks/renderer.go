package mocks

import (
	"image"
	"image/color"

	"github.com/user/framepipe/pkg/pipeline"
	"github.com/user/framepipe/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
type Renderer struct {
	ToImageFunc   func(frame pipeline.Frame) (image.Image, error)
	EncodePNGFunc func(img image.Image) ([]byte, error)
}

func (m *Renderer) ToImage(frame pipeline.Frame) (image.Image, error) {
	if m.ToImageFunc != nil {
		return m.ToImageFunc(frame)
	}
	return image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height)), nil
}

func (m *Renderer) FromImage(seq int, img image.Image) pipeline.Frame {
	b := img.Bounds()
	return pipeline.NewFrame(seq, b.Dx(), b.Dy(), 3)
}

func (m *Renderer) EncodePNG(img image.Image) ([]byte, error) {
	if m.EncodePNGFunc != nil {
		return m.EncodePNGFunc(img)
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

func (m *Renderer) Outline(img image.Image, region pipeline.Region, c color.Color, strokeWidth float64) image.Image {
	return img
}

var _ ports.Renderer = (*Renderer)(nil)
