// Package ggrenderer provides a renderer implementation using the gg library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"

	"github.com/user/framepipe/pkg/pipeline"
	"github.com/user/framepipe/pkg/ports"
)

// Renderer implements ports.Renderer using the gg library.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// ToImage converts a frame with samples in [0, 1] to an image.
// One channel becomes Gray, three become opaque RGBA, four keep alpha.
func (r *Renderer) ToImage(frame pipeline.Frame) (image.Image, error) {
	if !frame.Valid() {
		return nil, fmt.Errorf("invalid frame shape %dx%dx%d with %d samples",
			frame.Width, frame.Height, frame.Channels, len(frame.Data))
	}

	rect := image.Rect(0, 0, frame.Width, frame.Height)
	switch frame.Channels {
	case 1:
		img := image.NewGray(rect)
		for i, v := range frame.Data {
			img.Pix[i] = toByte(v)
		}
		return img, nil
	case 3, 4:
		img := image.NewNRGBA(rect)
		for p := 0; p < frame.Width*frame.Height; p++ {
			src := frame.Data[p*frame.Channels:]
			dst := img.Pix[p*4 : p*4+4]
			dst[0], dst[1], dst[2] = toByte(src[0]), toByte(src[1]), toByte(src[2])
			dst[3] = 0xff
			if frame.Channels == 4 {
				dst[3] = toByte(src[3])
			}
		}
		return img, nil
	default:
		return nil, fmt.Errorf("unsupported channel count: %d", frame.Channels)
	}
}

// FromImage converts img to a 3-channel frame with samples in [0, 1].
func (r *Renderer) FromImage(seq int, img image.Image) pipeline.Frame {
	b := img.Bounds()
	frame := pipeline.NewFrame(seq, b.Dx(), b.Dy(), 3)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			frame.Data[i] = float32(c.R) / 255
			frame.Data[i+1] = float32(c.G) / 255
			frame.Data[i+2] = float32(c.B) / 255
			i += 3
		}
	}
	return frame
}

// EncodePNG encodes an image as PNG.
func (r *Renderer) EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Outline returns a copy of img with region stroked in c.
func (r *Renderer) Outline(img image.Image, region pipeline.Region, c color.Color, strokeWidth float64) image.Image {
	dc := gg.NewContextForImage(img)
	if region.Empty() {
		return dc.Image()
	}
	dc.SetColor(c)
	dc.SetLineWidth(strokeWidth)
	dc.DrawRectangle(float64(region.X), float64(region.Y), float64(region.Width), float64(region.Height))
	dc.Stroke()
	return dc.Image()
}

func toByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

// Ensure Renderer implements ports.Renderer
var _ ports.Renderer = (*Renderer)(nil)
