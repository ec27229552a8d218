package ports

import (
	"image"
	"image/color"

	"github.com/user/framepipe/pkg/pipeline"
)

// Renderer converts frames to images and back.
type Renderer interface {
	// ToImage converts a frame with 1, 3 or 4 channels in [0, 1] to an image.
	ToImage(frame pipeline.Frame) (image.Image, error)

	// FromImage converts an image to a 3-channel frame in [0, 1].
	FromImage(seq int, img image.Image) pipeline.Frame

	// EncodePNG encodes an image as PNG.
	EncodePNG(img image.Image) ([]byte, error)

	// Outline returns a copy of img with the region stroked in c.
	Outline(img image.Image, region pipeline.Region, c color.Color, strokeWidth float64) image.Image
}
