package ggrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/user/framepipe/pkg/pipeline"
)

func TestRenderer_ToImage_Gray(t *testing.T) {
	r := New()

	frame := pipeline.NewFrame(0, 2, 1, 1)
	frame.Data[0] = 0
	frame.Data[1] = 1

	img, err := r.ToImage(frame)
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}

	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("expected *image.Gray, got %T", img)
	}
	if gray.Pix[0] != 0 || gray.Pix[1] != 255 {
		t.Errorf("unexpected pixels %v", gray.Pix)
	}
}

func TestRenderer_ToImage_InvalidFrame(t *testing.T) {
	r := New()

	if _, err := r.ToImage(pipeline.Frame{Width: 2, Height: 2, Channels: 3}); err == nil {
		t.Error("expected error for frame without data")
	}
	if _, err := r.ToImage(pipeline.NewFrame(0, 1, 1, 2)); err == nil {
		t.Error("expected error for 2-channel frame")
	}
}

func TestRenderer_RoundTrip(t *testing.T) {
	r := New()

	src := image.NewRGBA(image.Rect(0, 0, 4, 3))
	src.Set(1, 2, color.RGBA{R: 255, G: 128, B: 0, A: 255})

	frame := r.FromImage(7, src)
	if frame.Seq != 7 || frame.Width != 4 || frame.Height != 3 || frame.Channels != 3 {
		t.Fatalf("unexpected frame shape: %v", frame)
	}
	if frame.At(1, 2, 0) != 1 {
		t.Errorf("expected red sample 1, got %v", frame.At(1, 2, 0))
	}

	img, err := r.ToImage(frame)
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	got := color.NRGBAModel.Convert(img.At(1, 2)).(color.NRGBA)
	if got.R != 255 || got.G != 128 || got.B != 0 || got.A != 255 {
		t.Errorf("unexpected pixel %+v", got)
	}
}

func TestRenderer_EncodePNG(t *testing.T) {
	r := New()

	data, err := r.EncodePNG(image.NewGray(image.Rect(0, 0, 10, 10)))
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	if decoded.Bounds().Dx() != 10 {
		t.Errorf("expected width 10, got %d", decoded.Bounds().Dx())
	}
}

func TestRenderer_Outline(t *testing.T) {
	r := New()

	src := image.NewRGBA(image.Rect(0, 0, 50, 50))
	out := r.Outline(src, pipeline.Region{X: 10, Y: 10, Width: 20, Height: 20}, color.RGBA{G: 255, A: 255}, 2)

	if out.Bounds() != src.Bounds() {
		t.Fatalf("expected bounds %v, got %v", src.Bounds(), out.Bounds())
	}
	_, g, _, _ := out.At(10, 20).RGBA()
	if g == 0 {
		t.Error("expected outline pixel on the left edge")
	}
	_, g, _, _ = out.At(20, 20).RGBA()
	if g != 0 {
		t.Error("expected region interior to be untouched")
	}
	_, g, _, _ = src.At(10, 20).RGBA()
	if g != 0 {
		t.Error("source image was modified")
	}
}
