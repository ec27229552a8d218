// Package models provides the built-in frame transforms.
//
// They stand in for model inference: each one is a pure function from one
// frame to one frame and never retains its input.
package models

import (
	"fmt"
	"image"
	"sort"
	"strings"
	"time"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/stat"

	"github.com/user/framepipe/pkg/pipeline"
	"github.com/user/framepipe/pkg/ports"
)

// Options parameterises transforms that need it.
type Options struct {
	ResizeWidth  int
	ResizeHeight int
	Latency      time.Duration // Added to every Apply, simulates inference time
	Renderer     ports.Renderer
}

type factory func(opts Options) (pipeline.Transform, error)

var registry = map[string]factory{
	"identity": func(Options) (pipeline.Transform, error) {
		return Identity(), nil
	},
	"grayscale": func(Options) (pipeline.Transform, error) {
		return Grayscale(), nil
	},
	"invert": func(Options) (pipeline.Transform, error) {
		return Invert(), nil
	},
	"normalize": func(Options) (pipeline.Transform, error) {
		return Normalize(), nil
	},
	"resize": func(opts Options) (pipeline.Transform, error) {
		if opts.Renderer == nil {
			return nil, fmt.Errorf("resize requires a renderer")
		}
		return Resize(opts.Renderer, opts.ResizeWidth, opts.ResizeHeight)
	},
}

// Names returns the registered transform names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name is a registered transform.
func Known(name string) bool {
	_, ok := registry[strings.ToLower(name)]
	return ok
}

// Lookup returns the transform registered under name.
func Lookup(name string, opts Options) (pipeline.Transform, error) {
	f, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown model %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	t, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", name, err)
	}
	if opts.Latency > 0 {
		t = WithLatency(t, opts.Latency)
	}
	return t, nil
}

// Identity returns each frame unchanged.
func Identity() pipeline.Transform {
	return pipeline.TransformFunc(func(f pipeline.Frame) (pipeline.Frame, error) {
		return f, nil
	})
}

// Grayscale converts 3 or 4 channel frames to one luma channel
// (ITU-R BT.601 weights). Single channel frames pass through.
func Grayscale() pipeline.Transform {
	return pipeline.TransformFunc(func(f pipeline.Frame) (pipeline.Frame, error) {
		switch f.Channels {
		case 1:
			return f, nil
		case 3, 4:
		default:
			return pipeline.Frame{}, fmt.Errorf("grayscale: unsupported channel count %d", f.Channels)
		}

		out := pipeline.NewFrame(f.Seq, f.Width, f.Height, 1)
		for p := range out.Data {
			px := f.Data[p*f.Channels:]
			out.Data[p] = 0.299*px[0] + 0.587*px[1] + 0.114*px[2]
		}
		return out, nil
	})
}

// Invert maps every sample v to 1-v.
func Invert() pipeline.Transform {
	return pipeline.TransformFunc(func(f pipeline.Frame) (pipeline.Frame, error) {
		out := f.Clone()
		for i, v := range out.Data {
			out.Data[i] = 1 - v
		}
		return out, nil
	})
}

// Normalize standardises all samples to zero mean and unit variance.
// A constant frame becomes all zeros.
func Normalize() pipeline.Transform {
	return pipeline.TransformFunc(func(f pipeline.Frame) (pipeline.Frame, error) {
		if len(f.Data) == 0 {
			return pipeline.Frame{}, fmt.Errorf("normalize: empty frame")
		}

		xs := make([]float64, len(f.Data))
		for i, v := range f.Data {
			xs[i] = float64(v)
		}
		mean, std := stat.PopMeanStdDev(xs, nil)

		out := pipeline.NewFrame(f.Seq, f.Width, f.Height, f.Channels)
		if std == 0 {
			return out, nil
		}
		for i, x := range xs {
			out.Data[i] = float32((x - mean) / std)
		}
		return out, nil
	})
}

// Resize scales frames to width x height with Catmull-Rom interpolation.
// Output frames have three channels.
func Resize(renderer ports.Renderer, width, height int) (pipeline.Transform, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid resize target %dx%d", width, height)
	}
	return pipeline.TransformFunc(func(f pipeline.Frame) (pipeline.Frame, error) {
		src, err := renderer.ToImage(f)
		if err != nil {
			return pipeline.Frame{}, fmt.Errorf("resize: %w", err)
		}
		dst := image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		return renderer.FromImage(f.Seq, dst), nil
	}), nil
}

// WithLatency delays every call to t by d.
func WithLatency(t pipeline.Transform, d time.Duration) pipeline.Transform {
	return pipeline.TransformFunc(func(f pipeline.Frame) (pipeline.Frame, error) {
		time.Sleep(d)
		return t.Apply(f)
	})
}
