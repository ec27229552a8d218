// Package imagesource reads frames from a directory of still images.
package imagesource

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/user/framepipe/pkg/pipeline"
	"github.com/user/framepipe/pkg/ports"
)

// Extensions lists the file types the source decodes.
var Extensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp"}

// Source yields one frame per image file, in file name order.
type Source struct {
	dir      string
	fs       ports.FileSystem
	renderer ports.Renderer
	files    []string
	next     int
	bounds   pipeline.Dimension
	closed   bool
}

// Open lists dir and reads the dimension of the first image.
func Open(dir string, fs ports.FileSystem, renderer ports.Renderer) (*Source, error) {
	names, err := fs.ListFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	s := &Source{dir: dir, fs: fs, renderer: renderer}
	for _, name := range names {
		if isImage(name) {
			s.files = append(s.files, name)
		}
	}
	if len(s.files) == 0 {
		return nil, fmt.Errorf("no images in %s", dir)
	}

	data, err := fs.ReadFile(filepath.Join(dir, s.files[0]))
	if err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.files[0], err)
	}
	s.bounds = pipeline.Dimension{Width: cfg.Width, Height: cfg.Height}
	return s, nil
}

// Len returns the number of images.
func (s *Source) Len() int {
	return len(s.files)
}

// Next decodes the next image.
func (s *Source) Next() (pipeline.Frame, error) {
	if s.closed {
		return pipeline.Frame{}, fmt.Errorf("source closed")
	}
	if s.next >= len(s.files) {
		return pipeline.Frame{}, ports.ErrEndOfInput
	}

	seq := s.next
	name := s.files[seq]
	s.next++

	data, err := s.fs.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return pipeline.Frame{}, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return pipeline.Frame{}, fmt.Errorf("decode %s: %w", name, err)
	}
	return s.renderer.FromImage(seq, img), nil
}

// Bounds returns the dimension of the first image.
func (s *Source) Bounds() pipeline.Dimension {
	return s.bounds
}

// Close releases the source. Further reads fail.
func (s *Source) Close() error {
	s.closed = true
	return nil
}

func isImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

var _ ports.FrameSource = (*Source)(nil)
