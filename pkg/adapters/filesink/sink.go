// Package filesink writes frames and debug output to image files.
package filesink

import (
	"fmt"
	"image/color"
	"path/filepath"
	"sync/atomic"

	"github.com/user/framepipe/pkg/pipeline"
	"github.com/user/framepipe/pkg/ports"
)

// Sink writes each consumed frame as a PNG file named after its sequence number.
type Sink struct {
	dir      string
	fs       ports.FileSystem
	renderer ports.Renderer
	written  atomic.Int64
}

// New creates a Sink writing into dir.
func New(dir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		dir:      dir,
		fs:       fs,
		renderer: renderer,
	}
}

// Consume encodes frame as PNG and writes it.
func (s *Sink) Consume(frame pipeline.Frame) error {
	img, err := s.renderer.ToImage(frame)
	if err != nil {
		return fmt.Errorf("render frame %d: %w", frame.Seq, err)
	}
	data, err := s.renderer.EncodePNG(img)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", frame.Seq, err)
	}
	path := filepath.Join(s.dir, fmt.Sprintf("frame-%06d.png", frame.Seq))
	if err := s.fs.WriteFile(path, data); err != nil {
		return err
	}
	s.written.Add(1)
	return nil
}

// Close does nothing; every frame is flushed by Consume.
func (s *Sink) Close() error {
	return nil
}

// Written returns the number of files written.
func (s *Sink) Written() int {
	return int(s.written.Load())
}

var _ ports.FrameSink = (*Sink)(nil)

// DefaultOutlineColor is the crop rectangle colour used in previews.
var DefaultOutlineColor color.Color = color.RGBA{G: 255, A: 255}

// DebugSink saves debug output under a base directory.
type DebugSink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
	outline  color.Color
}

// NewDebug creates a DebugSink writing into baseDir.
func NewDebug(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *DebugSink {
	return &DebugSink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
		outline:  DefaultOutlineColor,
	}
}

// WithOutlineColor sets the crop rectangle colour.
func (s *DebugSink) WithOutlineColor(c color.Color) *DebugSink {
	s.outline = c
	return s
}

// Enabled returns true as this sink saves output.
func (s *DebugSink) Enabled() bool {
	return true
}

// SavePreview saves the full source frame with the crop region outlined.
func (s *DebugSink) SavePreview(index int, frame pipeline.Frame, region pipeline.Region) error {
	img, err := s.renderer.ToImage(frame)
	if err != nil {
		return fmt.Errorf("render preview: %w", err)
	}
	img = s.renderer.Outline(img, region, s.outline, 2)

	data, err := s.renderer.EncodePNG(img)
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}

	dir := filepath.Join(s.baseDir, "preview")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	return s.fs.WriteFile(filepath.Join(dir, fmt.Sprintf("frame-%04d.png", index)), data)
}

// SaveConfigYAML saves the effective configuration.
func (s *DebugSink) SaveConfigYAML(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, "config.yaml"), data)
}

var _ ports.DebugSink = (*DebugSink)(nil)
