package filesink

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/user/framepipe/pkg/mocks"
	"github.com/user/framepipe/pkg/pipeline"
)

var testBaseDir = filepath.Join("out")

func TestSink_Consume(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, &mocks.Renderer{})

	for i := 0; i < 3; i++ {
		if err := sink.Consume(pipeline.NewFrame(i, 4, 4, 3)); err != nil {
			t.Fatalf("Consume failed: %v", err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if sink.Written() != 3 {
		t.Errorf("expected 3 files written, got %d", sink.Written())
	}
	if _, ok := fs.GetFile(filepath.Join(testBaseDir, "frame-000002.png")); !ok {
		t.Error("expected frame-000002.png to be written")
	}
}

func TestSink_Consume_RenderError(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderErr := errors.New("bad shape")
	renderer := &mocks.Renderer{
		ToImageFunc: func(pipeline.Frame) (image.Image, error) { return nil, renderErr },
	}
	sink := New(testBaseDir, fs, renderer)

	if err := sink.Consume(pipeline.NewFrame(0, 1, 1, 1)); !errors.Is(err, renderErr) {
		t.Errorf("expected render error, got %v", err)
	}
	if fs.FileCount() != 0 {
		t.Errorf("expected no files, got %d", fs.FileCount())
	}
}

func TestDebugSink_SavePreview(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := NewDebug(testBaseDir, fs, &mocks.Renderer{})

	if !sink.Enabled() {
		t.Error("expected Enabled to return true")
	}

	frame := pipeline.NewFrame(0, 8, 8, 3)
	if err := sink.SavePreview(5, frame, pipeline.Region{X: 1, Y: 1, Width: 4, Height: 4}); err != nil {
		t.Fatalf("SavePreview failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "preview", "frame-0005.png")
	if _, ok := fs.GetFile(expectedPath); !ok {
		t.Errorf("expected file to be saved at %s", expectedPath)
	}
}

func TestDebugSink_SaveConfigYAML(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := NewDebug(testBaseDir, fs, &mocks.Renderer{})

	data := []byte("poll_interval: 10ms\n")
	if err := sink.SaveConfigYAML(data); err != nil {
		t.Fatalf("SaveConfigYAML failed: %v", err)
	}

	saved, ok := fs.GetFile(filepath.Join(testBaseDir, "config.yaml"))
	if !ok || string(saved) != string(data) {
		t.Errorf("expected %q, got %q", data, saved)
	}
}
