// Package integration contains integration tests for the framepipe pipeline.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/user/framepipe/pkg/adapters/filesink"
	"github.com/user/framepipe/pkg/adapters/ggrenderer"
	"github.com/user/framepipe/pkg/adapters/imagesource"
	"github.com/user/framepipe/pkg/adapters/logger"
	"github.com/user/framepipe/pkg/adapters/models"
	"github.com/user/framepipe/pkg/adapters/nullsink"
	"github.com/user/framepipe/pkg/adapters/osfilesystem"
	"github.com/user/framepipe/pkg/adapters/patternsource"
	"github.com/user/framepipe/pkg/framepipe"
	"github.com/user/framepipe/pkg/orchestrator"
	"github.com/user/framepipe/pkg/summarizer"
)

func runPipeline(t *testing.T, o *orchestrator.Orchestrator, cfg orchestrator.Config) orchestrator.RunResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := o.Run(ctx, cfg)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	return result
}

// TestPatternToFiles runs the test pattern through a real model into PNG files.
func TestPatternToFiles(t *testing.T) {
	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	outDir := filepath.Join(t.TempDir(), "frames")
	if err := fs.MkdirAll(outDir); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	source, err := patternsource.New(patternsource.Options{Width: 96, Height: 64, Count: 8, SquareSize: 16, Step: 4})
	if err != nil {
		t.Fatalf("patternsource.New failed: %v", err)
	}
	transform, err := models.Lookup("invert", models.Options{})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	files := filesink.New(outDir, fs, renderer)
	discard := nullsink.New()

	o := orchestrator.New(source, transform, []orchestrator.NamedSink{
		{Name: "files", Sink: files, Capacity: 1},
		{Name: "discard", Sink: discard, Capacity: 3},
	}, nullsink.New(), logger.NewNoop())

	cfg := framepipe.NewConfigBuilder().
		WithPreset(framepipe.PresetRealtime).
		WithCropSize(32, 32).
		WithCursor(48, 32).
		Build()

	result := runPipeline(t, o, cfg)

	if files.Written() != 8 || discard.Consumed() != 8 {
		t.Errorf("expected 8 frames per output, got files=%d discard=%d", files.Written(), discard.Consumed())
	}
	if result.Capture.Produced != 8 || result.Capture.Skipped != 0 {
		t.Errorf("unexpected capture stats: %+v", result.Capture)
	}

	names, err := fs.ListFiles(outDir)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if !sort.StringsAreSorted(names) || len(names) != 8 || names[0] != "frame-000000.png" {
		t.Errorf("unexpected output files: %v", names)
	}
}

// TestFilesRoundTrip writes frames with one pipeline and reads them back with another.
func TestFilesRoundTrip(t *testing.T) {
	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	root := t.TempDir()
	first := filepath.Join(root, "first")
	second := filepath.Join(root, "second")
	for _, dir := range []string{first, second} {
		if err := fs.MkdirAll(dir); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
	}

	pattern, _ := patternsource.New(patternsource.Options{Width: 40, Height: 30, Count: 5, SquareSize: 8, Step: 2})
	o := orchestrator.New(pattern, models.Identity(), []orchestrator.NamedSink{
		{Name: "first", Sink: filesink.New(first, fs, renderer)},
	}, nullsink.New(), logger.NewNoop())
	runPipeline(t, o, framepipe.NewConfigBuilder().WithCropSize(40, 30).WithCursor(20, 15).Build())

	images, err := imagesource.Open(first, fs, renderer)
	if err != nil {
		t.Fatalf("imagesource.Open failed: %v", err)
	}
	if images.Len() != 5 {
		t.Fatalf("expected 5 images, got %d", images.Len())
	}

	resize, err := models.Resize(renderer, 20, 15)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	sink := filesink.New(second, fs, renderer)
	o = orchestrator.New(images, resize, []orchestrator.NamedSink{
		{Name: "second", Sink: sink},
	}, nullsink.New(), logger.NewNoop())
	result := runPipeline(t, o, framepipe.NewConfigBuilder().WithCropSize(40, 30).WithCursor(20, 15).Build())

	if sink.Written() != 5 || result.Transform.Delivered != 5 {
		t.Errorf("expected 5 frames, got written=%d delivered=%d", sink.Written(), result.Transform.Delivered)
	}
}

// TestOrchestratorWithDebugSink checks previews, config and summary on disk.
func TestOrchestratorWithDebugSink(t *testing.T) {
	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	debugDir := filepath.Join(t.TempDir(), "debug")
	if err := fs.MkdirAll(debugDir); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	source, _ := patternsource.New(patternsource.Options{Width: 64, Height: 48, Count: 4, SquareSize: 8, Step: 3})
	debug := filesink.NewDebug(debugDir, fs, renderer)

	o := orchestrator.New(source, models.Grayscale(), []orchestrator.NamedSink{
		{Name: "discard", Sink: nullsink.New()},
	}, debug, logger.NewNoop())

	cfg := framepipe.NewConfigBuilder().WithCropSize(16, 16).WithCursor(32, 24).Build()
	result := runPipeline(t, o, cfg)

	if ok, _ := fs.Exists(filepath.Join(debugDir, "config.yaml")); !ok {
		t.Error("config.yaml not written")
	}
	previews, err := fs.ListFiles(filepath.Join(debugDir, "preview"))
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if len(previews) != 4 {
		t.Errorf("expected 4 previews, got %d", len(previews))
	}

	summaryPath := filepath.Join(debugDir, "summary.md")
	summary := summarizer.NewBuilder().
		WithSource("pattern", 64, 48).
		WithSettings(summarizer.Settings{Model: "grayscale", CropWidth: 16, CropHeight: 16}).
		WithResult(result).
		Build()
	if err := summarizer.NewWriter(summarizer.NewMarkdownFormatter(), fs).Write(summaryPath, summary); err != nil {
		t.Fatalf("Write summary failed: %v", err)
	}
	data, err := os.ReadFile(summaryPath)
	if err != nil || len(data) == 0 {
		t.Errorf("summary not written: %v", err)
	}
}
