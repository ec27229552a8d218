package drain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/user/framepipe/pkg/adapters/logger"
	"github.com/user/framepipe/pkg/framebuffer"
	"github.com/user/framepipe/pkg/mocks"
	"github.com/user/framepipe/pkg/pipeline"
)

func TestStage_Run(t *testing.T) {
	input, _ := framebuffer.New(3)
	for i := 0; i < 3; i++ {
		_ = input.Enqueue(pipeline.NewFrame(i, 1, 1, 1))
	}
	input.MarkFinished()

	sink := mocks.NewFrameSink()
	stage := NewStage("preview", input, sink, logger.NewNoop(), time.Millisecond)

	if err := stage.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stage.Count() != 3 {
		t.Errorf("expected 3 frames, got %d", stage.Count())
	}
	frames := sink.Frames()
	for i, f := range frames {
		if f.Seq != i {
			t.Errorf("frame %d: expected seq %d, got %d", i, i, f.Seq)
		}
	}
	if !sink.Closed() {
		t.Error("expected sink to be closed")
	}
	if !input.IsDrained() {
		t.Error("expected input to be drained")
	}
}

func TestStage_Run_WaitsForProducer(t *testing.T) {
	input, _ := framebuffer.New(1)
	sink := mocks.NewFrameSink()
	stage := NewStage("out", input, sink, logger.NewNoop(), time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- stage.Run(context.Background()) }()

	for i := 0; i < 5; i++ {
		for input.IsFull() {
			time.Sleep(time.Millisecond)
		}
		_ = input.Enqueue(pipeline.NewFrame(i, 1, 1, 1))
	}
	input.MarkFinished()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("drain did not finish")
	}

	if stage.Count() != 5 {
		t.Errorf("expected 5 frames, got %d", stage.Count())
	}
}

func TestStage_Run_SinkFailure(t *testing.T) {
	input, _ := framebuffer.New(2)
	_ = input.Enqueue(pipeline.NewFrame(0, 1, 1, 1))
	input.MarkFinished()

	diskFull := errors.New("disk full")
	sink := mocks.NewFrameSink()
	sink.ConsumeFunc = func(pipeline.Frame) error { return diskFull }

	stage := NewStage("out", input, sink, logger.NewNoop(), time.Millisecond)
	err := stage.Run(context.Background())

	if !errors.Is(err, pipeline.ErrSink) || !errors.Is(err, diskFull) {
		t.Errorf("expected wrapped ErrSink, got %v", err)
	}
	if !sink.Closed() {
		t.Error("expected sink to be closed after failure")
	}
}

func TestStage_Run_Cancelled(t *testing.T) {
	input, _ := framebuffer.New(1)
	stage := NewStage("out", input, mocks.NewFrameSink(), logger.NewNoop(), time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := stage.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}
