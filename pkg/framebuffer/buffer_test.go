package framebuffer

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/user/framepipe/pkg/pipeline"
)

func frame(seq int) pipeline.Frame {
	return pipeline.Frame{Seq: seq, Width: 1, Height: 1, Channels: 1, Data: []float32{float32(seq)}}
}

func seqs(frames []pipeline.Frame) []int {
	out := make([]int, len(frames))
	for i, f := range frames {
		out[i] = f.Seq
	}
	return out
}

func TestNew_InvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		if _, err := New(capacity); !errors.Is(err, ErrInvalidCapacity) {
			t.Errorf("New(%d): expected ErrInvalidCapacity, got %v", capacity, err)
		}
	}
}

func TestBuffer_EmptyAndFull(t *testing.T) {
	b, err := New(2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if !b.IsEmpty() || b.IsFull() {
		t.Fatal("new buffer should be empty and not full")
	}

	if err := b.Enqueue(frame(0)); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if b.IsEmpty() || b.IsFull() {
		t.Error("buffer with one of two frames should be neither empty nor full")
	}

	if err := b.Enqueue(frame(1)); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if !b.IsFull() {
		t.Error("expected buffer to be full")
	}

	if err := b.Enqueue(frame(2)); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v", err)
	}
	if b.Len() != 2 {
		t.Errorf("expected length 2 after rejected enqueue, got %d", b.Len())
	}
}

func TestBuffer_DequeueEmpty(t *testing.T) {
	b, _ := New(1)
	if _, err := b.Dequeue(); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("expected ErrEmptyBuffer, got %v", err)
	}
}

func TestBuffer_FIFOWrapAround(t *testing.T) {
	b, _ := New(3)

	var got []pipeline.Frame
	next := 0
	// Interleave so head wraps several times.
	for round := 0; round < 5; round++ {
		for !b.IsFull() {
			if err := b.Enqueue(frame(next)); err != nil {
				t.Fatalf("Enqueue failed: %v", err)
			}
			next++
		}
		for i := 0; i < 2; i++ {
			f, err := b.Dequeue()
			if err != nil {
				t.Fatalf("Dequeue failed: %v", err)
			}
			got = append(got, f)
		}
	}
	for !b.IsEmpty() {
		f, _ := b.Dequeue()
		got = append(got, f)
	}

	want := make([]int, next)
	for i := range want {
		want[i] = i
	}
	if diff := cmp.Diff(want, seqs(got)); diff != "" {
		t.Errorf("FIFO order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuffer_RandomOpsNeverExceedCapacity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for capacity := 1; capacity <= 5; capacity++ {
		b, _ := New(capacity)
		var model []int
		next := 0

		for op := 0; op < 500; op++ {
			if rng.Intn(2) == 0 {
				if b.IsFull() {
					continue
				}
				if err := b.Enqueue(frame(next)); err != nil {
					t.Fatalf("cap %d: Enqueue failed: %v", capacity, err)
				}
				model = append(model, next)
				next++
			} else {
				if b.IsEmpty() {
					continue
				}
				f, err := b.Dequeue()
				if err != nil {
					t.Fatalf("cap %d: Dequeue failed: %v", capacity, err)
				}
				if f.Seq != model[0] {
					t.Fatalf("cap %d: expected seq %d, got %d", capacity, model[0], f.Seq)
				}
				model = model[1:]
			}

			if b.Len() > capacity {
				t.Fatalf("cap %d: length %d exceeds capacity", capacity, b.Len())
			}
			if b.Len() != len(model) {
				t.Fatalf("cap %d: expected length %d, got %d", capacity, len(model), b.Len())
			}
		}
	}
}

func TestBuffer_MarkFinished(t *testing.T) {
	b, _ := New(2)

	if b.IsFinished() {
		t.Fatal("new buffer should not be finished")
	}

	b.MarkFinished()
	b.MarkFinished()

	if !b.IsFinished() {
		t.Error("expected finished after MarkFinished")
	}

	// Queue operations never reset the flag.
	_ = b.Enqueue(frame(0))
	_, _ = b.Dequeue()
	if !b.IsFinished() {
		t.Error("finished flag reverted")
	}
}

func TestBuffer_IsDrained(t *testing.T) {
	b, _ := New(2)
	_ = b.Enqueue(frame(0))
	b.MarkFinished()

	if b.IsDrained() {
		t.Error("finished buffer with a frame should not be drained")
	}
	_, _ = b.Dequeue()
	if !b.IsDrained() {
		t.Error("expected drained after final dequeue")
	}
}

func TestBuffer_Stats(t *testing.T) {
	b, _ := New(2)
	_ = b.Enqueue(frame(0))
	_ = b.Enqueue(frame(1))
	_ = b.Enqueue(frame(2))
	_, _ = b.Dequeue()

	want := Stats{Capacity: 2, Enqueued: 2, Dequeued: 1, Rejected: 1, Peak: 2}
	if diff := cmp.Diff(want, b.Stats()); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestBuffer_SPSC(t *testing.T) {
	b, _ := New(4)
	count := 10_000

	var wg sync.WaitGroup
	wg.Add(2)

	// Producer
	go func() {
		defer wg.Done()
		for i := 0; i < count; i++ {
			for b.IsFull() {
				// Spin wait
			}
			if err := b.Enqueue(frame(i)); err != nil {
				t.Errorf("Enqueue failed: %v", err)
				return
			}
		}
		b.MarkFinished()
	}()

	// Consumer
	received := 0
	go func() {
		defer wg.Done()
		for !b.IsDrained() {
			if b.IsEmpty() {
				continue
			}
			f, err := b.Dequeue()
			if err != nil {
				t.Errorf("Dequeue failed: %v", err)
				return
			}
			if f.Seq != received {
				t.Errorf("expected %d, got %d", received, f.Seq)
			}
			received++
		}
	}()

	wg.Wait()

	if received != count {
		t.Errorf("expected %d frames, got %d", count, received)
	}
}
