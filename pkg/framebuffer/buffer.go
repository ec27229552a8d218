// Package framebuffer provides the fixed-capacity frame queue that connects
// pipeline stages.
//
// A Buffer never blocks. Producers check IsFull before Enqueue and consumers
// check IsEmpty before Dequeue; the stages poll with a fixed delay when they
// cannot make progress. The single producer of a buffer calls MarkFinished
// when it will enqueue no more frames, and consumers stop once they observe
// IsFinished and IsEmpty together (see IsDrained).
package framebuffer

import (
	"errors"
	"sync"

	"github.com/user/framepipe/pkg/pipeline"
)

var (
	// ErrCapacityExceeded is returned by Enqueue on a full buffer.
	ErrCapacityExceeded = errors.New("framebuffer: capacity exceeded")

	// ErrEmptyBuffer is returned by Dequeue on an empty buffer.
	ErrEmptyBuffer = errors.New("framebuffer: buffer is empty")

	// ErrInvalidCapacity is returned by New for a capacity below 1.
	ErrInvalidCapacity = errors.New("framebuffer: capacity must be at least 1")
)

// Stats contains lifetime counters for a buffer.
type Stats struct {
	Capacity int
	Enqueued int
	Dequeued int
	Rejected int // Enqueue calls refused because the buffer was full
	Peak     int // Highest occupancy observed
}

// Buffer is a bounded FIFO of frames with a one-way finished flag.
//
// All methods are safe for concurrent use. The intended discipline is one
// writer per buffer and one reader, or several readers that each poll
// IsEmpty/Dequeue and tolerate ErrEmptyBuffer.
type Buffer struct {
	mu       sync.Mutex
	slots    []pipeline.Frame
	head     int
	count    int
	finished bool
	stats    Stats
}

// New creates a buffer holding at most capacity frames.
func New(capacity int) (*Buffer, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &Buffer{
		slots: make([]pipeline.Frame, capacity),
		stats: Stats{Capacity: capacity},
	}, nil
}

// Cap returns the fixed capacity.
func (b *Buffer) Cap() int {
	return len(b.slots)
}

// Len returns the current number of frames.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// IsEmpty reports whether the buffer holds no frames.
func (b *Buffer) IsEmpty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count == 0
}

// IsFull reports whether the buffer holds capacity frames.
func (b *Buffer) IsFull() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count == len(b.slots)
}

// Enqueue appends frame at the tail.
// It returns ErrCapacityExceeded if the buffer is full.
func (b *Buffer) Enqueue(frame pipeline.Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == len(b.slots) {
		b.stats.Rejected++
		return ErrCapacityExceeded
	}

	b.slots[(b.head+b.count)%len(b.slots)] = frame
	b.count++
	b.stats.Enqueued++
	if b.count > b.stats.Peak {
		b.stats.Peak = b.count
	}
	return nil
}

// Dequeue removes and returns the head frame.
// It returns ErrEmptyBuffer if the buffer is empty.
func (b *Buffer) Dequeue() (pipeline.Frame, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		return pipeline.Frame{}, ErrEmptyBuffer
	}

	frame := b.slots[b.head]
	// Release the sample slice for GC
	b.slots[b.head] = pipeline.Frame{}
	b.head = (b.head + 1) % len(b.slots)
	b.count--
	b.stats.Dequeued++
	return frame, nil
}

// MarkFinished records that the producer will enqueue no more frames.
// Calling it more than once is a no-op.
func (b *Buffer) MarkFinished() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.finished = true
}

// IsFinished reports whether MarkFinished has been called.
func (b *Buffer) IsFinished() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.finished
}

// IsDrained reports IsFinished && IsEmpty as one atomic observation.
func (b *Buffer) IsDrained() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.finished && b.count == 0
}

// Stats returns a snapshot of the buffer counters.
func (b *Buffer) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}
