package nullsink

import (
	"testing"

	"github.com/user/framepipe/pkg/pipeline"
)

func TestSink(t *testing.T) {
	s := New()
	if s.Enabled() {
		t.Error("expected Enabled to return false")
	}
	for i := 0; i < 4; i++ {
		if err := s.Consume(pipeline.Frame{Seq: i}); err != nil {
			t.Fatalf("Consume failed: %v", err)
		}
	}
	if s.Consumed() != 4 {
		t.Errorf("expected 4 consumed frames, got %d", s.Consumed())
	}
}
