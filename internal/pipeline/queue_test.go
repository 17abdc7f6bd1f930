package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/kozaktomas/classwatch/internal/camera"
)

func frame(seq uint64) camera.Frame {
	return camera.Frame{Seq: seq, Width: 2, Height: 2, Pix: make([]byte, 12)}
}

func TestQueueDropsWhenFull(t *testing.T) {
	q := NewQueue(2)

	if !q.TryEnqueue(frame(1)) || !q.TryEnqueue(frame(2)) {
		t.Fatal("enqueue into empty queue failed")
	}
	if q.TryEnqueue(frame(3)) {
		t.Error("expected drop on full queue")
	}
	if q.Len() != 2 {
		t.Errorf("expected 2 queued frames, got %d", q.Len())
	}

	// The oldest frame comes out first; the dropped one never shows up.
	f, ok := q.Dequeue(context.Background(), time.Second)
	if !ok || f.Seq != 1 {
		t.Errorf("expected frame 1, got %d (ok=%v)", f.Seq, ok)
	}
	f, ok = q.Dequeue(context.Background(), time.Second)
	if !ok || f.Seq != 2 {
		t.Errorf("expected frame 2, got %d (ok=%v)", f.Seq, ok)
	}
}

func TestQueueEnqueueNeverBlocks(t *testing.T) {
	q := NewQueue(1)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			q.TryEnqueue(frame(uint64(i)))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("producer blocked on a full queue")
	}
}

func TestQueueDequeueTimeout(t *testing.T) {
	q := NewQueue(1)
	start := time.Now()
	_, ok := q.Dequeue(context.Background(), 20*time.Millisecond)
	if ok {
		t.Fatal("expected timeout on empty queue")
	}
	if time.Since(start) > time.Second {
		t.Error("dequeue waited far beyond its timeout")
	}
}

func TestQueueDequeueCancelled(t *testing.T) {
	q := NewQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok := q.Dequeue(ctx, time.Minute); ok {
		t.Fatal("expected cancellation to end the wait")
	}
}
