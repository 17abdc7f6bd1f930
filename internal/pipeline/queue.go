// Package pipeline moves frames from the camera to the recognition
// worker. A small bounded queue decouples the two: the capture side
// never blocks, and a slow recognizer only costs dropped frames.
package pipeline

import (
	"context"
	"time"

	"github.com/kozaktomas/classwatch/internal/camera"
	"github.com/kozaktomas/classwatch/internal/metrics"
)

const defaultQueueSize = 3

// Queue is a bounded frame queue with drop-on-full semantics.
type Queue struct {
	ch chan camera.Frame
}

// NewQueue creates a queue holding at most size frames.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = defaultQueueSize
	}
	return &Queue{ch: make(chan camera.Frame, size)}
}

// TryEnqueue offers a frame without blocking. Returns false when the
// queue is full and the frame was dropped.
func (q *Queue) TryEnqueue(f camera.Frame) bool {
	select {
	case q.ch <- f:
		metrics.FramesEnqueued.Inc()
		return true
	default:
		metrics.FramesDropped.Inc()
		return false
	}
}

// Dequeue waits up to timeout for a frame. Returns false on timeout or
// context cancellation.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (camera.Frame, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case f := <-q.ch:
		return f, true
	case <-timer.C:
		return camera.Frame{}, false
	case <-ctx.Done():
		return camera.Frame{}, false
	}
}

// Len returns the number of queued frames.
func (q *Queue) Len() int {
	return len(q.ch)
}
