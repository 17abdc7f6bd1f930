package pipeline

import (
	"context"
	"time"

	"github.com/kozaktomas/classwatch/internal/camera"
	"github.com/kozaktomas/classwatch/internal/schedule"
)

// Windows yields the currently active schedule window, if any.
type Windows interface {
	Current(ctx context.Context) *schedule.Window
}

// Pump feeds the queue from the camera's latest-frame slot. It ticks at
// the camera rate, forwards every nth frame, and only while a schedule
// window is active, so the recognizer sits idle between classes.
type Pump struct {
	source   *camera.Source
	queue    *Queue
	windows  Windows
	interval time.Duration
	everyNth uint64
}

// NewPump creates a pump reading at fps and forwarding every nth frame.
func NewPump(source *camera.Source, queue *Queue, windows Windows, fps, everyNth int) *Pump {
	if fps <= 0 {
		fps = 30
	}
	if everyNth <= 0 {
		everyNth = 1
	}
	return &Pump{
		source:   source,
		queue:    queue,
		windows:  windows,
		interval: time.Second / time.Duration(fps),
		everyNth: uint64(everyNth),
	}
}

// Run pumps frames until the context is cancelled.
func (p *Pump) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var lastSeq uint64
	var count uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frame, ok := p.source.Latest()
		if !ok || frame.Seq == lastSeq {
			continue
		}
		lastSeq = frame.Seq

		count++
		if count%p.everyNth != 0 {
			continue
		}

		if p.windows.Current(ctx) == nil {
			continue
		}

		p.queue.TryEnqueue(frame)
	}
}
