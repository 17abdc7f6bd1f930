package camera

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
)

var gstInitOnce sync.Once

// GstConfig describes the local v4l2 capture pipeline.
type GstConfig struct {
	Device string // e.g. /dev/video0
	Width  int
	Height int
	FPS    int
}

// GstDevice captures frames from a local camera through GStreamer:
// v4l2src -> videoconvert -> videorate -> capsfilter(RGB) -> appsink.
// The appsink keeps only the newest buffer (max-buffers=1, drop=true) so
// a slow reader never builds a backlog inside the pipeline.
type GstDevice struct {
	pipeline *gst.Pipeline
	frames   chan Frame
	seq      uint64
	width    int
	height   int

	closeOnce sync.Once
	closed    atomic.Bool
}

// OpenGst builds and starts the capture pipeline for the given device.
func OpenGst(cfg GstConfig) (Device, error) {
	gstInitOnce.Do(func() { gst.Init(nil) })

	pipeline, err := gst.NewPipeline("classwatch-capture")
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}

	src, err := gst.NewElement("v4l2src")
	if err != nil {
		return nil, fmt.Errorf("create v4l2src: %w", err)
	}
	if err := src.SetProperty("device", cfg.Device); err != nil {
		return nil, fmt.Errorf("set device %s: %w", cfg.Device, err)
	}

	converter, err := gst.NewElement("videoconvert")
	if err != nil {
		return nil, fmt.Errorf("create videoconvert: %w", err)
	}

	videorate, err := gst.NewElement("videorate")
	if err != nil {
		return nil, fmt.Errorf("create videorate: %w", err)
	}
	// Only drop frames, never duplicate to hit the target rate.
	if err := videorate.SetProperty("drop-only", true); err != nil {
		return nil, fmt.Errorf("configure videorate: %w", err)
	}

	capsfilter, err := gst.NewElement("capsfilter")
	if err != nil {
		return nil, fmt.Errorf("create capsfilter: %w", err)
	}
	caps := gst.NewCapsFromString(fmt.Sprintf(
		"video/x-raw,format=RGB,width=%d,height=%d,framerate=%d/1",
		cfg.Width, cfg.Height, cfg.FPS,
	))
	if err := capsfilter.SetProperty("caps", caps); err != nil {
		return nil, fmt.Errorf("configure caps: %w", err)
	}

	appsink, err := app.NewAppSink()
	if err != nil {
		return nil, fmt.Errorf("create appsink: %w", err)
	}
	appsink.SetProperty("sync", false)    // real-time, no clock sync
	appsink.SetProperty("max-buffers", 1) // keep only the latest frame
	appsink.SetProperty("drop", true)

	if err := pipeline.AddMany(src, converter, videorate, capsfilter, appsink.Element); err != nil {
		return nil, fmt.Errorf("assemble pipeline: %w", err)
	}
	if err := gst.ElementLinkMany(src, converter, videorate, capsfilter, appsink.Element); err != nil {
		return nil, fmt.Errorf("link pipeline: %w", err)
	}

	d := &GstDevice{
		pipeline: pipeline,
		frames:   make(chan Frame, 1),
		width:    cfg.Width,
		height:   cfg.Height,
	}

	appsink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: d.onNewSample,
	})

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		pipeline.SetState(gst.StateNull)
		return nil, fmt.Errorf("start pipeline: %w", err)
	}

	return d, nil
}

// onNewSample copies the appsink buffer into a Frame and publishes it.
// A single bad sample is skipped rather than terminating the stream.
func (d *GstDevice) onNewSample(sink *app.Sink) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		return gst.FlowOK
	}
	buffer := sample.GetBuffer()
	if buffer == nil {
		return gst.FlowOK
	}

	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	if len(data) == 0 {
		buffer.Unmap()
		return gst.FlowOK
	}
	pix := make([]byte, len(data))
	copy(pix, data)
	buffer.Unmap()

	frame := Frame{
		Seq:        atomic.AddUint64(&d.seq, 1),
		CapturedAt: time.Now(),
		Width:      d.width,
		Height:     d.height,
		Pix:        pix,
	}

	if d.closed.Load() {
		return gst.FlowEOS
	}

	// Overwrite the unread frame if the reader is behind.
	select {
	case d.frames <- frame:
	default:
		select {
		case <-d.frames:
		default:
		}
		select {
		case d.frames <- frame:
		default:
		}
	}
	return gst.FlowOK
}

func (d *GstDevice) Read(timeout time.Duration) (Frame, error) {
	if d.closed.Load() {
		return Frame{}, ErrDeviceClosed
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case f, ok := <-d.frames:
		if !ok {
			return Frame{}, ErrDeviceClosed
		}
		return f, nil
	case <-timer.C:
		return Frame{}, ErrReadTimeout
	}
}

func (d *GstDevice) Close() error {
	var err error
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		if stateErr := d.pipeline.SetState(gst.StateNull); stateErr != nil {
			err = fmt.Errorf("stop pipeline: %w", stateErr)
		}
	})
	return err
}
