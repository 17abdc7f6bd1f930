package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"log"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/kozaktomas/classwatch/internal/attendance"
	"github.com/kozaktomas/classwatch/internal/camera"
	"github.com/kozaktomas/classwatch/internal/metrics"
	"github.com/kozaktomas/classwatch/internal/recognize"
	"github.com/kozaktomas/classwatch/internal/schedule"
)

const dequeueTimeout = time.Second

// FaceFinder detects faces in a JPEG image.
type FaceFinder interface {
	DetectFaces(ctx context.Context, jpegData []byte) ([]recognize.Detection, error)
}

// FaceMatcher resolves a probe embedding to a person reference.
type FaceMatcher interface {
	Best(probe []float32) (string, float64, bool)
}

// Recorder persists attendance for a recognized person.
type Recorder interface {
	Record(ctx context.Context, personRef string, win *schedule.Window) (attendance.Outcome, error)
}

// Worker is the single recognition loop. It drains the frame queue,
// detects and matches faces, publishes overlay results, and hands
// recognized people to the attendance writer. Any error in one cycle
// is logged and the loop moves on to the next frame.
type Worker struct {
	queue   *Queue
	windows Windows
	finder  FaceFinder
	matcher FaceMatcher
	writer  Recorder
	board   *ResultBoard
	scale   float64
}

// NewWorker wires the recognition loop.
func NewWorker(queue *Queue, windows Windows, finder FaceFinder, matcher FaceMatcher, writer Recorder, board *ResultBoard, scale float64) *Worker {
	if scale <= 0 || scale > 1 {
		scale = 1
	}
	return &Worker{
		queue:   queue,
		windows: windows,
		finder:  finder,
		matcher: matcher,
		writer:  writer,
		board:   board,
		scale:   scale,
	}
}

// Run processes frames until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		frame, ok := w.queue.Dequeue(ctx, dequeueTimeout)
		if !ok {
			continue
		}

		w.process(ctx, frame)
	}
}

func (w *Worker) process(ctx context.Context, frame camera.Frame) {
	if frame.Empty() {
		return
	}

	// The window may have closed while the frame sat in the queue.
	win := w.windows.Current(ctx)
	if win == nil {
		return
	}

	jpegData, err := encodeScaled(frame, w.scale)
	if err != nil {
		metrics.RecognitionErrors.Inc()
		log.Printf("pipeline: encoding frame %d: %v", frame.Seq, err)
		return
	}

	start := time.Now()
	detections, err := w.finder.DetectFaces(ctx, jpegData)
	metrics.RecognitionLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RecognitionErrors.Inc()
		log.Printf("pipeline: face detection for frame %d: %v", frame.Seq, err)
		return
	}
	metrics.RecognitionCycles.Inc()

	result := &recognize.Result{
		FrameSeq:    frame.Seq,
		ProcessedAt: time.Now(),
		Matches:     make([]recognize.Match, 0, len(detections)),
	}
	for _, d := range detections {
		ref, dist, matched := w.matcher.Best(d.Embedding)
		m := recognize.Match{
			Region:   d.Region.Scale(w.scale),
			Distance: dist,
		}
		if matched {
			m.PersonRef = ref
		}
		result.Matches = append(result.Matches, m)
	}
	w.board.Publish(result)

	for _, m := range result.Matches {
		if !m.Known() {
			continue
		}
		if _, err := w.writer.Record(ctx, m.PersonRef, win); err != nil {
			log.Printf("pipeline: recording attendance for %s: %v", m.PersonRef, err)
		}
	}
}

// encodeScaled downscales a frame and encodes it as JPEG for the
// recognizer. The smaller image keeps detection latency bounded.
func encodeScaled(frame camera.Frame, scale float64) ([]byte, error) {
	src := frame.ToImage()

	var img image.Image = src
	if scale < 1 {
		dw := int(float64(frame.Width) * scale)
		dh := int(float64(frame.Height) * scale)
		if dw < 1 {
			dw = 1
		}
		if dh < 1 {
			dh = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
