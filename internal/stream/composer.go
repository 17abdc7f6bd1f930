package stream

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/kozaktomas/classwatch/internal/camera"
	"github.com/kozaktomas/classwatch/internal/pipeline"
	"github.com/kozaktomas/classwatch/internal/schedule"
)

const (
	streamFPS     = 15
	pausedFPS     = 10
	jpegQuality   = 80
	mjpegBoundary = "classwatchframe"
)

// Composer renders the MJPEG preview stream. Each connected viewer
// gets its own render loop over the camera's latest frame; the
// recognition worker is never slowed down by slow viewers.
type Composer struct {
	source  *camera.Source
	board   *pipeline.ResultBoard
	windows pipeline.Windows
	name    NameFunc
	paused  atomic.Bool
}

// NewComposer wires the stream renderer.
func NewComposer(source *camera.Source, board *pipeline.ResultBoard, windows pipeline.Windows, name NameFunc) *Composer {
	return &Composer{
		source:  source,
		board:   board,
		windows: windows,
		name:    name,
	}
}

// Pause stops rendering live frames; viewers see a paused card.
func (c *Composer) Pause() { c.paused.Store(true) }

// Resume restores live rendering.
func (c *Composer) Resume() { c.paused.Store(false) }

// Paused reports whether the stream is paused.
func (c *Composer) Paused() bool { return c.paused.Load() }

// ServeHTTP streams multipart JPEG frames until the client leaves.
func (c *Composer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+mjpegBoundary)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "close")

	interval := time.Second / streamFPS
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		// Paused viewers get the last frame at a reduced rate.
		want := time.Second / streamFPS
		if c.paused.Load() {
			want = time.Second / pausedFPS
		}
		if want != interval {
			interval = want
			ticker.Reset(interval)
		}

		data, err := c.renderFrame(ctx)
		if err != nil {
			return
		}
		if err := writeMJPEGPart(w, data); err != nil {
			return
		}
		flusher.Flush()
	}
}

// renderFrame produces one JPEG for the stream.
func (c *Composer) renderFrame(ctx context.Context) ([]byte, error) {
	if c.paused.Load() {
		// Re-encode the last captured frame without fresh annotations.
		frame, ok := c.source.Latest()
		if !ok || frame.Empty() {
			return encodeJPEG(Placeholder(640, 480, "Stream paused"))
		}
		img := frame.ToImage()
		Banner(img, "Stream paused")
		return encodeJPEG(img)
	}

	frame, ok := c.source.Latest()
	if !ok || frame.Empty() {
		text := "Waiting for camera..."
		if c.source.Exhausted() {
			text = "Camera offline"
		}
		return encodeJPEG(Placeholder(640, 480, text))
	}

	img := frame.ToImage()

	win := c.windows.Current(ctx)
	if win != nil {
		Annotate(img, c.board.Last(), c.name, win.Late())
		Banner(img, windowBanner(win))
	} else {
		Banner(img, "No class in session")
	}

	return encodeJPEG(img)
}

func windowBanner(win *schedule.Window) string {
	return fmt.Sprintf("%s  %s-%s  (%s)",
		win.SectionName,
		schedule.FormatMinute(win.StartMinute),
		schedule.FormatMinute(win.EndMinute),
		win.Status,
	)
}

func encodeJPEG(img *image.RGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeMJPEGPart(w http.ResponseWriter, data []byte) error {
	if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", mjpegBoundary, len(data)); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, "\r\n")
	return err
}
