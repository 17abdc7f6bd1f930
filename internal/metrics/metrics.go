// Package metrics exposes Prometheus instrumentation for the capture
// and recognition pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FramesCaptured counts frames successfully read from the camera.
	FramesCaptured = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "classwatch",
		Subsystem: "camera",
		Name:      "frames_captured_total",
		Help:      "Frames successfully read from the camera device.",
	})

	// CameraReconnects counts device reopen attempts after a failure.
	CameraReconnects = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "classwatch",
		Subsystem: "camera",
		Name:      "reconnects_total",
		Help:      "Camera device reopen attempts after read or open failures.",
	})

	// FramesEnqueued counts frames handed to the recognition worker.
	FramesEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "classwatch",
		Subsystem: "dispatch",
		Name:      "frames_enqueued_total",
		Help:      "Frames enqueued for recognition.",
	})

	// FramesDropped counts frames dropped because the dispatch queue was full.
	FramesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "classwatch",
		Subsystem: "dispatch",
		Name:      "frames_dropped_total",
		Help:      "Frames dropped because the dispatch queue was full.",
	})

	// RecognitionCycles counts completed recognition iterations.
	RecognitionCycles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "classwatch",
		Subsystem: "recognizer",
		Name:      "cycles_total",
		Help:      "Completed recognition cycles.",
	})

	// RecognitionErrors counts recognition iterations that failed.
	RecognitionErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "classwatch",
		Subsystem: "recognizer",
		Name:      "errors_total",
		Help:      "Recognition cycles that ended with an error.",
	})

	// RecognitionLatency observes the duration of one recognition cycle.
	RecognitionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "classwatch",
		Subsystem: "recognizer",
		Name:      "cycle_seconds",
		Help:      "Duration of one recognition cycle.",
		Buckets:   prometheus.DefBuckets,
	})

	// AttendanceOutcomes counts attendance write attempts by outcome.
	AttendanceOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "classwatch",
		Subsystem: "attendance",
		Name:      "outcomes_total",
		Help:      "Attendance write attempts partitioned by outcome.",
	}, []string{"outcome"})

	// KnownFaces tracks the number of loaded face references.
	KnownFaces = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "classwatch",
		Subsystem: "recognizer",
		Name:      "known_faces",
		Help:      "Face references currently loaded in the matcher.",
	})
)
