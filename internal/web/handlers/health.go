package handlers

import (
	"net/http"
	"time"

	"github.com/kozaktomas/classwatch/internal/store"
)

// CameraStatus exposes the capture loop state to the health endpoint.
type CameraStatus interface {
	Active() bool
	Exhausted() bool
}

// StreamState reports whether the preview stream is paused.
type StreamState interface {
	Paused() bool
}

// HealthHandler reports process and pipeline health.
type HealthHandler struct {
	camera  CameraStatus
	stream  StreamState
	windows Windows
	faces   store.FaceStore
	started time.Time
}

// NewHealthHandler creates the health endpoint handler.
func NewHealthHandler(camera CameraStatus, stream StreamState, windows Windows, faces store.FaceStore) *HealthHandler {
	return &HealthHandler{
		camera:  camera,
		stream:  stream,
		windows: windows,
		faces:   faces,
		started: time.Now(),
	}
}

// Get handles GET /health.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if h.camera.Exhausted() {
		status = "degraded"
	}

	streaming := "live"
	if h.stream.Paused() {
		streaming = "paused"
	}

	resp := map[string]any{
		"status":         status,
		"uptime_seconds": int(time.Since(h.started).Seconds()),
		"camera": map[string]bool{
			"active":    h.camera.Active(),
			"exhausted": h.camera.Exhausted(),
		},
		"streaming":     streaming,
		"current_class": windowPayload(h.windows.Current(r.Context())),
	}

	// The face count doubles as a store liveness probe.
	if count, err := h.faces.CountKnownFaces(r.Context()); err != nil {
		resp["status"] = "degraded"
		resp["store"] = "unavailable"
	} else {
		resp["store"] = "ok"
		resp["known_faces"] = count
	}

	respondJSON(w, http.StatusOK, resp)
}
