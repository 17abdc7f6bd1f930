package handlers

import (
	"net/http"
)

// StreamController controls the MJPEG composer.
type StreamController interface {
	http.Handler
	Pause()
	Resume()
	Paused() bool
}

// StreamHandler exposes the preview stream and its pause switch.
type StreamHandler struct {
	composer StreamController
}

// NewStreamHandler creates the stream endpoints handler.
func NewStreamHandler(composer StreamController) *StreamHandler {
	return &StreamHandler{composer: composer}
}

// Video handles GET /video.
func (h *StreamHandler) Video(w http.ResponseWriter, r *http.Request) {
	h.composer.ServeHTTP(w, r)
}

// Pause handles POST /api/pause-stream.
func (h *StreamHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.composer.Pause()
	respondJSON(w, http.StatusOK, map[string]string{"stream": "paused"})
}

// Resume handles POST /api/resume-stream.
func (h *StreamHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.composer.Resume()
	respondJSON(w, http.StatusOK, map[string]string{"stream": "live"})
}
