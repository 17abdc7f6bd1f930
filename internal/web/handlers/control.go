package handlers

import (
	"context"
	"log"
	"net/http"
)

// CameraControl restarts an exhausted capture loop.
type CameraControl interface {
	Reconnect()
}

// ControlHandler drives operational actions: camera reconnects plus a
// full refresh of the in-memory caches.
type ControlHandler struct {
	camera  CameraControl
	refresh func(ctx context.Context) error
}

// NewControlHandler creates the reconnect endpoint handler. refresh
// reloads the face matcher and drops the person and window caches.
func NewControlHandler(camera CameraControl, refresh func(ctx context.Context) error) *ControlHandler {
	return &ControlHandler{camera: camera, refresh: refresh}
}

// Reconnect handles POST /api/reconnect.
func (h *ControlHandler) Reconnect(w http.ResponseWriter, r *http.Request) {
	h.camera.Reconnect()

	if h.refresh != nil {
		if err := h.refresh(r.Context()); err != nil {
			log.Printf("web: refresh after reconnect: %v", err)
			respondJSON(w, http.StatusOK, map[string]string{
				"camera":  "reconnecting",
				"refresh": "failed",
			})
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"camera":  "reconnecting",
		"refresh": "ok",
	})
}
