package handlers

import (
	"log"
	"net/http"

	"github.com/kozaktomas/classwatch/internal/store"
)

// ClassHandler serves the currently taught class.
type ClassHandler struct {
	windows Windows
	courses store.CourseStore
}

// NewClassHandler creates the current-class endpoint handler.
func NewClassHandler(windows Windows, courses store.CourseStore) *ClassHandler {
	return &ClassHandler{windows: windows, courses: courses}
}

// Get handles GET /api/current-class.
func (h *ClassHandler) Get(w http.ResponseWriter, r *http.Request) {
	win := h.windows.Current(r.Context())
	if win == nil {
		respondJSON(w, http.StatusOK, map[string]any{"active": false})
		return
	}

	payload := windowPayload(win)
	name, err := h.courses.GetCourseName(r.Context(), win.CourseID)
	if err != nil {
		log.Printf("web: course name for %s: %v", sanitizeForLog(win.CourseID), err)
	} else {
		payload.CourseName = name
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"active": true,
		"class":  payload,
	})
}
