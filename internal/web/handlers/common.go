// Package handlers implements the HTTP endpoints of the web server.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kozaktomas/classwatch/internal/schedule"
)

// Windows yields the currently active schedule window, if any.
type Windows interface {
	Current(ctx context.Context) *schedule.Window
}

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// classPayload is the JSON shape of an active window.
type classPayload struct {
	SectionID   string `json:"section_id"`
	SectionName string `json:"section_name"`
	CourseID    string `json:"course_id"`
	CourseName  string `json:"course_name,omitempty"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Status      string `json:"status"`
}

func windowPayload(win *schedule.Window) *classPayload {
	if win == nil {
		return nil
	}
	return &classPayload{
		SectionID:   win.SectionID,
		SectionName: win.SectionName,
		CourseID:    win.CourseID,
		Start:       schedule.FormatMinute(win.StartMinute),
		End:         schedule.FormatMinute(win.EndMinute),
		Status:      win.Status.String(),
	}
}
