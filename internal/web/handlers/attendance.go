package handlers

import (
	"net/http"
	"time"

	"github.com/kozaktomas/classwatch/internal/store"
)

// AttendanceHandler lists today's attendance for the active class.
type AttendanceHandler struct {
	windows    Windows
	sessions   store.SessionStore
	attendance store.AttendanceStore
	now        func() time.Time
}

// NewAttendanceHandler creates the attendance-records endpoint handler.
func NewAttendanceHandler(windows Windows, sessions store.SessionStore, attendance store.AttendanceStore) *AttendanceHandler {
	return &AttendanceHandler{
		windows:    windows,
		sessions:   sessions,
		attendance: attendance,
		now:        time.Now,
	}
}

// recordPayload is the JSON shape of one attendance entry.
type recordPayload struct {
	StudentRef  string `json:"student_ref"`
	DisplayName string `json:"display_name"`
	Status      string `json:"status"`
	RecordedAt  string `json:"recorded_at"`
}

// Get handles GET /api/attendance-records.
func (h *AttendanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	win := h.windows.Current(ctx)
	if win == nil {
		respondJSON(w, http.StatusOK, map[string]any{"active": false, "records": []recordPayload{}})
		return
	}

	day := h.now().Format("2006-01-02")
	session, err := h.sessions.FindSession(ctx, win.SectionID, day)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load class session")
		return
	}
	if session == nil {
		// Window open but nobody recognized yet.
		respondJSON(w, http.StatusOK, map[string]any{"active": true, "records": []recordPayload{}})
		return
	}

	entries, err := h.attendance.ListSessionAttendance(ctx, session.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load attendance records")
		return
	}

	records := make([]recordPayload, 0, len(entries))
	for _, e := range entries {
		records = append(records, recordPayload{
			StudentRef:  e.Student.Ref,
			DisplayName: e.Student.DisplayName(),
			Status:      e.Record.Status,
			RecordedAt:  e.Record.Timestamp.Format(time.RFC3339),
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"active":  true,
		"class":   windowPayload(win),
		"records": records,
	})
}
