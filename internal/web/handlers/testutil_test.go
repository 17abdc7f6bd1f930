package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/classwatch/internal/recognize"
	"github.com/kozaktomas/classwatch/internal/schedule"
)

type fakeWindows struct {
	win *schedule.Window
}

func (f *fakeWindows) Current(context.Context) *schedule.Window { return f.win }

type fakeCamera struct {
	active     bool
	exhausted  bool
	reconnects int
}

func (f *fakeCamera) Active() bool    { return f.active }
func (f *fakeCamera) Exhausted() bool { return f.exhausted }
func (f *fakeCamera) Reconnect()      { f.reconnects++ }

type fakeStream struct {
	paused bool
	served int
}

func (f *fakeStream) ServeHTTP(w http.ResponseWriter, r *http.Request) { f.served++ }
func (f *fakeStream) Pause()                                           { f.paused = true }
func (f *fakeStream) Resume()                                          { f.paused = false }
func (f *fakeStream) Paused() bool                                     { return f.paused }

type fakeDetector struct {
	detections []recognize.Detection
	err        error
}

func (f *fakeDetector) DetectFaces(context.Context, []byte) ([]recognize.Detection, error) {
	return f.detections, f.err
}

func morningWindow() *schedule.Window {
	return &schedule.Window{
		SectionID:   "section-1",
		CourseID:    "course-1",
		SectionName: "CSC101 Section A",
		Status:      schedule.StatusPresent,
		StartMinute: 9 * 60,
		EndMinute:   10 * 60,
	}
}

// doJSON runs a handler and decodes its JSON response body.
func doJSON(t *testing.T, h http.HandlerFunc, method, target string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
	}
	return rec.Code, body
}
