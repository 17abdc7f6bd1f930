package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/kozaktomas/classwatch/internal/store"
	"github.com/kozaktomas/classwatch/internal/store/mock"
)

func TestCurrentClassNone(t *testing.T) {
	h := NewClassHandler(&fakeWindows{}, mock.New())
	code, body := doJSON(t, h.Get, "GET", "/api/current-class")

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["active"] != false {
		t.Errorf("expected inactive, got %v", body["active"])
	}
}

func TestCurrentClassActive(t *testing.T) {
	st := mock.New()
	if err := st.UpsertCourse(context.Background(), store.Course{ID: "course-1", Code: "CSC101", Name: "Intro to Computing"}); err != nil {
		t.Fatalf("seed course failed: %v", err)
	}

	h := NewClassHandler(&fakeWindows{win: morningWindow()}, st)
	code, body := doJSON(t, h.Get, "GET", "/api/current-class")

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["active"] != true {
		t.Fatalf("expected active, got %v", body["active"])
	}

	class := body["class"].(map[string]any)
	if class["section_name"] != "CSC101 Section A" {
		t.Errorf("unexpected section name: %v", class["section_name"])
	}
	if class["course_name"] != "Intro to Computing" {
		t.Errorf("unexpected course name: %v", class["course_name"])
	}
	if class["status"] != "present" {
		t.Errorf("unexpected status: %v", class["status"])
	}
}

func TestAttendanceRecordsNoWindow(t *testing.T) {
	h := NewAttendanceHandler(&fakeWindows{}, mock.New(), mock.New())
	code, body := doJSON(t, h.Get, "GET", "/api/attendance-records")

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["active"] != false {
		t.Errorf("expected inactive, got %v", body["active"])
	}
	if records := body["records"].([]any); len(records) != 0 {
		t.Errorf("expected empty records, got %v", records)
	}
}

func TestAttendanceRecordsNoSessionYet(t *testing.T) {
	st := mock.New()
	h := NewAttendanceHandler(&fakeWindows{win: morningWindow()}, st, st)
	code, body := doJSON(t, h.Get, "GET", "/api/attendance-records")

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["active"] != true {
		t.Errorf("expected active window, got %v", body["active"])
	}
	if records := body["records"].([]any); len(records) != 0 {
		t.Errorf("expected empty records, got %v", records)
	}
}

func TestAttendanceRecordsNewestFirst(t *testing.T) {
	st := mock.New()
	st.AddStudent(store.Student{ID: "student-1", Ref: "A111111", Name: "Jane Doe", Nickname: "Jane"}, "section-1")
	st.AddStudent(store.Student{ID: "student-2", Ref: "A222222", Name: "Sam Roe"}, "section-1")

	day := time.Now().Format("2006-01-02")
	ctx := context.Background()
	sessionID, err := st.GetOrCreateSession(ctx, "section-1", day, "09:00")
	if err != nil {
		t.Fatalf("seed session failed: %v", err)
	}

	base := time.Now().Add(-time.Hour)
	seed := []store.AttendanceRecord{
		{ID: "r1", StudentID: "student-1", ClassSessionID: sessionID, Status: "present", Timestamp: base},
		{ID: "r2", StudentID: "student-2", ClassSessionID: sessionID, Status: "late", Timestamp: base.Add(10 * time.Minute)},
	}
	for _, rec := range seed {
		if err := st.InsertAttendance(ctx, rec); err != nil {
			t.Fatalf("seed record failed: %v", err)
		}
	}

	h := NewAttendanceHandler(&fakeWindows{win: morningWindow()}, st, st)
	code, body := doJSON(t, h.Get, "GET", "/api/attendance-records")

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	records := body["records"].([]any)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0].(map[string]any)
	if first["student_ref"] != "A222222" {
		t.Errorf("expected newest record first, got %v", first["student_ref"])
	}
	if first["display_name"] != "Sam Roe" {
		t.Errorf("expected full name fallback, got %v", first["display_name"])
	}

	second := records[1].(map[string]any)
	if second["display_name"] != "Jane" {
		t.Errorf("expected nickname, got %v", second["display_name"])
	}
}
