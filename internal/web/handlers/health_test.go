package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/kozaktomas/classwatch/internal/store"
	"github.com/kozaktomas/classwatch/internal/store/mock"
)

func TestHealthOK(t *testing.T) {
	st := mock.New()
	if err := st.SaveKnownFace(context.Background(), "A123456", []float32{1, 0}); err != nil {
		t.Fatalf("seed face failed: %v", err)
	}

	h := NewHealthHandler(&fakeCamera{active: true}, &fakeStream{}, &fakeWindows{win: morningWindow()}, st)
	code, body := doJSON(t, h.Get, "GET", "/health")

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["status"] != "ok" {
		t.Errorf("expected ok status, got %v", body["status"])
	}
	if body["streaming"] != "live" {
		t.Errorf("expected live streaming, got %v", body["streaming"])
	}
	if body["known_faces"] != float64(1) {
		t.Errorf("expected 1 known face, got %v", body["known_faces"])
	}

	class, ok := body["current_class"].(map[string]any)
	if !ok {
		t.Fatalf("expected current_class object, got %v", body["current_class"])
	}
	if class["start"] != "09:00" || class["end"] != "10:00" {
		t.Errorf("expected HH:MM boundaries, got %v-%v", class["start"], class["end"])
	}
}

func TestHealthDegradedCamera(t *testing.T) {
	h := NewHealthHandler(&fakeCamera{exhausted: true}, &fakeStream{}, &fakeWindows{}, mock.New())
	code, body := doJSON(t, h.Get, "GET", "/health")

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["status"] != "degraded" {
		t.Errorf("expected degraded status, got %v", body["status"])
	}
	if body["current_class"] != nil {
		t.Errorf("expected no current class, got %v", body["current_class"])
	}
}

func TestHealthDegradedStore(t *testing.T) {
	st := mock.New()
	st.FaceErr = errors.New("db down")

	h := NewHealthHandler(&fakeCamera{active: true}, &fakeStream{}, &fakeWindows{}, st)
	_, body := doJSON(t, h.Get, "GET", "/health")

	if body["status"] != "degraded" {
		t.Errorf("expected degraded status, got %v", body["status"])
	}
	if body["store"] != "unavailable" {
		t.Errorf("expected unavailable store, got %v", body["store"])
	}
}

func TestHealthPausedStream(t *testing.T) {
	h := NewHealthHandler(&fakeCamera{active: true}, &fakeStream{paused: true}, &fakeWindows{}, mock.New())
	_, body := doJSON(t, h.Get, "GET", "/health")

	if body["streaming"] != "paused" {
		t.Errorf("expected paused streaming, got %v", body["streaming"])
	}
}

var _ store.FaceStore = (*mock.Store)(nil)
